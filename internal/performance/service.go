package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/avelarsoto/storeops-backend/pkg/errors"
)

// Service defines the supplier performance reporting operations.
// A non-nil supplierID narrows the report to that supplier's orders.
type Service interface {
	GenerateReport(ctx context.Context, storeID uuid.UUID, supplierID *uuid.UUID, from, to time.Time) (*Report, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires a performance service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("performance repository required")
	}
	return &service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) GenerateReport(ctx context.Context, storeID uuid.UUID, supplierID *uuid.UUID, from, to time.Time) (*Report, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	if from.IsZero() || to.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report period required")
	}
	if !from.Before(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report period start must precede its end")
	}

	if supplierID != nil && *supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id cannot be empty")
	}

	orders, err := s.repo.FindDeliveredOrders(ctx, storeID, supplierID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivered orders")
	}

	supplierIDs := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]struct{})
	for _, order := range orders {
		if _, ok := seen[order.SupplierID]; ok {
			continue
		}
		seen[order.SupplierID] = struct{}{}
		supplierIDs = append(supplierIDs, order.SupplierID)
	}

	suppliers, err := s.repo.FindSuppliersByIDs(ctx, supplierIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load suppliers")
	}
	names := make(map[uuid.UUID]string, len(suppliers))
	for _, supplier := range suppliers {
		names[supplier.ID] = supplier.Name
	}

	return BuildReport(storeID, from, to, s.now(), orders, names), nil
}
