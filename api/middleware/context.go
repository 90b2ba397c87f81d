package middleware

import "context"

type contextKey string

const (
	ctxUserID     contextKey = "user_id"
	ctxRole       contextKey = "actor_role"
	ctxStoreID    contextKey = "store_id"
	ctxSupplierID contextKey = "supplier_id"
)

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func withStringValue(ctx context.Context, key contextKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, value)
}

func UserIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxUserID)
}

func RoleFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxRole)
}

func StoreIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxStoreID)
}

func SupplierIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxSupplierID)
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return withStringValue(ctx, ctxUserID, userID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	return withStringValue(ctx, ctxRole, role)
}

// WithStoreID injects the store identifier into the context for downstream handlers.
func WithStoreID(ctx context.Context, storeID string) context.Context {
	return withStringValue(ctx, ctxStoreID, storeID)
}

// WithSupplierID injects the supplier scope a supplier-portal user acts for.
func WithSupplierID(ctx context.Context, supplierID string) context.Context {
	return withStringValue(ctx, ctxSupplierID, supplierID)
}
