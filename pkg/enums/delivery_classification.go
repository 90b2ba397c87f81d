package enums

import "fmt"

// DeliveryClassification summarizes how an accepted delivery compared to the
// ordered quantities.
type DeliveryClassification string

const (
	DeliveryClassificationComplete DeliveryClassification = "complete"
	DeliveryClassificationPartial  DeliveryClassification = "partial"
	DeliveryClassificationNone     DeliveryClassification = "none"
)

var validDeliveryClassifications = []DeliveryClassification{
	DeliveryClassificationComplete,
	DeliveryClassificationPartial,
	DeliveryClassificationNone,
}

// String implements fmt.Stringer.
func (d DeliveryClassification) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryClassification.
func (d DeliveryClassification) IsValid() bool {
	for _, candidate := range validDeliveryClassifications {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryClassification converts raw input into a DeliveryClassification.
func ParseDeliveryClassification(value string) (DeliveryClassification, error) {
	for _, candidate := range validDeliveryClassifications {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery classification %q", value)
}
