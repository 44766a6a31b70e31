package enums

import "fmt"

// OrderRefType qualifies which kind of order a history entry points at.
type OrderRefType string

const (
	OrderRefTypeStoreOrder   OrderRefType = "store_order"
	OrderRefTypePartnerOrder OrderRefType = "partner_order"
)

var validOrderRefTypes = []OrderRefType{
	OrderRefTypeStoreOrder,
	OrderRefTypePartnerOrder,
}

// String implements fmt.Stringer.
func (o OrderRefType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderRefType.
func (o OrderRefType) IsValid() bool {
	for _, candidate := range validOrderRefTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderRefType converts raw input into an OrderRefType.
func ParseOrderRefType(value string) (OrderRefType, error) {
	for _, candidate := range validOrderRefTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order ref type %q", value)
}
