package enums

import "fmt"

// StoreOrderStatus tracks the lifecycle of a store order.
type StoreOrderStatus string

const (
	StoreOrderStatusPending   StoreOrderStatus = "pending"
	StoreOrderStatusInTransit StoreOrderStatus = "in_transit"
	StoreOrderStatusAccepted  StoreOrderStatus = "accepted"
	StoreOrderStatusRejected  StoreOrderStatus = "rejected"
)

var validStoreOrderStatuses = []StoreOrderStatus{
	StoreOrderStatusPending,
	StoreOrderStatusInTransit,
	StoreOrderStatusAccepted,
	StoreOrderStatusRejected,
}

// String implements fmt.Stringer.
func (s StoreOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StoreOrderStatus.
func (s StoreOrderStatus) IsValid() bool {
	for _, candidate := range validStoreOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s StoreOrderStatus) IsTerminal() bool {
	return s == StoreOrderStatusAccepted || s == StoreOrderStatusRejected
}

// ParseStoreOrderStatus converts raw input into a StoreOrderStatus.
func ParseStoreOrderStatus(value string) (StoreOrderStatus, error) {
	for _, candidate := range validStoreOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid store order status %q", value)
}
