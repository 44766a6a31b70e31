package enums

import "fmt"

// DefectStatus tracks the review lifecycle of a defective product report.
type DefectStatus string

const (
	DefectStatusPending  DefectStatus = "pending"
	DefectStatusApproved DefectStatus = "approved"
	DefectStatusRejected DefectStatus = "rejected"
)

var validDefectStatuses = []DefectStatus{
	DefectStatusPending,
	DefectStatusApproved,
	DefectStatusRejected,
}

// String implements fmt.Stringer.
func (d DefectStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DefectStatus.
func (d DefectStatus) IsValid() bool {
	for _, candidate := range validDefectStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDefectStatus converts raw input into a DefectStatus.
func ParseDefectStatus(value string) (DefectStatus, error) {
	for _, candidate := range validDefectStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid defect status %q", value)
}
