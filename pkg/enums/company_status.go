package enums

import "fmt"

// CompanyStatus tracks the review state of a business registration.
type CompanyStatus string

const (
	CompanyStatusPending  CompanyStatus = "pending"
	CompanyStatusApproved CompanyStatus = "approved"
	CompanyStatusRejected CompanyStatus = "rejected"
)

var validCompanyStatuses = []CompanyStatus{
	CompanyStatusPending,
	CompanyStatusApproved,
	CompanyStatusRejected,
}

// IsValid reports whether the value is a known CompanyStatus.
func (c CompanyStatus) IsValid() bool {
	for _, candidate := range validCompanyStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCompanyStatus converts raw input into a CompanyStatus.
func ParseCompanyStatus(value string) (CompanyStatus, error) {
	for _, candidate := range validCompanyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid company status %q", value)
}
