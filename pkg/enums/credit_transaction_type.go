package enums

import "fmt"

// CreditTransactionType maps to the credit_transaction_type_enum enum in Postgres.
type CreditTransactionType string

const (
	CreditTransactionTypeOrderCreated   CreditTransactionType = "order_created"
	CreditTransactionTypeOrderCancelled CreditTransactionType = "order_cancelled"
	CreditTransactionTypeOrderEdited    CreditTransactionType = "order_edited"
	CreditTransactionTypeCreditReserved CreditTransactionType = "credit_reserved"
	CreditTransactionTypeCreditReleased CreditTransactionType = "credit_released"
	CreditTransactionTypeAdjustment     CreditTransactionType = "adjustment"
)

var validCreditTransactionTypes = []CreditTransactionType{
	CreditTransactionTypeOrderCreated,
	CreditTransactionTypeOrderCancelled,
	CreditTransactionTypeOrderEdited,
	CreditTransactionTypeCreditReserved,
	CreditTransactionTypeCreditReleased,
	CreditTransactionTypeAdjustment,
}

// Release reports whether the transaction hands reserved credit back.
func (t CreditTransactionType) Release() bool {
	return t == CreditTransactionTypeOrderCancelled || t == CreditTransactionTypeCreditReleased
}

// IsValid reports whether the value matches the canonical transaction enum.
func (t CreditTransactionType) IsValid() bool {
	for _, candidate := range validCreditTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseCreditTransactionType converts raw input into CreditTransactionType.
func ParseCreditTransactionType(value string) (CreditTransactionType, error) {
	for _, candidate := range validCreditTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid credit transaction type %q", value)
}
