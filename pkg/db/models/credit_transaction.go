package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/enums"
)

// CreditTransaction is an append-only ledger entry. Rows are never mutated or
// deleted; replaying them in creation order must reproduce the company's
// current outstanding credit. The (order_id, reason) pair dedupes at-least-once
// webhook deliveries.
type CreditTransaction struct {
	ID              uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID       uuid.UUID                   `gorm:"column:company_id;type:uuid;not null;index"`
	OrderID         *uuid.UUID                  `gorm:"column:order_id;type:uuid;index;uniqueIndex:idx_credit_tx_order_reason"`
	UserID          *uuid.UUID                  `gorm:"column:user_id;type:uuid;index"`
	Type            enums.CreditTransactionType `gorm:"column:type;type:credit_transaction_type_enum;not null"`
	Reason          string                      `gorm:"column:reason;not null;uniqueIndex:idx_credit_tx_order_reason"`
	Amount          decimal.Decimal             `gorm:"column:amount;type:numeric(14,2);not null"`
	PreviousBalance decimal.Decimal             `gorm:"column:previous_balance;type:numeric(14,2);not null"`
	NewBalance      decimal.Decimal             `gorm:"column:new_balance;type:numeric(14,2);not null"`
	CreatedAt       time.Time                   `gorm:"column:created_at;autoCreateTime"`
}
