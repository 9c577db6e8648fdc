package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderPayment records one settlement against an order. Partial payments keep
// the parent order in payment_status=partial until the balance reaches zero.
type OrderPayment struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Method    string          `gorm:"column:method"`
	Reference string          `gorm:"column:reference"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
