package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/enums"
)

// B2BOrder mirrors a Shopify order or draft order for a company member.
// ShopifyOrderID stays nil until the order has synced; together with ShopID it
// forms the idempotency key for webhook-driven mutations.
// Invariant: RemainingBalance = OrderTotal - PaidAmount at every committed state.
type B2BOrder struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ShopID           string              `gorm:"column:shop_id;not null;uniqueIndex:idx_orders_shop_external"`
	ShopifyOrderID   *string             `gorm:"column:shopify_order_id;uniqueIndex:idx_orders_shop_external"`
	CompanyID        uuid.UUID           `gorm:"column:company_id;type:uuid;not null;index"`
	CreatedByUserID  uuid.UUID           `gorm:"column:created_by_user_id;type:uuid;not null;index"`
	OrderTotal       decimal.Decimal     `gorm:"column:order_total;type:numeric(14,2);not null"`
	CreditUsed       decimal.Decimal     `gorm:"column:credit_used;type:numeric(14,2);not null;default:0"`
	UserCreditUsed   decimal.Decimal     `gorm:"column:user_credit_used;type:numeric(14,2);not null;default:0"`
	PaidAmount       decimal.Decimal     `gorm:"column:paid_amount;type:numeric(14,2);not null;default:0"`
	RemainingBalance decimal.Decimal     `gorm:"column:remaining_balance;type:numeric(14,2);not null;default:0"`
	PaymentStatus    enums.PaymentStatus `gorm:"column:payment_status;type:payment_status_enum;not null;default:'pending'"`
	OrderStatus      enums.OrderStatus   `gorm:"column:order_status;type:order_status_enum;not null;default:'draft'"`
	ReviewRequired   bool                `gorm:"column:review_required;not null;default:false"`
	PaidAt           *time.Time          `gorm:"column:paid_at"`
	Payments         []OrderPayment      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
