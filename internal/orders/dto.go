package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db/models"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/enums"
)

// OrderDTO is the transport shape for B2B orders.
type OrderDTO struct {
	ID               uuid.UUID           `json:"id"`
	ShopifyOrderID   *string             `json:"shopify_order_id,omitempty"`
	CompanyID        uuid.UUID           `json:"company_id"`
	CreatedByUserID  uuid.UUID           `json:"created_by_user_id"`
	OrderTotal       decimal.Decimal     `json:"order_total"`
	CreditUsed       decimal.Decimal     `json:"credit_used"`
	PaidAmount       decimal.Decimal     `json:"paid_amount"`
	RemainingBalance decimal.Decimal     `json:"remaining_balance"`
	PaymentStatus    enums.PaymentStatus `json:"payment_status"`
	OrderStatus      enums.OrderStatus   `json:"order_status"`
	ReviewRequired   bool                `json:"review_required"`
	PaidAt           *time.Time          `json:"paid_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// LineItemInput is one requested draft order line.
type LineItemInput struct {
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateDraftOrderInput is the portal-side draft order request. Total is the
// storefront's estimate used to reserve credit up front; the upstream draft
// total is reconciled through the draft order webhooks.
type CreateDraftOrderInput struct {
	UserID    uuid.UUID       `json:"-"`
	Total     decimal.Decimal `json:"total" validate:"required"`
	LineItems []LineItemInput `json:"line_items" validate:"required,min=1,dive"`
	Note      string          `json:"note,omitempty"`
}

// OrderEvent is a normalized orders/* webhook payload.
type OrderEvent struct {
	ShopID            string
	ExternalOrderID   string
	Name              string
	CustomerID        string
	Total             decimal.Decimal
	FinancialStatus   string
	FulfillmentStatus string
}

// DraftOrderEvent is a normalized draft_orders/* webhook payload. Status is
// Shopify's draft status (open, invoice_sent, completed); UpdatedAt is the
// raw timestamp string used to tell distinct edits apart.
type DraftOrderEvent struct {
	ShopID          string
	ExternalDraftID string
	CustomerID      string
	Total           decimal.Decimal
	Status          string
	UpdatedAt       string
}

func fromModel(o *models.B2BOrder) *OrderDTO {
	if o == nil {
		return nil
	}
	return &OrderDTO{
		ID:               o.ID,
		ShopifyOrderID:   o.ShopifyOrderID,
		CompanyID:        o.CompanyID,
		CreatedByUserID:  o.CreatedByUserID,
		OrderTotal:       o.OrderTotal,
		CreditUsed:       o.CreditUsed,
		PaidAmount:       o.PaidAmount,
		RemainingBalance: o.RemainingBalance,
		PaymentStatus:    o.PaymentStatus,
		OrderStatus:      o.OrderStatus,
		ReviewRequired:   o.ReviewRequired,
		PaidAt:           o.PaidAt,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}
