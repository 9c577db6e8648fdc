package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a B2B member. CompanyID stays nil until an admin approves the
// registration and assigns the customer to a company. CreditLimit is the
// optional personal sub-limit; CreditUsed is mutated only by the credit engine.
type User struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ShopID            string           `gorm:"column:shop_id;not null;index"`
	Email             string           `gorm:"column:email;not null;index"`
	ShopifyCustomerID *string          `gorm:"column:shopify_customer_id;uniqueIndex"`
	CompanyID         *uuid.UUID       `gorm:"column:company_id;type:uuid;index"`
	CreditLimit       *decimal.Decimal `gorm:"column:credit_limit;type:numeric(14,2)"`
	CreditUsed        decimal.Decimal  `gorm:"column:credit_used;type:numeric(14,2);not null;default:0"`
	Role              string           `gorm:"column:role;not null;default:'member'"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
