package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/enums"
)

// Company is a B2B business account. CreditLimit is the authoritative ceiling
// for the aggregate outstanding order value of all members; only administrative
// actions change it, never the reservation engine.
type Company struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ShopID            string              `gorm:"column:shop_id;not null;index"`
	Name              string              `gorm:"column:name;not null"`
	ExternalCompanyID *string             `gorm:"column:external_company_id;uniqueIndex"`
	Status            enums.CompanyStatus `gorm:"column:status;type:company_status_enum;not null;default:'pending'"`
	CreditLimit       decimal.Decimal     `gorm:"column:credit_limit;type:numeric(14,2);not null;default:0"`
	ContactEmail      string              `gorm:"column:contact_email"`
	Users             []User              `gorm:"foreignKey:CompanyID"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
