package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db/models"
)

// UserDTO is the transport shape for company members.
type UserDTO struct {
	ID                uuid.UUID        `json:"id"`
	Email             string           `json:"email"`
	ShopifyCustomerID *string          `json:"shopify_customer_id,omitempty"`
	CompanyID         *uuid.UUID       `json:"company_id,omitempty"`
	CreditLimit       *decimal.Decimal `json:"credit_limit,omitempty"`
	CreditUsed        decimal.Decimal  `json:"credit_used"`
	Role              string           `json:"role"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	ShopID            string
	Email             string
	ShopifyCustomerID *string
	CompanyID         *uuid.UUID
	CreditLimit       *decimal.Decimal
	Role              string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:                u.ID,
		Email:             u.Email,
		ShopifyCustomerID: u.ShopifyCustomerID,
		CompanyID:         u.CompanyID,
		CreditLimit:       u.CreditLimit,
		CreditUsed:        u.CreditUsed,
		Role:              u.Role,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = "member"
	}
	return &models.User{
		ID:                uuid.New(),
		ShopID:            c.ShopID,
		Email:             c.Email,
		ShopifyCustomerID: c.ShopifyCustomerID,
		CompanyID:         c.CompanyID,
		CreditLimit:       c.CreditLimit,
		Role:              role,
	}
}
