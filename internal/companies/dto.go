package companies

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/users"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db/models"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/enums"
)

// CompanyDTO is the transport shape for business accounts.
type CompanyDTO struct {
	ID                uuid.UUID           `json:"id"`
	Name              string              `json:"name"`
	ExternalCompanyID *string             `json:"external_company_id,omitempty"`
	Status            enums.CompanyStatus `json:"status"`
	CreditLimit       decimal.Decimal     `json:"credit_limit"`
	ContactEmail      string              `json:"contact_email,omitempty"`
	Members           []users.UserDTO     `json:"members,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// RegisterInput captures a business account application.
type RegisterInput struct {
	ShopID       string `json:"-"`
	Name         string `json:"name" validate:"required,min=2"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
}

// AssignUserInput attaches a user to a company, optionally with a personal
// credit sub-limit.
type AssignUserInput struct {
	UserID      uuid.UUID        `json:"user_id" validate:"required"`
	CreditLimit *decimal.Decimal `json:"credit_limit,omitempty"`
	Role        string           `json:"role,omitempty"`
}

func fromModel(c *models.Company) *CompanyDTO {
	if c == nil {
		return nil
	}
	dto := &CompanyDTO{
		ID:                c.ID,
		Name:              c.Name,
		ExternalCompanyID: c.ExternalCompanyID,
		Status:            c.Status,
		CreditLimit:       c.CreditLimit,
		ContactEmail:      c.ContactEmail,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	for i := range c.Users {
		dto.Members = append(dto.Members, *users.FromModel(&c.Users[i]))
	}
	return dto
}
