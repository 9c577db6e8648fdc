package credit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
)

// CompanyCredit is the company-tier availability snapshot. UsedCredit is the
// outstanding reservation total; PendingCredit is the share of it held by
// orders that have seen no payment at all.
type CompanyCredit struct {
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	UsedCredit      decimal.Decimal `json:"used_credit"`
	PendingCredit   decimal.Decimal `json:"pending_credit"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
}

// UserCredit is the user-tier availability snapshot. Without a personal limit
// the user inherits the full company availability.
type UserCredit struct {
	HasPersonalLimit bool             `json:"has_personal_limit"`
	CreditLimit      *decimal.Decimal `json:"credit_limit,omitempty"`
	CreditUsed       decimal.Decimal  `json:"credit_used"`
	AvailableCredit  decimal.Decimal  `json:"available_credit"`
}

// Calculator computes available credit at both tiers from persisted state.
// It never mutates anything; mutation belongs to the Engine.
type Calculator struct {
	repo Repository
}

// NewCalculator wires a calculator with the provided ledger repository.
func NewCalculator(repo Repository) (*Calculator, error) {
	if repo == nil {
		return nil, fmt.Errorf("credit repository required")
	}
	return &Calculator{repo: repo}, nil
}

// WithRepo returns a calculator bound to the (possibly transaction-scoped)
// repository.
func (c *Calculator) WithRepo(repo Repository) *Calculator {
	return &Calculator{repo: repo}
}

// AvailableCredit resolves the company-tier snapshot. AvailableCredit can go
// negative only when an admin lowered the limit below the outstanding total;
// the engine itself never produces that state.
func (c *Calculator) AvailableCredit(ctx context.Context, companyID uuid.UUID) (*CompanyCredit, error) {
	company, err := c.repo.FindCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	outstanding, err := c.repo.OutstandingCredit(ctx, companyID)
	if err != nil {
		return nil, err
	}
	pending, err := c.repo.PendingCredit(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return &CompanyCredit{
		CreditLimit:     company.CreditLimit,
		UsedCredit:      outstanding,
		PendingCredit:   pending,
		AvailableCredit: company.CreditLimit.Sub(outstanding),
	}, nil
}

// UserAvailableCredit resolves the user-tier snapshot. A personal limit caps
// the user at min(personal remaining, company available); without one the
// company tier is the only constraint.
func (c *Calculator) UserAvailableCredit(ctx context.Context, companyID, userID uuid.UUID) (*UserCredit, *CompanyCredit, error) {
	company, err := c.AvailableCredit(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}

	user, err := c.repo.FindUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user.CompanyID == nil || *user.CompanyID != companyID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "user does not belong to company")
	}

	snapshot := &UserCredit{
		CreditUsed:      user.CreditUsed,
		AvailableCredit: company.AvailableCredit,
	}
	if user.CreditLimit != nil {
		snapshot.HasPersonalLimit = true
		snapshot.CreditLimit = user.CreditLimit
		personal := user.CreditLimit.Sub(user.CreditUsed)
		snapshot.AvailableCredit = decimal.Min(personal, company.AvailableCredit)
	}
	return snapshot, company, nil
}
