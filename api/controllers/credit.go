package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/responses"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/validators"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/credit"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db/models"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/enums"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/logger"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/pagination"
)

type creditLedgerLister interface {
	ListByCompany(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]models.CreditTransaction, *pagination.Page, error)
}

type creditTransactionDTO struct {
	ID              uuid.UUID                   `json:"id"`
	OrderID         *uuid.UUID                  `json:"order_id,omitempty"`
	UserID          *uuid.UUID                  `json:"user_id,omitempty"`
	Type            enums.CreditTransactionType `json:"type"`
	Reason          string                      `json:"reason"`
	Amount          decimal.Decimal             `json:"amount"`
	PreviousBalance decimal.Decimal             `json:"previous_balance"`
	NewBalance      decimal.Decimal             `json:"new_balance"`
	CreatedAt       time.Time                   `json:"created_at"`
}

type creditLedgerResponse struct {
	Transactions []creditTransactionDTO `json:"transactions"`
	Page         *pagination.Page       `json:"page,omitempty"`
}

type userCreditResponse struct {
	User    *credit.UserCredit    `json:"user"`
	Company *credit.CompanyCredit `json:"company"`
}

// CompanyCreditSnapshot returns the company's live availability.
func CompanyCreditSnapshot(calc *credit.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if calc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "credit calculator unavailable"))
			return
		}

		companyID, err := parseIDParam(r, "companyId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snapshot, err := calc.AvailableCredit(ctx, companyID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// UserCreditSnapshot returns one member's availability alongside the company
// tier that caps it.
func UserCreditSnapshot(calc *credit.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if calc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "credit calculator unavailable"))
			return
		}

		companyID, err := parseIDParam(r, "companyId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		userID, err := parseIDParam(r, "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		userSnapshot, companySnapshot, err := calc.UserAvailableCredit(ctx, companyID, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, userCreditResponse{User: userSnapshot, Company: companySnapshot})
	}
}

// CreditLedger pages through the company's signed ledger, newest first.
func CreditLedger(ledger creditLedgerLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ledger == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "credit ledger unavailable"))
			return
		}

		companyID, err := parseIDParam(r, "companyId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, page, err := ledger.ListByCompany(ctx, companyID, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list := make([]creditTransactionDTO, 0, len(rows))
		for i := range rows {
			list = append(list, transactionFromModel(&rows[i]))
		}
		responses.WriteSuccess(w, creditLedgerResponse{Transactions: list, Page: page})
	}
}

func transactionFromModel(m *models.CreditTransaction) creditTransactionDTO {
	return creditTransactionDTO{
		ID:              m.ID,
		OrderID:         m.OrderID,
		UserID:          m.UserID,
		Type:            m.Type,
		Reason:          m.Reason,
		Amount:          m.Amount,
		PreviousBalance: m.PreviousBalance,
		NewBalance:      m.NewBalance,
		CreatedAt:       m.CreatedAt,
	}
}
