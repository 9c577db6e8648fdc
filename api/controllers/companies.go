package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/middleware"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/responses"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/validators"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/companies"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/enums"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/logger"
)

// Zero is a legal ceiling (credit suspended), so the amount carries no
// required tag; the service rejects negatives.
type setCreditLimitPayload struct {
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// CompanyRegister files a business account application for the caller's shop.
func CompanyRegister(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		var input companies.RegisterInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input.ShopID = middleware.ShopIDFromContext(ctx)

		company, err := svc.Register(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, company)
	}
}

// CompanyGet returns one company with its members.
func CompanyGet(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		id, err := parseIDParam(r, "companyId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		company, err := svc.GetByID(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, company)
	}
}

// CompanyList returns the shop's companies, optionally filtered by status.
func CompanyList(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		var status *enums.CompanyStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseCompanyStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		list, err := svc.List(ctx, middleware.ShopIDFromContext(ctx), status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CompanyApprove approves a pending application and provisions the upstream
// company record.
func CompanyApprove(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		id, err := parseIDParam(r, "companyId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		company, err := svc.Approve(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, company)
	}
}

// CompanyReject declines a pending application.
func CompanyReject(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		id, err := parseIDParam(r, "companyId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		company, err := svc.Reject(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, company)
	}
}

// CompanySetCreditLimit moves the company credit ceiling.
func CompanySetCreditLimit(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		id, err := parseIDParam(r, "companyId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload setCreditLimitPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		company, err := svc.SetCreditLimit(ctx, id, payload.CreditLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, company)
	}
}

// CompanyAssignUser links a user to the company, optionally with a personal
// credit sub-limit.
func CompanyAssignUser(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		id, err := parseIDParam(r, "companyId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input companies.AssignUserInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		member, err := svc.AssignUser(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "identifier is required").WithDetails(map[string]any{"field": name})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identifier").WithDetails(map[string]any{"field": name})
	}
	return id, nil
}
