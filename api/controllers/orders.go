package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/middleware"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/responses"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/validators"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/orders"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/logger"
)

type orderListResponse struct {
	Orders []orders.OrderDTO `json:"orders"`
	Page   any               `json:"page,omitempty"`
}

// OrderCreateDraft reserves credit and opens a draft order upstream. The
// authenticated member is always the order author; the body cannot name
// someone else.
func OrderCreateDraft(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		callerID, err := callerUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input orders.CreateDraftOrderInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input.UserID = callerID

		order, err := svc.CreateDraftOrder(ctx, middleware.ShopIDFromContext(ctx), input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderGet returns one mirrored order.
func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.GetByID(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrdersListByCompany pages through a company's orders, newest first.
func OrdersListByCompany(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
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

		list, page, err := svc.ListByCompany(ctx, companyID, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderListResponse{Orders: list, Page: page})
	}
}

// OrdersListMine pages through the caller's own orders.
func OrdersListMine(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		callerID, err := callerUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, page, err := svc.ListByUser(ctx, callerID, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderListResponse{Orders: list, Page: page})
	}
}

func callerUserID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid caller identity")
	}
	return id, nil
}
