package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/middleware"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/responses"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/api/validators"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/wishlist"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/logger"
)

// WishlistList returns a customer's saved variants for the caller's shop.
func WishlistList(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		customerID := strings.TrimSpace(r.URL.Query().Get("customer_id"))
		if customerID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required"))
			return
		}

		items, err := svc.GetWishlist(ctx, middleware.ShopIDFromContext(ctx), customerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// WishlistAddItem saves a variant to the customer's wishlist.
func WishlistAddItem(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		var input wishlist.AddItemInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.AddItem(ctx, middleware.ShopIDFromContext(ctx), input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"added": true})
	}
}

// WishlistRemoveItem drops a saved variant.
func WishlistRemoveItem(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		customerID := strings.TrimSpace(r.URL.Query().Get("customer_id"))
		variantID := strings.TrimSpace(chi.URLParam(r, "variantId"))
		if customerID == "" || variantID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customer id and variant id are required"))
			return
		}

		if err := svc.RemoveItem(ctx, middleware.ShopIDFromContext(ctx), customerID, variantID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": true})
	}
}
