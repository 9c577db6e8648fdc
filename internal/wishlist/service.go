package wishlist

import (
	"context"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db/models"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
)

// Service exposes business rules for wishlist management.
type Service interface {
	GetWishlist(ctx context.Context, shopID, customerID string) ([]ItemDTO, error)
	AddItem(ctx context.Context, shopID string, input AddItemInput) error
	RemoveItem(ctx context.Context, shopID, customerID, variantID string) error
}

type service struct {
	repo *Repository
}

// NewService builds a wishlist service with the required dependencies.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetWishlist(ctx context.Context, shopID, customerID string) ([]ItemDTO, error) {
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	items, err := s.repo.ListItems(ctx, shopID, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]ItemDTO, 0, len(items))
	for i := range items {
		out = append(out, itemFromModel(&items[i]))
	}
	return out, nil
}

func (s *service) AddItem(ctx context.Context, shopID string, input AddItemInput) error {
	if input.CustomerID == "" || input.VariantID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id and variant id are required")
	}
	return s.repo.AddItem(ctx, &models.WishlistItem{
		ShopID:     shopID,
		CustomerID: input.CustomerID,
		ProductID:  input.ProductID,
		VariantID:  input.VariantID,
	})
}

func (s *service) RemoveItem(ctx context.Context, shopID, customerID, variantID string) error {
	if customerID == "" || variantID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id and variant id are required")
	}
	return s.repo.RemoveItem(ctx, shopID, customerID, variantID)
}
