package wishlist

import (
	"time"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db/models"
)

// ItemDTO is the transport shape for one saved variant.
type ItemDTO struct {
	CustomerID string    `json:"customer_id"`
	ProductID  string    `json:"product_id"`
	VariantID  string    `json:"variant_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// AddItemInput is the storefront save request.
type AddItemInput struct {
	CustomerID string `json:"customer_id" validate:"required"`
	ProductID  string `json:"product_id" validate:"required"`
	VariantID  string `json:"variant_id" validate:"required"`
}

func itemFromModel(m *models.WishlistItem) ItemDTO {
	return ItemDTO{
		CustomerID: m.CustomerID,
		ProductID:  m.ProductID,
		VariantID:  m.VariantID,
		CreatedAt:  m.CreatedAt,
	}
}
