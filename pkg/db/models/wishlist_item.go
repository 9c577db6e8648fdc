package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem stores a storefront customer's saved product variant.
type WishlistItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ShopID     string    `gorm:"column:shop_id;not null;uniqueIndex:idx_wishlist_shop_customer_variant"`
	CustomerID string    `gorm:"column:customer_id;not null;uniqueIndex:idx_wishlist_shop_customer_variant"`
	ProductID  string    `gorm:"column:product_id;not null"`
	VariantID  string    `gorm:"column:variant_id;not null;uniqueIndex:idx_wishlist_shop_customer_variant"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
