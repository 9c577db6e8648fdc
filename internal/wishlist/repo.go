package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db/models"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
)

// Repository persists storefront wishlist entries.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem upserts one saved variant. Re-saving an already saved variant is a
// no-op rather than an error.
func (r *Repository) AddItem(ctx context.Context, item *models.WishlistItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shop_id"}, {Name: "customer_id"}, {Name: "variant_id"}},
			DoNothing: true,
		}).
		Create(item).Error
}

// RemoveItem drops the entry regardless of prior state.
func (r *Repository) RemoveItem(ctx context.Context, shopID, customerID, variantID string) error {
	return r.db.WithContext(ctx).
		Where("shop_id = ? AND customer_id = ? AND variant_id = ?", shopID, customerID, variantID).
		Delete(&models.WishlistItem{}).Error
}

// ListItems returns a customer's saved variants, newest first.
func (r *Repository) ListItems(ctx context.Context, shopID, customerID string) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND customer_id = ?", shopID, customerID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wishlist not found")
		}
		return nil, err
	}
	return items, nil
}
