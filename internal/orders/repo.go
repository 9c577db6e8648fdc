package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db/models"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/pagination"
)

// Repository exposes order persistence. Webhook-driven lookups key on
// (shop_id, shopify_order_id); API lookups key on the local UUID.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the caller's transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new order row.
func (r *Repository) Create(ctx context.Context, order *models.B2BOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(order).Error
}

// Save persists the full order row.
func (r *Repository) Save(ctx context.Context, order *models.B2BOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// Delete removes an order row. Only speculative rows that never synced
// upstream are deleted; synced orders are cancelled instead.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.B2BOrder{}, "id = ?", id).Error
}

// FindByID loads an order by its local UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.B2BOrder, error) {
	var order models.B2BOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	return &order, nil
}

// FindByExternalID resolves an order from its Shopify identity.
func (r *Repository) FindByExternalID(ctx context.Context, shopID, externalID string) (*models.B2BOrder, error) {
	var order models.B2BOrder
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND shopify_order_id = ?", shopID, externalID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	return &order, nil
}

// AddPayment appends a settlement record to an order.
func (r *Repository) AddPayment(ctx context.Context, payment *models.OrderPayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(payment).Error
}

// ListByCompany pages through a company's orders, newest first.
func (r *Repository) ListByCompany(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]models.B2BOrder, *pagination.Page, error) {
	return r.list(ctx, "company_id = ?", companyID, params)
}

// ListByUser pages through one member's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.B2BOrder, *pagination.Page, error) {
	return r.list(ctx, "created_by_user_id = ?", userID, params)
}

func (r *Repository) list(ctx context.Context, cond string, id uuid.UUID, params pagination.Params) ([]models.B2BOrder, *pagination.Page, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := r.db.WithContext(ctx).
		Where(cond, id).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var list []models.B2BOrder
	if err := query.Find(&list).Error; err != nil {
		return nil, nil, err
	}

	page := &pagination.Page{Limit: limit}
	if len(list) > limit {
		list = list[:limit]
		last := list[len(list)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &next
	}
	return list, page, nil
}
