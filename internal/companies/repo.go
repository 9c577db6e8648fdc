package companies

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db/models"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/enums"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
)

// Repository exposes company persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a companies repo bound to the provided GORM DB.
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

// Create inserts a new company.
func (r *Repository) Create(ctx context.Context, company *models.Company) error {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(company).Error
}

// FindByID loads a company by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, err
	}
	return &company, nil
}

// FindByExternalID resolves a company from its Shopify company id.
func (r *Repository) FindByExternalID(ctx context.Context, shopID, externalID string) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND external_company_id = ?", shopID, externalID).
		First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, err
	}
	return &company, nil
}

// Save persists the full company row.
func (r *Repository) Save(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

// List returns a shop's companies, optionally filtered by status.
func (r *Repository) List(ctx context.Context, shopID string, status *enums.CompanyStatus) ([]models.Company, error) {
	query := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at ASC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var list []models.Company
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
