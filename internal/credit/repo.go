package credit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db/models"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/enums"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/pagination"
)

// Repository is the ledger store: company/user balance reads, the outstanding
// order aggregate, and the append-only transaction log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error

	// LockCompany serializes credit mutations for one company by taking a row
	// lock inside the current transaction.
	LockCompany(ctx context.Context, id uuid.UUID) error

	// OutstandingCredit sums credit_used over the company's orders that still
	// count against the limit (payment status pending or partial).
	OutstandingCredit(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error)
	// PendingCredit sums credit_used over orders that have seen no payment yet.
	PendingCredit(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error)

	AppendTransaction(ctx context.Context, entry *models.CreditTransaction) error
	HasTransaction(ctx context.Context, orderID uuid.UUID, reason string) (bool, error)
	// NetReserved returns the signed sum of ledger deltas for one order; a
	// negative value means credit is still held.
	NetReserved(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]models.CreditTransaction, *pagination.Page, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a ledger repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, err
	}
	return &company, nil
}

func (r *repository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) SaveUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *repository) LockCompany(ctx context.Context, id uuid.UUID) error {
	// A plain touch acquires the row lock on Postgres and the write lock on
	// SQLite without FOR UPDATE syntax, which SQLite does not support.
	result := r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", id).
		Update("updated_at", time.Now().UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
	}
	return nil
}

func (r *repository) OutstandingCredit(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	return r.sumCreditUsed(ctx, companyID, []enums.PaymentStatus{
		enums.PaymentStatusPending,
		enums.PaymentStatusPartial,
	})
}

func (r *repository) PendingCredit(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	return r.sumCreditUsed(ctx, companyID, []enums.PaymentStatus{enums.PaymentStatusPending})
}

func (r *repository) sumCreditUsed(ctx context.Context, companyID uuid.UUID, statuses []enums.PaymentStatus) (decimal.Decimal, error) {
	var raw *string
	err := r.db.WithContext(ctx).
		Model(&models.B2BOrder{}).
		Select("SUM(credit_used)").
		Where("company_id = ? AND payment_status IN ?", companyID, statuses).
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}

func (r *repository) AppendTransaction(ctx context.Context, entry *models.CreditTransaction) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) HasTransaction(ctx context.Context, orderID uuid.UUID, reason string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CreditTransaction{}).
		Where("order_id = ? AND reason = ?", orderID, reason).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) NetReserved(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var raw *string
	err := r.db.WithContext(ctx).
		Model(&models.CreditTransaction{}).
		Select("SUM(amount)").
		Where("order_id = ?", orderID).
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}

func (r *repository) ListByCompany(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]models.CreditTransaction, *pagination.Page, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var entries []models.CreditTransaction
	if err := query.Find(&entries).Error; err != nil {
		return nil, nil, err
	}

	page := &pagination.Page{Limit: limit}
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &next
	}
	return entries, page, nil
}
