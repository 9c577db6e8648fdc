package companies

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/credit"
	internalusers "github.com/BhavikPatel-dreamz/b2b-portal-backend/internal/users"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db/models"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/enums"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/shopify"
)

type shopifyStub struct {
	createCalls  int
	createErr    error
	companyGID   string
	assignedGIDs []string
	metafields   []shopify.Metafield
}

func (s *shopifyStub) CreateCompany(_ context.Context, _ shopify.CompanyCreateParams) (string, error) {
	s.createCalls++
	if s.createErr != nil {
		return "", s.createErr
	}
	if s.companyGID == "" {
		s.companyGID = "gid://shopify/Company/1001"
	}
	return s.companyGID, nil
}

func (s *shopifyStub) AssignCompanyContact(_ context.Context, companyGID, customerID string) error {
	s.assignedGIDs = append(s.assignedGIDs, companyGID+"|"+customerID)
	return nil
}

func (s *shopifyStub) SetMetafields(_ context.Context, metafields []shopify.Metafield) error {
	s.metafields = append(s.metafields, metafields...)
	return nil
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:companies_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.B2BOrder{},
		&models.CreditTransaction{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB, stub *shopifyStub) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(db),
		internalusers.NewRepository(db),
		credit.NewRepository(db),
		gormTxRunner{db: db},
		stub,
		nil,
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRegisterStartsPendingWithZeroCredit(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, &shopifyStub{})

	dto, err := svc.Register(context.Background(), RegisterInput{
		ShopID:       "acme.myshopify.com",
		Name:         "Acme Wholesale",
		ContactEmail: "owner@acme.test",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.Status != enums.CompanyStatusPending {
		t.Fatalf("status = %s, want pending", dto.Status)
	}
	if !dto.CreditLimit.IsZero() {
		t.Fatalf("credit limit = %s, want 0", dto.CreditLimit)
	}
}

func TestApproveProvisionsUpstreamOnce(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	stub := &shopifyStub{}
	svc := newTestService(t, db, stub)
	ctx := context.Background()

	dto, err := svc.Register(ctx, RegisterInput{
		ShopID: "acme.myshopify.com", Name: "Acme Wholesale", ContactEmail: "owner@acme.test",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	approved, err := svc.Approve(ctx, dto.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != enums.CompanyStatusApproved {
		t.Fatalf("status = %s, want approved", approved.Status)
	}
	if approved.ExternalCompanyID == nil || *approved.ExternalCompanyID != stub.companyGID {
		t.Fatalf("external id not recorded: %v", approved.ExternalCompanyID)
	}

	// Replaying the approval must not create a second upstream company.
	if _, err := svc.Approve(ctx, dto.ID); err != nil {
		t.Fatalf("replayed approve: %v", err)
	}
	if stub.createCalls != 1 {
		t.Fatalf("upstream created %d times, want 1", stub.createCalls)
	}
}

func TestApproveRejectedCompanyFails(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, &shopifyStub{})
	ctx := context.Background()

	dto, err := svc.Register(ctx, RegisterInput{
		ShopID: "acme.myshopify.com", Name: "Acme Wholesale", ContactEmail: "owner@acme.test",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Reject(ctx, dto.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	_, err = svc.Approve(ctx, dto.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetCreditLimitRecordsAdjustmentAndSyncsMetafield(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	stub := &shopifyStub{}
	svc := newTestService(t, db, stub)
	ctx := context.Background()

	dto, err := svc.Register(ctx, RegisterInput{
		ShopID: "acme.myshopify.com", Name: "Acme Wholesale", ContactEmail: "owner@acme.test",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Approve(ctx, dto.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	limit := decimal.RequireFromString("2500")
	updated, err := svc.SetCreditLimit(ctx, dto.ID, limit)
	if err != nil {
		t.Fatalf("set limit: %v", err)
	}
	if !updated.CreditLimit.Equal(limit) {
		t.Fatalf("limit = %s, want 2500", updated.CreditLimit)
	}

	var entry models.CreditTransaction
	err = db.Where("company_id = ? AND type = ?", dto.ID, enums.CreditTransactionTypeAdjustment).
		First(&entry).Error
	if err != nil {
		t.Fatalf("load adjustment entry: %v", err)
	}
	if !entry.Amount.IsZero() {
		t.Fatalf("adjustment amount = %s, want 0", entry.Amount)
	}
	if !entry.NewBalance.Equal(limit) {
		t.Fatalf("adjustment new balance = %s, want 2500", entry.NewBalance)
	}

	found := false
	for _, mf := range stub.metafields {
		if mf.Key == CreditLimitMetafieldKey && mf.Value == "2500.00" {
			found = true
		}
	}
	if !found {
		t.Fatalf("credit limit metafield not pushed: %+v", stub.metafields)
	}
}

func TestSetCreditLimitRejectsNegative(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, &shopifyStub{})

	_, err := svc.SetCreditLimit(context.Background(), uuid.New(), decimal.RequireFromString("-1"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAssignUserLinksMemberAndContact(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	stub := &shopifyStub{}
	svc := newTestService(t, db, stub)
	ctx := context.Background()

	dto, err := svc.Register(ctx, RegisterInput{
		ShopID: "acme.myshopify.com", Name: "Acme Wholesale", ContactEmail: "owner@acme.test",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Approve(ctx, dto.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	customerID := "7001"
	user := &models.User{
		ID:                uuid.New(),
		ShopID:            "acme.myshopify.com",
		Email:             "buyer@acme.test",
		ShopifyCustomerID: &customerID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	personal := decimal.RequireFromString("300")
	member, err := svc.AssignUser(ctx, dto.ID, AssignUserInput{
		UserID:      user.ID,
		CreditLimit: &personal,
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if member.CompanyID == nil || *member.CompanyID != dto.ID {
		t.Fatalf("company not linked: %v", member.CompanyID)
	}
	if member.CreditLimit == nil || !member.CreditLimit.Equal(personal) {
		t.Fatalf("personal limit not set: %v", member.CreditLimit)
	}
	if len(stub.assignedGIDs) != 1 {
		t.Fatalf("expected one contact assignment, got %v", stub.assignedGIDs)
	}
}

func TestAssignUserRejectsForeignShopAndDoubleAssignment(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, &shopifyStub{})
	ctx := context.Background()

	dto, err := svc.Register(ctx, RegisterInput{
		ShopID: "acme.myshopify.com", Name: "Acme Wholesale", ContactEmail: "owner@acme.test",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Approve(ctx, dto.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	foreign := &models.User{ID: uuid.New(), ShopID: "other.myshopify.com", Email: "x@other.test"}
	if err := db.Create(foreign).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	_, err = svc.AssignUser(ctx, dto.ID, AssignUserInput{UserID: foreign.ID})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	otherCompany := uuid.New()
	taken := &models.User{ID: uuid.New(), ShopID: "acme.myshopify.com", Email: "y@acme.test", CompanyID: &otherCompany}
	if err := db.Create(taken).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	_, err = svc.AssignUser(ctx, dto.ID, AssignUserInput{UserID: taken.ID})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
