package credit

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db/models"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/enums"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
)

func TestAvailableCreditCountsOnlyOutstandingOrders(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	calc, err := NewCalculator(NewRepository(db))
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	company := seedCompany(t, db, "1000")
	user := seedUser(t, db, company.ID, "", "0")

	seedOrder(t, db, company.ID, user.ID, "200", "200", enums.PaymentStatusPending)
	seedOrder(t, db, company.ID, user.ID, "150", "150", enums.PaymentStatusPartial)
	// Settled and cancelled orders no longer hold credit.
	seedOrder(t, db, company.ID, user.ID, "500", "500", enums.PaymentStatusPaid)
	seedOrder(t, db, company.ID, user.ID, "90", "90", enums.PaymentStatusCancelled)

	snapshot, err := calc.AvailableCredit(context.Background(), company.ID)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if !snapshot.UsedCredit.Equal(mustDecimal(t, "350")) {
		t.Fatalf("used = %s, want 350", snapshot.UsedCredit)
	}
	if !snapshot.AvailableCredit.Equal(mustDecimal(t, "650")) {
		t.Fatalf("available = %s, want 650", snapshot.AvailableCredit)
	}
}

func TestUserAvailableCreditPersonalLimitIsCappedByCompany(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	calc, err := NewCalculator(NewRepository(db))
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	company := seedCompany(t, db, "100")
	// Personal headroom (400) exceeds what the company can still extend (40).
	user := seedUser(t, db, company.ID, "500", "100")
	seedOrder(t, db, company.ID, user.ID, "60", "60", enums.PaymentStatusPending)

	userCredit, companyCredit, err := calc.UserAvailableCredit(context.Background(), company.ID, user.ID)
	if err != nil {
		t.Fatalf("user available: %v", err)
	}
	if !companyCredit.AvailableCredit.Equal(mustDecimal(t, "40")) {
		t.Fatalf("company available = %s, want 40", companyCredit.AvailableCredit)
	}
	if !userCredit.AvailableCredit.Equal(mustDecimal(t, "40")) {
		t.Fatalf("user available = %s, want 40", userCredit.AvailableCredit)
	}
}

func TestUserAvailableCreditRejectsForeignUser(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	calc, err := NewCalculator(NewRepository(db))
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	company := seedCompany(t, db, "100")
	other := seedCompany(t, db, "100")
	user := seedUser(t, db, other.ID, "", "0")

	_, _, err = calc.UserAvailableCredit(context.Background(), company.ID, user.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserAvailableCreditUnassignedUser(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	calc, err := NewCalculator(NewRepository(db))
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	company := seedCompany(t, db, "100")
	user := &models.User{
		ID:     uuid.New(),
		ShopID: "acme.myshopify.com",
		Email:  "pending@acme.test",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_, _, err = calc.UserAvailableCredit(context.Background(), company.ID, user.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
