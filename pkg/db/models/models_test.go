package models

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Every model must migrate on sqlite as well as postgres; column tags may not
// carry postgres-only expressions.
func TestModelsMigrateOnSqlite(t *testing.T) {
	dsn := "file:models_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&Company{},
		&User{},
		&B2BOrder{},
		&CreditTransaction{},
		&OrderPayment{},
		&WishlistItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
}
