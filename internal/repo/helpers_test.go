package repo

import (
	"context"
	"fmt"
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

// newSchemaDB returns a database with the full schema.
func newSchemaDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func mustAccount(t *testing.T, db *gorm.DB, email string, role domain.Role) *domain.Account {
	t.Helper()
	var bar *string
	if role == domain.RoleLawyer {
		b := "BAR-" + email
		bar = &b
	}
	a, err := CreateAccount(context.Background(), db, email, strings.Split(email, "@")[0], "hash", role, bar)
	if err != nil {
		t.Fatalf("CreateAccount(%s): %v", email, err)
	}
	return a
}

func mustRepresentation(t *testing.T, db *gorm.DB, client, lawyer *domain.Account) *domain.Representation {
	t.Helper()
	r, err := CreateRepresentation(context.Background(), db, client.ID, lawyer.ID, "Theft Dispute", "desc", domain.Attachment{})
	if err != nil {
		t.Fatalf("CreateRepresentation: %v", err)
	}
	return r
}
