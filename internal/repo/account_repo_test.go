package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

func TestCreateAccount_NormalizesAndRejectsDuplicate(t *testing.T) {
	db := newSchemaDB(t)
	ctx := context.Background()

	a, err := CreateAccount(ctx, db, "  Ada@Example.COM ", " Ada ", "h", domain.RoleClient, nil)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if a.Email != "ada@example.com" || a.FullName != "Ada" || !a.Active {
		t.Fatalf("unexpected account %+v", a)
	}
	if _, err := CreateAccount(ctx, db, "ADA@example.com", "x", "h", domain.RoleLawyer, nil); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("duplicate err = %v", err)
	}

	got, err := GetAccountByEmail(ctx, db, "ada@EXAMPLE.com")
	if err != nil || got.ID != a.ID {
		t.Fatalf("GetAccountByEmail = %+v, %v", got, err)
	}
	if _, err := GetAccount(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing err = %v", err)
	}
}

func TestSetAccountActive_SkipsAdmins(t *testing.T) {
	db := newSchemaDB(t)
	ctx := context.Background()
	c := mustAccount(t, db, "c@example.com", domain.RoleClient)
	adm := mustAccount(t, db, "admin@example.com", domain.RoleAdmin)

	if err := SetAccountActive(ctx, db, c.ID, false); err != nil {
		t.Fatalf("SetAccountActive: %v", err)
	}
	got, _ := GetAccount(ctx, db, c.ID)
	if got.Active {
		t.Fatalf("expected client to be blocked")
	}
	if err := SetAccountActive(ctx, db, adm.ID, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("admin block err = %v; want ErrNotFound", err)
	}
	n, err := CountAccounts(ctx, db)
	if err != nil || n != 1 {
		t.Fatalf("CountAccounts = %d, %v; want 1", n, err)
	}
}

func TestListAvailableLawyers_ExcludesPendingAndAccepted(t *testing.T) {
	db := newSchemaDB(t)
	ctx := context.Background()
	client := mustAccount(t, db, "client@example.com", domain.RoleClient)
	l1 := mustAccount(t, db, "l1@example.com", domain.RoleLawyer)
	l2 := mustAccount(t, db, "l2@example.com", domain.RoleLawyer)
	l3 := mustAccount(t, db, "l3@example.com", domain.RoleLawyer)
	l4 := mustAccount(t, db, "l4@example.com", domain.RoleLawyer)
	if err := SetAccountActive(ctx, db, l4.ID, false); err != nil {
		t.Fatalf("block l4: %v", err)
	}

	mustRepresentation(t, db, client, l1) // pending
	r2 := mustRepresentation(t, db, client, l2)
	if _, err := DecideRepresentation(ctx, db, r2.ID, domain.StatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}

	got, err := ListAvailableLawyers(ctx, db, client.ID)
	if err != nil {
		t.Fatalf("ListAvailableLawyers: %v", err)
	}
	ids := map[string]bool{}
	for _, a := range got {
		ids[a.ID] = true
	}
	if ids[l1.ID] || !ids[l2.ID] || !ids[l3.ID] || ids[l4.ID] || len(got) != 2 {
		t.Fatalf("unexpected lawyers: %+v", got)
	}
}
