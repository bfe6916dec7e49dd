package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

func TestDecideRepresentation_SingleTransition(t *testing.T) {
	db := newSchemaDB(t)
	ctx := context.Background()
	client := mustAccount(t, db, "c@example.com", domain.RoleClient)
	lawyer := mustAccount(t, db, "l@example.com", domain.RoleLawyer)
	r := mustRepresentation(t, db, client, lawyer)

	if r.Status != domain.StatusPending {
		t.Fatalf("new representation status = %q", r.Status)
	}
	at, err := DecideRepresentation(ctx, db, r.ID, domain.StatusAccepted)
	if err != nil || at.IsZero() {
		t.Fatalf("DecideRepresentation = %v, %v", at, err)
	}
	if _, err := DecideRepresentation(ctx, db, r.ID, domain.StatusRejected); !errors.Is(err, ErrStaleStatus) {
		t.Fatalf("second decision err = %v; want ErrStaleStatus", err)
	}

	got, err := GetRepresentation(ctx, db, r.ID)
	if err != nil {
		t.Fatalf("GetRepresentation: %v", err)
	}
	if got.Status != domain.StatusAccepted || got.DecidedAt == nil {
		t.Fatalf("unexpected representation %+v", got)
	}
	if got.Client == nil || got.Lawyer == nil || got.Lawyer.ID != lawyer.ID {
		t.Fatalf("parties not preloaded: %+v", got)
	}
}

func TestListRepresentations(t *testing.T) {
	db := newSchemaDB(t)
	ctx := context.Background()
	client := mustAccount(t, db, "c@example.com", domain.RoleClient)
	other := mustAccount(t, db, "o@example.com", domain.RoleClient)
	lawyer := mustAccount(t, db, "l@example.com", domain.RoleLawyer)

	r1 := mustRepresentation(t, db, client, lawyer)
	mustRepresentation(t, db, other, lawyer)
	if _, err := DecideRepresentation(ctx, db, r1.ID, domain.StatusAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}

	mine, err := ListRepresentationsForClient(ctx, db, client.ID)
	if err != nil || len(mine) != 1 || mine[0].Lawyer == nil {
		t.Fatalf("client list = %+v, %v", mine, err)
	}
	all, _ := ListRepresentationsForLawyer(ctx, db, lawyer.ID, nil)
	if len(all) != 2 {
		t.Fatalf("lawyer list = %d; want 2", len(all))
	}
	pending := domain.StatusPending
	onlyPending, _ := ListRepresentationsForLawyer(ctx, db, lawyer.ID, &pending)
	if len(onlyPending) != 1 || onlyPending[0].ClientID != other.ID || onlyPending[0].Client == nil {
		t.Fatalf("pending list = %+v", onlyPending)
	}
}
