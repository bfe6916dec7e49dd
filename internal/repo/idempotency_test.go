package repo

import (
	"context"
	"testing"
	"time"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

func TestGetIdempotency_NoScope_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	rec, err := GetIdempotency(context.Background(), db, "u1", "   ", "k1", time.Now().UTC())
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for empty scope, got (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	exp := &domain.Idempotency{
		ID: "expired", UserID: "u1", ScopeID: "s1", Key: "k1", ResourceID: "r1", Status: 200,
		CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}
	if rec, err := GetIdempotency(context.Background(), db, "u1", "s1", "k1", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for expired, got (%v, %v)", rec, err)
	}
	if rec, err := GetIdempotency(context.Background(), db, "u1", "s1", "missing", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for missing, got (%v, %v)", rec, err)
	}

	// An expired record does not block a fresh one for the same tuple.
	rec, err := CreateIdempotency(context.Background(), db, "u1", "s1", "k1", "r2", 201, time.Hour)
	if err != nil || rec.ResourceID != "r2" {
		t.Fatalf("CreateIdempotency over expired = %+v, %v", rec, err)
	}
}

func TestCreateIdempotency_SuccessAndDuplicate(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ttl := 90 * time.Minute
	start := time.Now().UTC()

	rec, err := CreateIdempotency(context.Background(), db, "u9", "s9", "k9", "r9", 202, ttl)
	if err != nil {
		t.Fatalf("CreateIdempotency error: %v", err)
	}
	if rec.UserID != "u9" || rec.ScopeID != "s9" || rec.Key != "k9" || rec.ResourceID != "r9" || rec.Status != 202 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !(rec.ExpiresAt.After(start) && rec.ExpiresAt.Before(start.Add(2*time.Hour))) {
		t.Fatalf("unexpected ExpiresAt: %v", rec.ExpiresAt)
	}

	if _, err := CreateIdempotency(context.Background(), db, "u9", "s9", "k9", "rX", 200, ttl); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := GetIdempotency(context.Background(), db, "u9", "s9", "k9", time.Now().UTC())
	if err != nil || got.ResourceID != "r9" {
		t.Fatalf("GetIdempotency = %+v, %v", got, err)
	}
}

func TestCreateIdempotency_Error_NoTable(t *testing.T) {
	db := newTestDB(t) // intentionally NOT migrating idempotency
	_, err := CreateIdempotency(context.Background(), db, "uX", "sX", "kX", "rX", 200, time.Minute)
	if err == nil || err == ErrDuplicate {
		t.Fatalf("expected non-duplicate error, got %v", err)
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()
	for i, exp := range []time.Time{now.Add(-time.Minute), now.Add(time.Hour)} {
		rec := &domain.Idempotency{ID: string(rune('a' + i)), UserID: "u", ScopeID: "s", Key: string(rune('a' + i)), ResourceID: "r", Status: 200, CreatedAt: now, ExpiresAt: exp}
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	n, err := PurgeExpiredIdempotency(context.Background(), db, now)
	if err != nil || n != 1 {
		t.Fatalf("PurgeExpiredIdempotency = %d, %v", n, err)
	}
}

func TestRebindIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	if _, err := CreateIdempotency(ctx, db, "u1", "s1", "k1", "old", 200, time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := RebindIdempotency(ctx, db, "u1", "s1", "k1", "new"); err != nil {
		t.Fatalf("RebindIdempotency: %v", err)
	}
	rec, err := GetIdempotency(ctx, db, "u1", "s1", "k1", time.Now().UTC())
	if err != nil || rec.ResourceID != "new" {
		t.Fatalf("after rebind = %+v, %v", rec, err)
	}
	if err := RebindIdempotency(ctx, db, "u1", "s1", "missing", "x"); err != ErrNotFound {
		t.Fatalf("missing key: %v", err)
	}
}
