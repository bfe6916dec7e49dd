package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/http/middleware"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
)

// DefaultIdempotencyTTL is how long a stored result is replayed.
const DefaultIdempotencyTTL = 24 * time.Hour

// RepoIdempotency stores idempotency records in the database.
type RepoIdempotency struct {
	DB  *gorm.DB
	TTL time.Duration
}

// NewIdempotencyStore returns a store keeping records for ttl
// (DefaultIdempotencyTTL when ttl <= 0).
func NewIdempotencyStore(db *gorm.DB, ttl time.Duration) *RepoIdempotency {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &RepoIdempotency{DB: db, TTL: ttl}
}

// Lookup returns the resource stored for (userID, scope, key).
func (s *RepoIdempotency) Lookup(ctx context.Context, userID, scope, key string) (string, bool) {
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, time.Now().UTC())
	if err != nil || rec == nil {
		return "", false
	}
	return rec.ResourceID, true
}

// Remember records resourceID for (userID, scope, key). It is best effort: a
// concurrent duplicate is ignored and other failures are only logged.
func (s *RepoIdempotency) Remember(ctx context.Context, userID, scope, key, resourceID string, status int) {
	_, err := repo.CreateIdempotency(ctx, s.DB, userID, scope, key, resourceID, status, s.TTL)
	if err != nil && !errors.Is(err, repo.ErrDuplicate) {
		log.Warn().Err(err).Str("scope", scope).Msg("store idempotency record")
	}
}

// Exists adapts the store to middleware.IdempotencyLookup.
func (s *RepoIdempotency) Exists(ctx context.Context, userID, scopeID, key string, now time.Time) (bool, error) {
	_, err := repo.GetIdempotency(ctx, s.DB, userID, scopeID, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// idemRequest returns the validated Idempotency-Key and its scope. enabled
// is false when no store is configured or the request carries no key.
func (h *Handlers) idemRequest(c *gin.Context) (key, scope string, enabled bool) {
	if h.idem == nil {
		return "", "", false
	}
	key, found := middleware.GetIdempotencyKey(c)
	scope = middleware.IdempotencyScope(c)
	if !found || scope == "" {
		return "", "", false
	}
	return key, scope, true
}

// markReplayed flags a response served from a stored result.
func markReplayed(c *gin.Context) {
	c.Header(middleware.HeaderIdempotencyReplayed, "true")
}
