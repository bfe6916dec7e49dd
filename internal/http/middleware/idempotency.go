// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for unsafe requests such as court
// arguments and assistant prompts. It validates the Idempotency-Key header,
// derives the scope the key is bound to, and asks a lookup whether a result
// for (user, scope, key) was already stored. Handlers then:
//   - read the key and scope (GetIdempotencyKey, IdempotencyScope)
//   - serve the stored result when IsReplay is true
//
// A replay also bypasses rate limiting, so a client retrying after a timeout
// is not penalised for the retry.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the client's key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed marks responses served from a stored result.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemScope  = "idem.scope"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated key stashed by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IdempotencyScope returns the scope the current key is bound to.
// It is empty when no key was supplied.
func IdempotencyScope(c *gin.Context) string {
	return c.GetString(ctxKeyIdemScope)
}

// IsReplay reports whether a stored result exists for this request's key.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// ScopeFunc derives the idempotency scope for a request.
type ScopeFunc func(*gin.Context) string

// ScopeByRouteAndID binds keys to the matched route and its :id parameter,
// so the same key sent to /representations/X/court/arguments and
// /assistant/chats/X/messages never collides.
func ScopeByRouteAndID(c *gin.Context) string {
	id := c.Param("id")
	if id == "" {
		return ""
	}
	route := c.FullPath()
	if i := strings.LastIndexByte(route, '/'); i >= 0 {
		route = route[i+1:]
	}
	return route + ":" + id
}

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters; nil means ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
	// Scope derives the scope; nil means ScopeByRouteAndID.
	Scope ScopeFunc
}

// IdempotencyLookup reports whether an unexpired result exists for
// (userID, scopeID, key). Errors are treated as a miss.
type IdempotencyLookup func(ctx context.Context, userID, scopeID, key string, now time.Time) (bool, error)

// IdempotencyValidator validates the Idempotency-Key header when present and
// marks replays. It must run after Authenticate so the lookup sees the
// caller's identity. Requests without the header pass through untouched.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}
	scopeFn := opts.Scope
	if scopeFn == nil {
		scopeFn = ScopeByRouteAndID
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			abortJSON(c, http.StatusBadRequest, "bad_idempotency_key", "invalid Idempotency-Key")
			return
		}

		scope := scopeFn(c)
		c.Set(ctxKeyIdemKey, key)
		c.Set(ctxKeyIdemScope, scope)

		if lookup != nil && scope != "" {
			if uid := UserID(c); uid != "" {
				if exists, _ := lookup(c.Request.Context(), uid, scope, key, time.Now().UTC()); exists {
					c.Set(ctxKeyIdemReplay, true)
					c.Set(ctxKeyRateBypass, true)
				}
			}
		}

		c.Next()
	}
}
