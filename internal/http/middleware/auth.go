package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/services"
)

const (
	ctxKeyAccount = "account"
	ctxKeyUserID  = "userID"
)

// Authenticator resolves a bearer token to an active account.
// services.AccountService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Account, error)
}

// Authenticate requires a valid "Authorization: Bearer <token>" header.
// The account is re-loaded on every request, so blocking an account takes
// effect on its next call rather than when the token expires.
func Authenticate(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		acct, err := a.Authenticate(c.Request.Context(), token)
		switch {
		case errors.Is(err, services.ErrAccountDisabled):
			abortJSON(c, http.StatusForbidden, "account_disabled", "account is disabled")
			return
		case err != nil:
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}
		c.Set(ctxKeyAccount, acct)
		c.Set(ctxKeyUserID, acct.ID)
		c.Next()
	}
}

// RequireRole admits only accounts whose role is one of roles.
// It must run after Authenticate.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		acct, ok := CurrentAccount(c)
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		for _, r := range roles {
			if acct.Role == r {
				c.Next()
				return
			}
		}
		abortJSON(c, http.StatusForbidden, "forbidden", "this portal is not available to your role")
	}
}

// CurrentAccount returns the account stored by Authenticate.
func CurrentAccount(c *gin.Context) (*domain.Account, bool) {
	v, ok := c.Get(ctxKeyAccount)
	if !ok {
		return nil, false
	}
	a, ok := v.(*domain.Account)
	return a, ok && a != nil
}

// UserID returns the authenticated account id, or "".
func UserID(c *gin.Context) string {
	return c.GetString(ctxKeyUserID)
}

func bearerToken(h string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

// abortJSON writes the same envelope the handlers use.
func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": c.GetString(requestIDKey),
		"code":       code,
		"message":    msg,
	})
}
