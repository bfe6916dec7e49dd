package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/services"
)

func init() { gin.SetMode(gin.TestMode) }

func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

// logLines decodes every JSON line written to buf.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, ln := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if ln == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(ln), &m); err != nil {
			t.Fatalf("bad log line %q: %v", ln, err)
		}
		out = append(out, m)
	}
	return out
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return m
}

// fakeAuth maps tokens to accounts; "disabled" yields ErrAccountDisabled.
type fakeAuth map[string]*domain.Account

func (f fakeAuth) Authenticate(_ context.Context, token string) (*domain.Account, error) {
	if token == "disabled" {
		return nil, services.ErrAccountDisabled
	}
	if a, ok := f[token]; ok {
		return a, nil
	}
	return nil, services.ErrInvalidCredentials
}

var (
	clientAcct = &domain.Account{ID: "client-1", Email: "c@example.com", Role: domain.RoleClient, Active: true}
	lawyerAcct = &domain.Account{ID: "lawyer-1", Email: "l@example.com", Role: domain.RoleLawyer, Active: true}
	adminAcct  = &domain.Account{ID: "admin-1", Email: "a@example.com", Role: domain.RoleAdmin, Active: true}
	testAuth   = fakeAuth{"tok-client": clientAcct, "tok-lawyer": lawyerAcct, "tok-admin": adminAcct}
)
