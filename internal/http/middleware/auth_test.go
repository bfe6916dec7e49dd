package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

func authEngine() *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	g := r.Group("/", Authenticate(testAuth))
	g.GET("/me", func(c *gin.Context) {
		a, ok := CurrentAccount(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": a.ID, "user_id": UserID(c)})
	})
	g.GET("/lawyer-only", RequireRole(domain.RoleLawyer), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	g.GET("/staff", RequireRole(domain.RoleLawyer, domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func doAuth(r http.Handler, path, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	r := authEngine()
	cases := []struct {
		name, header string
		status       int
		code         string
	}{
		{"missing", "", http.StatusUnauthorized, "unauthorized"},
		{"wrong scheme", "Basic tok-client", http.StatusUnauthorized, "unauthorized"},
		{"empty token", "Bearer   ", http.StatusUnauthorized, "unauthorized"},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, "unauthorized"},
		{"disabled", "Bearer disabled", http.StatusForbidden, "account_disabled"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doAuth(r, "/me", tc.header)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
			body := decodeBody(t, w)
			if body["code"] != tc.code || body["request_id"] == "" {
				t.Fatalf("body = %v", body)
			}
		})
	}

	w := doAuth(r, "/me", "bearer tok-client")
	if w.Code != http.StatusOK {
		t.Fatalf("valid token status = %d", w.Code)
	}
	if body := decodeBody(t, w); body["id"] != "client-1" || body["user_id"] != "client-1" {
		t.Fatalf("body = %v", body)
	}
}

func TestRequireRole(t *testing.T) {
	r := authEngine()
	if w := doAuth(r, "/lawyer-only", "Bearer tok-client"); w.Code != http.StatusForbidden {
		t.Fatalf("client on lawyer route = %d", w.Code)
	}
	if w := doAuth(r, "/lawyer-only", "Bearer tok-lawyer"); w.Code != http.StatusNoContent {
		t.Fatalf("lawyer on lawyer route = %d", w.Code)
	}
	if w := doAuth(r, "/staff", "Bearer tok-admin"); w.Code != http.StatusNoContent {
		t.Fatalf("admin on staff route = %d", w.Code)
	}
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequireRole(domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	if w := doAuth(r, "/x", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":     "abc",
		"  bearer  xyz ": "xyz",
		"Token abc":      "",
		"Bearer":         "",
	}
	for in, want := range cases {
		got, ok := bearerToken(in)
		if got != want || ok != (want != "") {
			t.Fatalf("bearerToken(%q) = %q, %v", in, got, ok)
		}
	}
}
