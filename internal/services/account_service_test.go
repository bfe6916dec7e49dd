package services

import (
	"context"
	"errors"
	"testing"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
)

func newAccountService(t *testing.T) *AccountService {
	t.Helper()
	return &AccountService{DB: newServiceDB(t), Tokens: newIssuer(t)}
}

func TestRegister_ValidationAndDuplicates(t *testing.T) {
	s := newAccountService(t)
	ctx := context.Background()

	bad := []Registration{
		{Email: "not-an-email", FullName: "A", Password: "longenough"},
		{Email: "a@example.com", FullName: "", Password: "longenough"},
		{Email: "a@example.com", FullName: "A", Password: "short"},
	}
	for i, r := range bad {
		if _, err := s.RegisterClient(ctx, r); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: want ErrValidation, got %v", i, err)
		}
	}

	// Lawyers need a bar id; clients do not.
	if _, err := s.RegisterLawyer(ctx, Registration{Email: "l@example.com", FullName: "L", Password: "longenough"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("lawyer without bar id: %v", err)
	}
	l, err := s.RegisterLawyer(ctx, Registration{Email: "L@Example.com ", FullName: "L", Password: "longenough", BarID: "KBA-1"})
	if err != nil {
		t.Fatalf("RegisterLawyer: %v", err)
	}
	if l.Role != domain.RoleLawyer || l.BarID == nil || *l.BarID != "KBA-1" || l.Email != "l@example.com" {
		t.Fatalf("lawyer = %+v", l)
	}
	c, err := s.RegisterClient(ctx, Registration{Email: "c@example.com", FullName: "C", Password: "longenough", BarID: "ignored"})
	if err != nil || c.BarID != nil || c.Role != domain.RoleClient {
		t.Fatalf("client = %+v, %v", c, err)
	}

	if _, err := s.RegisterClient(ctx, Registration{Email: "l@example.com", FullName: "X", Password: "longenough"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: %v", err)
	}
}

func TestLogin_PortalsNeverRevealRole(t *testing.T) {
	s := newAccountService(t)
	ctx := context.Background()
	if _, err := s.RegisterClient(ctx, Registration{Email: "c@example.com", FullName: "C", Password: "password1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RegisterLawyer(ctx, Registration{Email: "l@example.com", FullName: "L", Password: "password1", BarID: "B1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.EnsureAdmin(ctx, "admin@example.com", "adminpass"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		portal   domain.Role
		email    string
		password string
		wantErr  error
	}{
		{domain.RoleClient, "c@example.com", "password1", nil},
		{domain.RoleLawyer, "l@example.com", "password1", nil},
		{domain.RoleAdmin, "admin@example.com", "adminpass", nil},
		{domain.RoleClient, "l@example.com", "password1", ErrInvalidCredentials},
		{domain.RoleLawyer, "c@example.com", "password1", ErrInvalidCredentials},
		{domain.RoleAdmin, "l@example.com", "password1", ErrInvalidCredentials},
		{domain.RoleClient, "c@example.com", "wrong-pass", ErrInvalidCredentials},
		{domain.RoleClient, "nobody@example.com", "password1", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		sess, err := s.Login(ctx, tt.portal, tt.email, tt.password)
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("Login(%s,%s) err = %v, want %v", tt.portal, tt.email, err, tt.wantErr)
		}
		if tt.wantErr == nil {
			if sess.Token == "" || sess.Account.Email != tt.email {
				t.Fatalf("session = %+v", sess)
			}
			got, err := s.Authenticate(ctx, sess.Token)
			if err != nil || got.ID != sess.Account.ID {
				t.Fatalf("Authenticate = %+v, %v", got, err)
			}
		}
	}
}

func TestLogin_DisabledOnlyAfterPasswordMatch(t *testing.T) {
	s := newAccountService(t)
	ctx := context.Background()
	c, err := s.RegisterClient(ctx, Registration{Email: "c@example.com", FullName: "C", Password: "password1"})
	if err != nil {
		t.Fatal(err)
	}
	sess, err := s.Login(ctx, domain.RoleClient, "c@example.com", "password1")
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.SetAccountActive(ctx, s.DB, c.ID, false); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Login(ctx, domain.RoleClient, "c@example.com", "bad-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password on blocked account: %v", err)
	}
	if _, err := s.Login(ctx, domain.RoleClient, "c@example.com", "password1"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("blocked login: %v", err)
	}
	// An already issued token stops working immediately.
	if _, err := s.Authenticate(ctx, sess.Token); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("Authenticate blocked: %v", err)
	}
	if _, err := s.Authenticate(ctx, "garbage"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Authenticate garbage: %v", err)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	s := newAccountService(t)
	ctx := context.Background()
	a1, err := s.EnsureAdmin(ctx, "admin@example.com", "adminpass")
	if err != nil || !a1.IsAdmin() {
		t.Fatalf("EnsureAdmin = %+v, %v", a1, err)
	}
	a2, err := s.EnsureAdmin(ctx, "ADMIN@example.com", "other")
	if err != nil || a2.ID != a1.ID {
		t.Fatalf("second EnsureAdmin = %+v, %v", a2, err)
	}
	if _, err := s.RegisterClient(ctx, Registration{Email: "c@example.com", FullName: "C", Password: "password1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.EnsureAdmin(ctx, "c@example.com", "x"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("EnsureAdmin over client: %v", err)
	}
	if _, err := s.EnsureAdmin(ctx, "", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("EnsureAdmin blank: %v", err)
	}
}
