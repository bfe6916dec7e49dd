// Package services – AccountService
//
// This file implements registration, the three login portals and token
// authentication. Roles are resolved at registration and never change; each
// portal accepts exactly one role, and every mismatch is reported as
// ErrInvalidCredentials so callers cannot learn which accounts exist.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/auth"
	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 8

// Registration is the input of RegisterClient and RegisterLawyer. BarID is
// required for lawyers and ignored for clients.
type Registration struct {
	Email    string
	FullName string
	Password string
	BarID    string
}

// Session is what a successful login returns.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   *domain.Account `json:"account"`
}

// AccountService owns accounts and tokens.
type AccountService struct {
	DB     *gorm.DB
	Tokens *auth.Issuer
}

func (r Registration) validate(lawyer bool) error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat, validation.Length(3, 255)),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLen, 72)),
		validation.Field(&r.BarID, validation.When(lawyer, validation.Required, validation.Length(1, 100))),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// RegisterClient creates an active client account.
func (s *AccountService) RegisterClient(ctx context.Context, r Registration) (*domain.Account, error) {
	return s.register(ctx, r, domain.RoleClient)
}

// RegisterLawyer creates an active lawyer account carrying its bar id.
func (s *AccountService) RegisterLawyer(ctx context.Context, r Registration) (*domain.Account, error) {
	return s.register(ctx, r, domain.RoleLawyer)
}

func (s *AccountService) register(ctx context.Context, r Registration, role domain.Role) (*domain.Account, error) {
	ctx, span := otel.Tracer("services/AccountService").Start(ctx, "Register",
		trace.WithAttributes(attribute.String("account.role", string(role))),
	)
	defer span.End()

	r.Email = repo.NormalizeEmail(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	r.BarID = strings.TrimSpace(r.BarID)
	if err := r.validate(role == domain.RoleLawyer); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(r.Password)
	if err != nil {
		return nil, err
	}
	var barID *string
	if role == domain.RoleLawyer {
		barID = &r.BarID
	}
	acct, err := repo.CreateAccount(ctx, s.DB, r.Email, r.FullName, hash, role, barID)
	if errors.Is(err, repo.ErrDuplicateEmail) {
		return nil, ErrEmailTaken
	}
	return acct, err
}

// Login authenticates against a portal. The portal is the role the account
// must have. A blocked account is only reported after the password matched.
func (s *AccountService) Login(ctx context.Context, portal domain.Role, email, password string) (*Session, error) {
	ctx, span := otel.Tracer("services/AccountService").Start(ctx, "Login",
		trace.WithAttributes(attribute.String("portal", string(portal))),
	)
	defer span.End()

	acct, err := repo.GetAccountByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if auth.CheckPassword(acct.PasswordHash, password) != nil {
		return nil, ErrInvalidCredentials
	}
	if acct.Role != portal {
		return nil, ErrInvalidCredentials
	}
	if !acct.Active {
		return nil, ErrAccountDisabled
	}

	token, exp, err := s.Tokens.Issue(acct.ID, acct.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, Account: acct}, nil
}

// Authenticate resolves a bearer token to its account. The account is
// re-read on every call so blocking takes effect immediately.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	acct, err := repo.GetAccount(ctx, s.DB, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if acct.Role != claims.Role {
		return nil, ErrInvalidCredentials
	}
	if !acct.Active {
		return nil, ErrAccountDisabled
	}
	return acct, nil
}

// EnsureAdmin creates the bootstrap administrator when no account with that
// email exists. An existing account is left untouched.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password string) (*domain.Account, error) {
	email = repo.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: admin email and password are required", ErrValidation)
	}
	acct, err := repo.GetAccountByEmail(ctx, s.DB, email)
	if err == nil {
		if !acct.IsAdmin() {
			return nil, fmt.Errorf("bootstrap admin %s: %w", email, ErrEmailTaken)
		}
		return acct, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	acct, err = repo.CreateAccount(ctx, s.DB, email, "Administrator", hash, domain.RoleAdmin, nil)
	if errors.Is(err, repo.ErrDuplicateEmail) {
		return repo.GetAccountByEmail(ctx, s.DB, email)
	}
	if err == nil {
		log.Info().Str("email", email).Msg("bootstrap admin created")
	}
	return acct, err
}
