// Package services – RepresentationService
//
// This file implements the hiring workflow between a client and a lawyer.
// A representation starts Pending and is decided exactly once by the named
// lawyer (Pending→Accepted or Pending→Rejected). A rejected client may send a
// new request, which creates a new representation.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
	"github.com/vishnudev3154/Judex-AI/internal/storage"
)

// RepresentationService owns representations.
type RepresentationService struct {
	DB    *gorm.DB
	Store storage.Store
}

// RepresentationInput is the body of a hiring request.
type RepresentationInput struct {
	LawyerID    string
	Title       string
	Description string
}

func (in RepresentationInput) validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.LawyerID, validation.Required),
		validation.Field(&in.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&in.Description, validation.RuneLength(0, 20000)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// Request creates a Pending representation from an active client to an
// active lawyer.
func (s *RepresentationService) Request(ctx context.Context, actor *domain.Account, in RepresentationInput, doc *Upload) (*domain.Representation, error) {
	ctx, span := otel.Tracer("services/RepresentationService").Start(ctx, "Request",
		trace.WithAttributes(attribute.String("lawyer.id", in.LawyerID)),
	)
	defer span.End()

	if !actor.IsClient() || !actor.Active {
		return nil, ErrUnauthorized
	}
	in.LawyerID = strings.TrimSpace(in.LawyerID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := in.validate(); err != nil {
		return nil, err
	}

	lawyer, err := repo.GetAccount(ctx, s.DB, in.LawyerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrLawyerNotFound
		}
		return nil, err
	}
	if !lawyer.IsLawyer() || !lawyer.Active {
		return nil, ErrLawyerNotFound
	}

	att, err := storeUpload(ctx, s.Store, storage.CategoryCase, doc)
	if err != nil {
		return nil, err
	}
	rep, err := repo.CreateRepresentation(ctx, s.DB, actor.ID, lawyer.ID, in.Title, in.Description, att)
	if err != nil {
		return nil, err
	}
	rep.Client = actor
	rep.Lawyer = lawyer
	return rep, nil
}

// Decide accepts or rejects a Pending representation. Only the named lawyer
// may decide, and only once.
func (s *RepresentationService) Decide(ctx context.Context, actor *domain.Account, id string, status domain.RepresentationStatus) (*domain.Representation, error) {
	ctx, span := otel.Tracer("services/RepresentationService").Start(ctx, "Decide",
		trace.WithAttributes(
			attribute.String("representation.id", id),
			attribute.String("status", string(status)),
		),
	)
	defer span.End()

	rep, err := loadRepresentation(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || !rep.IsLawyer(actor.ID) {
		return nil, ErrUnauthorized
	}
	if !rep.Status.CanTransition(status) {
		return nil, ErrInvalidTransition
	}
	at, err := repo.DecideRepresentation(ctx, s.DB, id, status)
	if err != nil {
		if errors.Is(err, repo.ErrStaleStatus) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	rep.Status = status
	rep.DecidedAt = &at
	return rep, nil
}

// Get returns a representation to one of its parties.
func (s *RepresentationService) Get(ctx context.Context, actor *domain.Account, id string) (*domain.Representation, error) {
	return loadAsParty(ctx, s.DB, actor, id)
}

// ListForClient returns the client's representations.
func (s *RepresentationService) ListForClient(ctx context.Context, actor *domain.Account) ([]domain.Representation, error) {
	if !actor.IsClient() {
		return nil, ErrUnauthorized
	}
	return repo.ListRepresentationsForClient(ctx, s.DB, actor.ID)
}

// ListForLawyer returns the lawyer's representations, optionally filtered by
// status.
func (s *RepresentationService) ListForLawyer(ctx context.Context, actor *domain.Account, status *domain.RepresentationStatus) ([]domain.Representation, error) {
	if !actor.IsLawyer() {
		return nil, ErrUnauthorized
	}
	return repo.ListRepresentationsForLawyer(ctx, s.DB, actor.ID, status)
}

// DiscoverLawyers lists active lawyers the client has no Pending or Accepted
// request with. Rejected lawyers are listed again.
func (s *RepresentationService) DiscoverLawyers(ctx context.Context, actor *domain.Account) ([]domain.Account, error) {
	if !actor.IsClient() {
		return nil, ErrUnauthorized
	}
	return repo.ListAvailableLawyers(ctx, s.DB, actor.ID)
}
