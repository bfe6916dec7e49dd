// Package services – CaseService
//
// This file implements client case submissions. A case gets its case number
// once at creation and is analyzed by the AI gateway exactly once: the
// analysis runs inline on creation, and a failed analysis can be retried
// until it succeeds. Reviewed cases are never re-analyzed.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/ai"
	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
	"github.com/vishnudev3154/Judex-AI/internal/storage"
)

// AnalysisPending is shown in place of the analysis of an unreviewed case.
const AnalysisPending = "AI analysis is processing."

// defaultMaxDocumentBytes bounds documents re-read from the store.
const defaultMaxDocumentBytes = 10 << 20

// CaseService owns case submissions.
type CaseService struct {
	DB    *gorm.DB
	AI    ai.Gateway
	Store storage.Store

	// MaxDocumentBytes bounds documents read back for a retried analysis.
	MaxDocumentBytes int64
}

// CaseInput is the body of a new case.
type CaseInput struct {
	Title       string
	Description string
}

func (in CaseInput) validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&in.Description, validation.RuneLength(0, 20000)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// Create stores a new case for a client and runs the analysis. A failed
// analysis is logged and leaves the case unreviewed.
func (s *CaseService) Create(ctx context.Context, actor *domain.Account, in CaseInput, doc *Upload) (*domain.CaseSubmission, error) {
	ctx, span := otel.Tracer("services/CaseService").Start(ctx, "Create")
	defer span.End()

	if !actor.IsClient() {
		return nil, ErrUnauthorized
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := in.validate(); err != nil {
		return nil, err
	}

	att, err := storeUpload(ctx, s.Store, storage.CategoryCase, doc)
	if err != nil {
		return nil, err
	}
	c, err := repo.CreateCase(ctx, s.DB, actor.ID, in.Title, in.Description, att)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("case.id", c.ID), attribute.String("case.number", c.CaseNumber))

	var data []byte
	if doc != nil {
		data = doc.Data
	}
	s.analyze(ctx, c, data)
	return c, nil
}

// Analyze retries the analysis of an unreviewed case owned by actor.
func (s *CaseService) Analyze(ctx context.Context, actor *domain.Account, caseID string) (*domain.CaseSubmission, error) {
	ctx, span := otel.Tracer("services/CaseService").Start(ctx, "Analyze",
		trace.WithAttributes(attribute.String("case.id", caseID)),
	)
	defer span.End()

	c, err := s.owned(ctx, actor, caseID)
	if err != nil {
		return nil, err
	}
	if c.Reviewed {
		return nil, ErrAlreadyReviewed
	}

	var data []byte
	if c.Document.Present() && s.Store != nil {
		data, err = storage.ReadAll(ctx, s.Store, c.Document.Key, s.maxDocumentBytes())
		if err != nil {
			log.Warn().Err(err).Str("case_id", c.ID).Msg("case document unreadable; analyzing notes only")
			data = nil
		}
	}
	s.analyze(ctx, c, data)
	return c, nil
}

// analyze runs the gateway and records a successful result on c. The whole
// document is read; page caps apply to court evidence and assistant uploads
// only.
func (s *CaseService) analyze(ctx context.Context, c *domain.CaseSubmission, data []byte) {
	if s.AI == nil {
		return
	}
	var att *ai.Attachment
	if len(data) > 0 {
		a, err := ai.NewAttachment(c.Document.Name, c.Document.MIME, data, 0)
		if err != nil {
			log.Warn().Err(err).Str("case_id", c.ID).Msg("case document not extractable")
		} else {
			att = a
		}
	}
	text, err := s.AI.AnalyzeDocument(ctx, c.Description, att)
	if err != nil {
		log.Warn().Err(err).Str("case_id", c.ID).Msg("case analysis failed; case stays unreviewed")
		return
	}
	if err := repo.SetCaseAnalysis(ctx, s.DB, c.ID, text); err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Error().Err(err).Str("case_id", c.ID).Msg("store case analysis")
			return
		}
		// A concurrent analysis stored first; report the stored one.
		stored, gerr := repo.GetCase(ctx, s.DB, c.ID)
		if gerr != nil {
			log.Warn().Err(gerr).Str("case_id", c.ID).Msg("reload analyzed case")
			return
		}
		c.AnalysisResult = stored.AnalysisResult
		c.Reviewed = stored.Reviewed
		return
	}
	c.AnalysisResult = &text
	c.Reviewed = true
}

// recordAnalyzed stores an already analyzed case, used for assistant
// uploads.
func (s *CaseService) recordAnalyzed(ctx context.Context, ownerID, title string, doc domain.Attachment, analysis string) (*domain.CaseSubmission, error) {
	c, err := repo.CreateCase(ctx, s.DB, ownerID, title, "", doc)
	if err != nil {
		return nil, err
	}
	if err := repo.SetCaseAnalysis(ctx, s.DB, c.ID, analysis); err != nil {
		return nil, err
	}
	c.AnalysisResult = &analysis
	c.Reviewed = true
	return c, nil
}

// ListMine returns the client's cases, newest first.
func (s *CaseService) ListMine(ctx context.Context, actor *domain.Account) ([]domain.CaseSubmission, error) {
	if !actor.IsClient() {
		return nil, ErrUnauthorized
	}
	return repo.ListCasesByOwner(ctx, s.DB, actor.ID, false)
}

// Predictions returns the client's analyzed cases.
func (s *CaseService) Predictions(ctx context.Context, actor *domain.Account) ([]domain.CaseSubmission, error) {
	if !actor.IsClient() {
		return nil, ErrUnauthorized
	}
	return repo.ListCasesByOwner(ctx, s.DB, actor.ID, true)
}

// Get returns a case to its owner or to an administrator.
func (s *CaseService) Get(ctx context.Context, actor *domain.Account, caseID string) (*domain.CaseSubmission, error) {
	c, err := repo.GetCase(ctx, s.DB, caseID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	if actor == nil || (c.OwnerID != actor.ID && !actor.IsAdmin()) {
		return nil, ErrUnauthorized
	}
	return c, nil
}

// OpenDocument streams the case document to its owner or an administrator.
func (s *CaseService) OpenDocument(ctx context.Context, actor *domain.Account, caseID string) (io.ReadCloser, domain.Attachment, error) {
	c, err := s.Get(ctx, actor, caseID)
	if err != nil {
		return nil, domain.Attachment{}, err
	}
	rc, err := openAttachment(ctx, s.Store, c.Document)
	return rc, c.Document, err
}

func (s *CaseService) owned(ctx context.Context, actor *domain.Account, caseID string) (*domain.CaseSubmission, error) {
	c, err := repo.GetCase(ctx, s.DB, caseID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	if actor == nil || c.OwnerID != actor.ID {
		return nil, ErrUnauthorized
	}
	return c, nil
}

func (s *CaseService) maxDocumentBytes() int64 {
	if s.MaxDocumentBytes > 0 {
		return s.MaxDocumentBytes
	}
	return defaultMaxDocumentBytes
}
