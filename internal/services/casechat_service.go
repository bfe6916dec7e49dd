// Package services – CaseChatService
//
// This file implements the chat attached to a representation. Only the
// client and the lawyer of the representation may read or post. Besides
// plain messages the chat carries two kinds of packets: a forwarded case
// (posted by the client) and a court transcript (posted by the court engine).
// Packets keep a readable text rendering with a marker line and carry their
// structured data in the payload column.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
	"github.com/vishnudev3154/Judex-AI/internal/storage"
)

// analysisPreviewRunes is how much of the analysis a forwarded packet shows.
const analysisPreviewRunes = 300

// packetRule separates the header of a packet from its body.
const packetRule = "━━━━━━━━━━━━━━━━━━━━━━"

// CaseChatService owns the representation chat.
type CaseChatService struct {
	DB    *gorm.DB
	Store storage.Store

	// MaxTextRunes caps plain message text; zero disables the check.
	MaxTextRunes int
}

// Post appends a plain message. At least one of text and file is required.
func (s *CaseChatService) Post(ctx context.Context, actor *domain.Account, repID, text string, file *Upload) (*domain.CaseChatMessage, error) {
	ctx, span := otel.Tracer("services/CaseChatService").Start(ctx, "Post",
		trace.WithAttributes(attribute.String("representation.id", repID)),
	)
	defer span.End()

	rep, err := loadAsParty(ctx, s.DB, actor, repID)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" && (file == nil || len(file.Data) == 0) {
		return nil, ErrEmptyMessage
	}
	if s.MaxTextRunes > 0 && utf8.RuneCountInString(text) > s.MaxTextRunes {
		return nil, ErrTooLong
	}

	att, err := storeUpload(ctx, s.Store, storage.CategoryChat, file)
	if err != nil {
		return nil, err
	}
	m := &domain.CaseChatMessage{
		RepresentationID: rep.ID,
		SenderID:         actor.ID,
		Kind:             domain.KindPlain,
		Text:             text,
		File:             att,
	}
	if err := repo.CreateCaseChatMessage(ctx, s.DB, m); err != nil {
		return nil, err
	}
	m.Sender = actor
	return m, nil
}

// History returns the whole chat in (CreatedAt, ID) order.
func (s *CaseChatService) History(ctx context.Context, actor *domain.Account, repID string) ([]domain.CaseChatMessage, error) {
	if _, err := loadAsParty(ctx, s.DB, actor, repID); err != nil {
		return nil, err
	}
	return repo.ListCaseChatMessages(ctx, s.DB, repID)
}

// HistoryPage returns a page of the chat and the total message count.
func (s *CaseChatService) HistoryPage(ctx context.Context, actor *domain.Account, repID string, page, pageSize int) ([]domain.CaseChatMessage, int64, error) {
	ctx, span := otel.Tracer("services/CaseChatService").Start(ctx, "HistoryPage",
		trace.WithAttributes(
			attribute.String("representation.id", repID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if _, err := loadAsParty(ctx, s.DB, actor, repID); err != nil {
		return nil, 0, err
	}
	offset, limit := pageBounds(page, pageSize)
	total, err := repo.CountCaseChatMessages(ctx, s.DB, repID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.CaseChatMessage{}, 0, nil
	}
	items, err := repo.ListCaseChatMessagesPage(ctx, s.DB, repID, offset, limit)
	return items, total, err
}

// Stats returns the message count and the latest timestamp, used for ETags.
func (s *CaseChatService) Stats(ctx context.Context, actor *domain.Account, repID string) (int64, *time.Time, error) {
	if _, err := loadAsParty(ctx, s.DB, actor, repID); err != nil {
		return 0, nil, err
	}
	return repo.CaseChatStats(ctx, s.DB, repID)
}

// ForwardCaseSummary posts a forwarded case packet. The client must own the
// case and be the client of an Accepted representation.
func (s *CaseChatService) ForwardCaseSummary(ctx context.Context, actor *domain.Account, caseID, repID string) (*domain.CaseChatMessage, error) {
	ctx, span := otel.Tracer("services/CaseChatService").Start(ctx, "ForwardCaseSummary",
		trace.WithAttributes(
			attribute.String("case.id", caseID),
			attribute.String("representation.id", repID),
		),
	)
	defer span.End()

	if !actor.IsClient() {
		return nil, ErrUnauthorized
	}
	c, err := repo.GetCase(ctx, s.DB, caseID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	if c.OwnerID != actor.ID {
		return nil, ErrUnauthorized
	}
	rep, err := loadRepresentation(ctx, s.DB, repID)
	if err != nil {
		return nil, err
	}
	if rep.ClientID != actor.ID {
		return nil, ErrUnauthorized
	}
	if rep.Status != domain.StatusAccepted {
		return nil, ErrNotAccepted
	}

	payload, err := domain.EncodePayload(domain.ForwardedCasePayload{CaseID: c.ID, CaseNumber: c.CaseNumber})
	if err != nil {
		return nil, err
	}
	m := &domain.CaseChatMessage{
		RepresentationID: rep.ID,
		SenderID:         actor.ID,
		Kind:             domain.KindForwardedCase,
		Text:             ForwardedCaseText(c),
		File:             c.Document,
		Payload:          payload,
	}
	if err := s.postPacket(ctx, s.DB, m); err != nil {
		return nil, err
	}
	m.Sender = actor
	return m, nil
}

// postPacket stores a packet message on db, which may be a transaction.
func (s *CaseChatService) postPacket(ctx context.Context, db *gorm.DB, m *domain.CaseChatMessage) error {
	if m.Kind == domain.KindPlain || m.Kind == "" {
		return fmt.Errorf("postPacket: kind %q is not a packet", m.Kind)
	}
	return repo.CreateCaseChatMessage(ctx, db, m)
}

// OpenFile streams the attachment of a chat message to a party.
func (s *CaseChatService) OpenFile(ctx context.Context, actor *domain.Account, repID, messageID string) (io.ReadCloser, domain.Attachment, error) {
	if _, err := loadAsParty(ctx, s.DB, actor, repID); err != nil {
		return nil, domain.Attachment{}, err
	}
	m, err := repo.GetCaseChatMessage(ctx, s.DB, repID, messageID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domain.Attachment{}, ErrMessageNotFound
		}
		return nil, domain.Attachment{}, err
	}
	rc, err := openAttachment(ctx, s.Store, m.File)
	return rc, m.File, err
}

// ForwardedCaseText renders the readable side of a forwarded case packet.
func ForwardedCaseText(c *domain.CaseSubmission) string {
	analysis := AnalysisPending
	if c.AnalysisResult != nil && strings.TrimSpace(*c.AnalysisResult) != "" {
		analysis = *c.AnalysisResult
	}
	if utf8.RuneCountInString(analysis) > analysisPreviewRunes {
		analysis = string([]rune(analysis)[:analysisPreviewRunes])
	}
	return fmt.Sprintf("📑 **%s: %s**\n%s\n📝 **Summary:** %s\n\n🤖 **AI Analysis Summary:** %s...",
		domain.ForwardedCaseMarker, c.CaseNumber, packetRule, c.Description, analysis)
}
