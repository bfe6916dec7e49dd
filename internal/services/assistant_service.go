// Package services – AssistantService
//
// This file implements the AI legal-assistant conversation. It validates the
// prompt, checks chat ownership, asks the gateway (optionally with an
// uploaded document) and persists the user/assistant message pair
// atomically. A gateway failure is stored as a degraded placeholder reply
// rather than surfaced as an error.
//
// Optional enhancement: it also auto-generates a chat title from the first
// user prompt when the chat still has a default/empty title.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include chat/user identifiers and pagination parameters where applicable.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/ai"
	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/extract"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
	"github.com/vishnudev3154/Judex-AI/internal/storage"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"

	// default titles we consider “placeholder” and eligible for auto-generation
	defaultTitleNew      = "New chat"
	defaultTitleUntitled = "Untitled"

	// AssistantUnavailable is stored as the reply when the gateway fails.
	AssistantUnavailable = "The legal assistant is unavailable right now."

	// documentOnlyPrompt stands in for a blank prompt sent with a document.
	documentOnlyPrompt = "Please review the attached document."

	chatUploadTitlePrefix = "Chat Upload: "
)

// AssistantService coordinates assistant messages and gateway answers.
type AssistantService struct {
	DB    *gorm.DB
	AI    ai.Gateway
	Store storage.Store

	// Cases records client uploads as analyzed case submissions; nil
	// disables it.
	Cases *CaseService

	// Optional guards
	MaxPromptRunes int
	MaxReplyRunes  int
	MaxPages       int

	// Title generation config
	TitleLocale language.Tag
	TitleMaxLen int
}

// Answer validates the prompt, verifies chat ownership, asks the gateway and
// persists both messages atomically. It may auto-generate a chat title.
func (s *AssistantService) Answer(ctx context.Context, actor *domain.Account, chatID, prompt string, upload *Upload) (*domain.AssistantMessage, error) {
	tr := otel.Tracer("services/AssistantService")
	ctx, span := tr.Start(ctx, "Answer",
		trace.WithAttributes(
			attribute.String("chat.id", chatID),
			attribute.String("user.id", actor.ID),
			attribute.Bool("upload", upload != nil),
		),
	)
	defer span.End()

	hasUpload := upload != nil && len(upload.Data) > 0
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		if !hasUpload {
			return nil, ErrEmptyPrompt
		}
		prompt = documentOnlyPrompt
	}
	if s.MaxPromptRunes > 0 && utf8.RuneCountInString(prompt) > s.MaxPromptRunes {
		return nil, ErrTooLong
	}

	chat, err := repo.GetAssistantChat(ctx, s.DB, chatID, actor.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	var (
		att      *ai.Attachment
		doc      domain.Attachment
		fileName string
	)
	if hasUpload {
		upload.detect()
		fileName = upload.Name
		if s.Store != nil {
			if doc, err = storeUpload(ctx, s.Store, storage.CategoryAssistant, upload); err != nil {
				return nil, err
			}
		}
		att, err = ai.NewAttachment(upload.Name, upload.MIME, upload.Data, s.maxPages())
		if err != nil {
			log.Warn().Err(err).Str("chat_id", chatID).Str("file", upload.Name).Msg("assistant upload not readable; answering without it")
			att = nil
		}
	}

	reply, degraded := s.ask(ctx, prompt, att)

	var assistantMsg *domain.AssistantMessage
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.CreateAssistantMessage(ctx, tx, chatID, roleUser, prompt, fileName, false); err != nil {
			return err
		}
		m, err := repo.CreateAssistantMessage(ctx, tx, chatID, roleAssistant, reply, "", degraded)
		if err != nil {
			return err
		}
		assistantMsg = m

		// Auto-title if placeholder
		if s.shouldAutoTitle(chat.Title) {
			if gen := s.generateTitleFromPrompt(prompt); gen != "" {
				gen = s.clipTitle(gen)
				if uerr := repo.UpdateAssistantChatTitle(ctx, tx, chatID, actor.ID, gen); uerr == nil {
					chat.Title = gen
				}
			}
		}
		return repo.TouchAssistantChat(ctx, tx, chatID)
	})
	if err != nil {
		return nil, err
	}

	if hasUpload && !degraded && actor.IsClient() && s.Cases != nil {
		if _, err := s.Cases.recordAnalyzed(ctx, actor.ID, chatUploadTitlePrefix+fileName, doc, reply); err != nil {
			log.Warn().Err(err).Str("chat_id", chatID).Msg("record chat upload as case")
		}
	}

	// Clip reply length if configured
	if s.MaxReplyRunes > 0 && utf8.RuneCountInString(assistantMsg.Content) > s.MaxReplyRunes {
		assistantMsg.Content = string([]rune(assistantMsg.Content)[:s.MaxReplyRunes])
	}
	return assistantMsg, nil
}

// ask returns the gateway reply, or the placeholder and degraded=true.
func (s *AssistantService) ask(ctx context.Context, prompt string, att *ai.Attachment) (string, bool) {
	if s.AI == nil {
		return AssistantUnavailable, true
	}
	reply, err := s.AI.Ask(ctx, prompt, att)
	if err != nil {
		log.Warn().Err(err).Msg("assistant gateway failed; storing placeholder reply")
		return AssistantUnavailable, true
	}
	return strings.TrimSpace(reply), false
}

// ListPage returns paginated messages of a chat owned by userID.
func (s *AssistantService) ListPage(ctx context.Context, userID, chatID string, page, pageSize int) ([]domain.AssistantMessage, int64, error) {
	tr := otel.Tracer("services/AssistantService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("chat.id", chatID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if err := s.ensureChat(ctx, userID, chatID); err != nil {
		return nil, 0, err
	}
	offset, limit := pageBounds(page, pageSize)

	total, err := repo.CountAssistantMessages(ctx, s.DB, chatID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.AssistantMessage{}, 0, nil
	}
	items, err := repo.ListAssistantMessagesPage(ctx, s.DB, chatID, offset, limit)
	return items, total, err
}

// Message returns a message from one of userID's chats.
func (s *AssistantService) Message(ctx context.Context, userID, messageID string) (*domain.AssistantMessage, error) {
	m, err := repo.GetAssistantMessageForUser(ctx, s.DB, messageID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrMessageNotFound
	}
	return m, err
}

// Stats returns the message count and latest update of a chat, for ETags.
func (s *AssistantService) Stats(ctx context.Context, userID, chatID string) (int64, *time.Time, error) {
	if err := s.ensureChat(ctx, userID, chatID); err != nil {
		return 0, nil, err
	}
	return repo.AssistantMessagesStats(ctx, s.DB, chatID)
}

func (s *AssistantService) ensureChat(ctx context.Context, userID, chatID string) error {
	if _, err := repo.GetAssistantChat(ctx, s.DB, chatID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrChatNotFound
		}
		return err
	}
	return nil
}

func (s *AssistantService) maxPages() int {
	if s.MaxPages > 0 {
		return s.MaxPages
	}
	return extract.DefaultMaxPages
}

// shouldAutoTitle reports whether the current title is a placeholder.
func (s *AssistantService) shouldAutoTitle(current string) bool {
	t := strings.TrimSpace(strings.ToLower(current))
	return t == "" || t == strings.ToLower(defaultTitleNew) || t == strings.ToLower(defaultTitleUntitled)
}

// generateTitleFromPrompt derives a concise title from the prompt.
func (s *AssistantService) generateTitleFromPrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ""
	}
	toks := titleWordRE.FindAllString(strings.ToLower(prompt), -1)
	if len(toks) == 0 {
		return ""
	}

	titleCaser := cases.Title(s.TitleLocaleOrDefault())
	out := make([]string, 0, 8)
	for _, w := range toks {
		if _, skip := titleStopWords[w]; skip {
			continue
		}
		out = append(out, titleCaser.String(w))
		if len(out) >= 8 {
			break
		}
	}
	return strings.Join(out, " ")
}

// clipTitle truncates a generated title to the configured maximum rune length.
func (s *AssistantService) clipTitle(title string) string {
	max := s.TitleMaxLen
	if max <= 0 {
		max = 60
	}
	if utf8.RuneCountInString(title) > max {
		return string([]rune(title)[:max])
	}
	return title
}

// TitleLocaleOrDefault returns the configured locale for casing or English if unset.
func (s *AssistantService) TitleLocaleOrDefault() language.Tag {
	if s.TitleLocale == language.Und {
		return language.English
	}
	return s.TitleLocale
}

// Extract Unicode letters with optional trailing numbers (e.g., "ipc420").
var titleWordRE = regexp.MustCompile(`[\p{L}]+[\p{N}]*`)

// Minimal English stop-words set for compact titles.
var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "by": {}, "from": {},
	"at": {}, "as": {}, "that": {}, "this": {}, "it": {}, "be": {}, "was": {}, "were": {},
	"what": {}, "how": {}, "can": {}, "i": {}, "my": {}, "me": {}, "do": {}, "does": {},
}
