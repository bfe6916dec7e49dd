// Package services – AssistantChatService
//
// This file implements the lifecycle of legal-assistant chats. It validates
// and normalizes titles, enforces ownership rules, and coordinates repository
// operations for creating, listing (with pagination), and renaming chats.
// Automatic titles are generated by AssistantService on the first prompt.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
)

// AssistantChatRepo defines the repository contract required by
// AssistantChatService.
type AssistantChatRepo interface {
	// CreateAssistantChat inserts a new chat row for the given user.
	CreateAssistantChat(ctx context.Context, db *gorm.DB, userID, title string) (*domain.AssistantChat, error)

	// ListAssistantChats returns all chats belonging to the user (non-paginated).
	ListAssistantChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.AssistantChat, error)

	// GetAssistantChat fetches a chat by ID ensuring it belongs to the user.
	GetAssistantChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.AssistantChat, error)

	// UpdateAssistantChatTitle renames a chat (only if it belongs to the user).
	UpdateAssistantChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error

	// CountAssistantChats returns the total number of chats for pagination.
	CountAssistantChats(ctx context.Context, db *gorm.DB, userID string) (int64, error)

	// ListAssistantChatsPage returns a page of chats belonging to the user.
	ListAssistantChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.AssistantChat, error)
}

// AssistantChatService provides chat-level operations such as creating,
// listing and renaming assistant chats.
type AssistantChatService struct {
	DB   *gorm.DB
	Repo AssistantChatRepo

	// TitleMaxLen caps stored titles by rune length.
	TitleMaxLen int
}

// NewAssistantChatService constructs an AssistantChatService with the
// default title cap.
func NewAssistantChatService(db *gorm.DB, r AssistantChatRepo) *AssistantChatService {
	return &AssistantChatService{DB: db, Repo: r, TitleMaxLen: 60}
}

// Create inserts a new chat owned by userID. A blank title falls back to
// "New chat", which makes the chat eligible for auto-titling.
func (s *AssistantChatService) Create(ctx context.Context, userID, title string) (*domain.AssistantChat, error) {
	title = normalizeTitle(title)
	if title == "" {
		title = defaultTitleNew
	}
	return s.Repo.CreateAssistantChat(ctx, s.DB, userID, s.clip(title))
}

// List returns all chats for a user (non-paginated).
func (s *AssistantChatService) List(ctx context.Context, userID string) ([]domain.AssistantChat, error) {
	return s.Repo.ListAssistantChats(ctx, s.DB, userID)
}

// ListPage returns a page of chats for a user and the total count.
func (s *AssistantChatService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.AssistantChat, int64, error) {
	offset, limit := pageBounds(page, pageSize)
	total, err := s.Repo.CountAssistantChats(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.AssistantChat{}, 0, nil
	}
	items, err := s.Repo.ListAssistantChatsPage(ctx, s.DB, userID, offset, limit)
	return items, total, err
}

// Stats returns the chat count and the latest update, used for ETags.
func (s *AssistantChatService) Stats(ctx context.Context, userID string) (int64, *time.Time, error) {
	return repo.AssistantChatsStats(ctx, s.DB, userID)
}

// UpdateTitle renames a chat owned by userID. A blank title becomes
// "Untitled".
func (s *AssistantChatService) UpdateTitle(ctx context.Context, userID, chatID, title string) error {
	title = normalizeTitle(title)
	if title == "" {
		title = defaultTitleUntitled
	}
	if _, err := s.Repo.GetAssistantChat(ctx, s.DB, chatID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChatNotFound
		}
		return err
	}
	return s.Repo.UpdateAssistantChatTitle(ctx, s.DB, chatID, userID, s.clip(title))
}

// clip truncates a chat title to the configured maximum rune length.
func (s *AssistantChatService) clip(title string) string {
	if s.TitleMaxLen > 0 && utf8.RuneCountInString(title) > s.TitleMaxLen {
		return string([]rune(title)[:s.TitleMaxLen])
	}
	return title
}

// normalizeTitle trims whitespace and collapses runs of spaces to one.
func normalizeTitle(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

var whitespaceRE = regexp.MustCompile(`\s+`)
