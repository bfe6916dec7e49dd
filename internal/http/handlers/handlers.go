// Package handlers provides the HTTP handlers of the legal-services API.
//
// Handlers are transport-thin: they bind and normalize input, resolve the
// caller from the auth middleware, delegate to the services and translate
// service errors into the ErrorResponse envelope.
package handlers

import (
	"context"
	"io"
	"time"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/services"
)

//
// Service contracts (context-aware)
//

// AccountService registers accounts and issues tokens.
type AccountService interface {
	RegisterClient(ctx context.Context, r services.Registration) (*domain.Account, error)
	RegisterLawyer(ctx context.Context, r services.Registration) (*domain.Account, error)
	Login(ctx context.Context, portal domain.Role, email, password string) (*services.Session, error)
}

// CaseService manages case submissions and their analysis.
type CaseService interface {
	Create(ctx context.Context, actor *domain.Account, in services.CaseInput, doc *services.Upload) (*domain.CaseSubmission, error)
	Analyze(ctx context.Context, actor *domain.Account, caseID string) (*domain.CaseSubmission, error)
	ListMine(ctx context.Context, actor *domain.Account) ([]domain.CaseSubmission, error)
	Predictions(ctx context.Context, actor *domain.Account) ([]domain.CaseSubmission, error)
	Get(ctx context.Context, actor *domain.Account, caseID string) (*domain.CaseSubmission, error)
	OpenDocument(ctx context.Context, actor *domain.Account, caseID string) (io.ReadCloser, domain.Attachment, error)
}

// RepresentationService manages hiring requests between clients and lawyers.
type RepresentationService interface {
	Request(ctx context.Context, actor *domain.Account, in services.RepresentationInput, doc *services.Upload) (*domain.Representation, error)
	Decide(ctx context.Context, actor *domain.Account, id string, status domain.RepresentationStatus) (*domain.Representation, error)
	Get(ctx context.Context, actor *domain.Account, id string) (*domain.Representation, error)
	ListForClient(ctx context.Context, actor *domain.Account) ([]domain.Representation, error)
	ListForLawyer(ctx context.Context, actor *domain.Account, status *domain.RepresentationStatus) ([]domain.Representation, error)
	DiscoverLawyers(ctx context.Context, actor *domain.Account) ([]domain.Account, error)
}

// CaseChatService is the per-representation conversation.
type CaseChatService interface {
	Post(ctx context.Context, actor *domain.Account, repID, text string, file *services.Upload) (*domain.CaseChatMessage, error)
	HistoryPage(ctx context.Context, actor *domain.Account, repID string, page, pageSize int) ([]domain.CaseChatMessage, int64, error)
	Stats(ctx context.Context, actor *domain.Account, repID string) (int64, *time.Time, error)
	ForwardCaseSummary(ctx context.Context, actor *domain.Account, caseID, repID string) (*domain.CaseChatMessage, error)
	OpenFile(ctx context.Context, actor *domain.Account, repID, messageID string) (io.ReadCloser, domain.Attachment, error)
}

// CourtService runs the virtual court of a representation.
type CourtService interface {
	GetOrCreate(ctx context.Context, actor *domain.Account, repID string) (*services.CourtState, error)
	Initialize(ctx context.Context, actor *domain.Account, repID, title, description string, doc *services.Upload) (*services.CourtState, error)
	LoadFromChat(ctx context.Context, actor *domain.Account, repID string) (*services.CourtState, error)
	SubmitArgument(ctx context.Context, actor *domain.Account, repID, argument string, retry services.RetryKey) (*services.ArgumentResult, error)
	CompileTranscript(ctx context.Context, actor *domain.Account, repID string) (*domain.CaseChatMessage, error)
}

// AssistantChatService defines assistant chat lifecycle operations.
type AssistantChatService interface {
	Create(ctx context.Context, userID, title string) (*domain.AssistantChat, error)
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.AssistantChat, int64, error)
	Stats(ctx context.Context, userID string) (int64, *time.Time, error)
	UpdateTitle(ctx context.Context, userID, chatID, title string) error
}

// AssistantService answers prompts inside an assistant chat.
type AssistantService interface {
	Answer(ctx context.Context, actor *domain.Account, chatID, prompt string, upload *services.Upload) (*domain.AssistantMessage, error)
	ListPage(ctx context.Context, userID, chatID string, page, pageSize int) ([]domain.AssistantMessage, int64, error)
	Stats(ctx context.Context, userID, chatID string) (int64, *time.Time, error)
	Message(ctx context.Context, userID, messageID string) (*domain.AssistantMessage, error)
}

// FeedbackService captures user feedback on assistant messages.
type FeedbackService interface {
	// Leave submits a feedback value (-1 or 1) for messageID by userID.
	Leave(ctx context.Context, userID, messageID string, value int) error
}

// AdminService serves the admin console.
type AdminService interface {
	Dashboard(ctx context.Context, actor *domain.Account) (*services.Dashboard, error)
	ListUsers(ctx context.Context, actor *domain.Account) (*services.UserDirectory, error)
	ToggleActive(ctx context.Context, actor *domain.Account, userID string) (*domain.Account, error)
	AllCases(ctx context.Context, actor *domain.Account) ([]domain.CaseSubmission, error)
	UserHistory(ctx context.Context, actor *domain.Account, userID string) (*services.UserHistory, error)
}

// IdempotencyStore remembers which resource an Idempotency-Key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID, scope, key string) (resourceID string, found bool)
	Remember(ctx context.Context, userID, scope, key, resourceID string, status int)
}

//
// Handler wiring
//

// Deps lists everything the handlers call. Nil services leave their routes
// unregistered by the router; nil Idempotency disables replays.
type Deps struct {
	Accounts        AccountService
	Cases           CaseService
	Representations RepresentationService
	CaseChat        CaseChatService
	Court           CourtService
	AssistantChats  AssistantChatService
	Assistant       AssistantService
	Feedback        FeedbackService
	Admin           AdminService
	Idempotency     IdempotencyStore

	// MaxUploadBytes bounds a single uploaded file; <= 0 means 10 MiB.
	MaxUploadBytes int64
	// MaxPromptRunes is checked at the edge before calling the assistant;
	// <= 0 disables the early check.
	MaxPromptRunes int
}

// Handlers groups every HTTP endpoint of the API.
type Handlers struct {
	accounts AccountService
	cases    CaseService
	reps     RepresentationService
	caseChat CaseChatService
	court    CourtService
	chats    AssistantChatService
	asst     AssistantService
	fb       FeedbackService
	admin    AdminService
	idem     IdempotencyStore

	maxUpload      int64
	maxPromptRunes int
}

// New constructs Handlers from d.
func New(d Deps) *Handlers {
	maxUpload := d.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	return &Handlers{
		accounts:       d.Accounts,
		cases:          d.Cases,
		reps:           d.Representations,
		caseChat:       d.CaseChat,
		court:          d.Court,
		chats:          d.AssistantChats,
		asst:           d.Assistant,
		fb:             d.Feedback,
		admin:          d.Admin,
		idem:           d.Idempotency,
		maxUpload:      maxUpload,
		maxPromptRunes: d.MaxPromptRunes,
	}
}
