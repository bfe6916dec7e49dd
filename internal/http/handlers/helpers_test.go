package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vishnudev3154/Judex-AI/internal/ai"
	"github.com/vishnudev3154/Judex-AI/internal/auth"
	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/http/middleware"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
	"github.com/vishnudev3154/Judex-AI/internal/services"
	"github.com/vishnudev3154/Judex-AI/internal/storage"
)

func init() { gin.SetMode(gin.TestMode) }

// ---------- test DB ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// ---------- scripted gateway ----------

type scriptedGateway struct {
	mu        sync.Mutex
	analysis  string
	failAll   bool
	answer    string
	judgments []ai.Judgment
	asks      int
	judges    int

	// beforeJudge runs ahead of each JudgeArgument, outside mu.
	beforeJudge func()
}

func (g *scriptedGateway) AnalyzeDocument(context.Context, string, *ai.Attachment) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAll {
		return "", ai.ErrGateway
	}
	return g.analysis, nil
}

func (g *scriptedGateway) Ask(context.Context, string, *ai.Attachment) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.asks++
	if g.failAll {
		return "", ai.ErrGateway
	}
	return g.answer, nil
}

func (g *scriptedGateway) JudgeArgument(context.Context, string, string, string) ai.Judgment {
	if g.beforeJudge != nil {
		g.beforeJudge()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.judges++
	if g.failAll || len(g.judgments) == 0 {
		return ai.FallbackJudgment(0)
	}
	j := g.judgments[0]
	g.judgments = g.judgments[1:]
	return j
}

// ---------- harness ----------

type harness struct {
	t        *testing.T
	db       *gorm.DB
	gw       *scriptedGateway
	accounts *services.AccountService
	router   *gin.Engine
}

const testPassword = "correct-horse-battery"

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := newHandlerDB(t)
	store, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	iss, err := auth.NewIssuer("handler-test-secret-handler-test", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	gw := &scriptedGateway{analysis: "Strong claim under the Consumer Protection Act.", answer: "You may claim the deposit back."}

	accounts := &services.AccountService{DB: db, Tokens: iss}
	cases := &services.CaseService{DB: db, AI: gw, Store: store}
	chat := &services.CaseChatService{DB: db, Store: store, MaxTextRunes: 8000}
	court := services.NewCourtService(db, gw, chat)
	court.Now = func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }
	idem := NewIdempotencyStore(db, time.Hour)

	h := New(Deps{
		Accounts:        accounts,
		Cases:           cases,
		Representations: &services.RepresentationService{DB: db, Store: store},
		CaseChat:        chat,
		Court:           court,
		AssistantChats:  services.NewAssistantChatService(db, repoChats{}),
		Assistant:       &services.AssistantService{DB: db, AI: gw, Store: store, Cases: cases, MaxPromptRunes: 4000},
		Feedback:        &services.FeedbackService{DB: db},
		Admin:           &services.AdminService{DB: db},
		Idempotency:     idem,
		MaxUploadBytes:  1 << 20,
		MaxPromptRunes:  4000,
	})

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1")
	api.POST("/auth/register/client", h.RegisterClient)
	api.POST("/auth/register/lawyer", h.RegisterLawyer)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/lawyer/login", h.LawyerLogin)
	api.POST("/auth/admin/login", h.AdminLogin)

	p := api.Group("")
	p.Use(middleware.Authenticate(accounts), middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, idem.Exists))
	p.GET("/me", h.Me)
	p.GET("/lawyers", h.ListLawyers)
	p.POST("/cases", h.CreateCase)
	p.GET("/cases", h.ListCases)
	p.GET("/cases/:id", h.GetCase)
	p.POST("/cases/:id/analyze", h.AnalyzeCase)
	p.GET("/cases/:id/document", h.CaseDocument)
	p.POST("/cases/:id/forward", h.ForwardCase)
	p.GET("/predictions", h.Predictions)
	p.POST("/representations", h.CreateRepresentation)
	p.GET("/representations", h.ListRepresentations)
	p.GET("/representations/:id", h.GetRepresentation)
	p.POST("/representations/:id/decision", h.DecideRepresentation)
	p.GET("/representations/:id/chat/messages", h.ListCaseChat)
	p.POST("/representations/:id/chat/messages", h.PostCaseChat)
	p.GET("/representations/:id/chat/messages/:messageID/file", h.CaseChatFile)
	p.GET("/representations/:id/court", h.GetCourt)
	p.POST("/representations/:id/court/initialize", h.InitializeCourt)
	p.POST("/representations/:id/court/load-from-chat", h.LoadCourtFromChat)
	p.POST("/representations/:id/court/arguments", h.SubmitArgument)
	p.POST("/representations/:id/court/transcript", h.CompileTranscript)
	p.POST("/assistant/chats", h.CreateChat)
	p.GET("/assistant/chats", h.ListChats)
	p.PUT("/assistant/chats/:id/title", h.UpdateChatTitle)
	p.GET("/assistant/chats/:id/messages", h.ListMessages)
	p.POST("/assistant/chats/:id/messages", h.PostMessage)
	p.POST("/assistant/messages/:id/feedback", h.LeaveFeedback)
	p.GET("/admin/dashboard", h.AdminDashboard)
	p.GET("/admin/users", h.AdminUsers)
	p.POST("/admin/users/:id/toggle", h.AdminToggleUser)
	p.GET("/admin/cases", h.AdminCases)
	p.GET("/admin/users/:id/history", h.AdminUserHistory)

	return &harness{t: t, db: db, gw: gw, accounts: accounts, router: r}
}

// repoChats adapts the repo package to services.AssistantChatRepo.
type repoChats struct{}

func (repoChats) CreateAssistantChat(ctx context.Context, db *gorm.DB, userID, title string) (*domain.AssistantChat, error) {
	return repo.CreateAssistantChat(ctx, db, userID, title)
}

func (repoChats) ListAssistantChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.AssistantChat, error) {
	return repo.ListAssistantChats(ctx, db, userID)
}

func (repoChats) GetAssistantChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.AssistantChat, error) {
	return repo.GetAssistantChat(ctx, db, id, userID)
}

func (repoChats) UpdateAssistantChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	return repo.UpdateAssistantChatTitle(ctx, db, id, userID, title)
}

func (repoChats) CountAssistantChats(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountAssistantChats(ctx, db, userID)
}

func (repoChats) ListAssistantChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.AssistantChat, error) {
	return repo.ListAssistantChatsPage(ctx, db, userID, offset, limit)
}

// user is a registered account with a live token.
type user struct {
	acct  *domain.Account
	token string
}

// signUp creates an account directly and logs it in through its portal.
func (h *harness) signUp(email string, role domain.Role) user {
	h.t.Helper()
	ctx := context.Background()
	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		h.t.Fatalf("HashPassword: %v", err)
	}
	var bar *string
	if role == domain.RoleLawyer {
		b := "BAR-1"
		bar = &b
	}
	a, err := repo.CreateAccount(ctx, h.db, email, "Test "+string(role), hash, role, bar)
	if err != nil {
		h.t.Fatalf("CreateAccount: %v", err)
	}
	sess, err := h.accounts.Login(ctx, role, email, testPassword)
	if err != nil {
		h.t.Fatalf("Login: %v", err)
	}
	return user{acct: a, token: sess.Token}
}

// do sends a request; body may be nil, a *multipartBody or any JSON value.
func (h *harness) do(method, path string, u *user, body any, headers ...string) *httptest.ResponseRecorder {
	h.t.Helper()
	var (
		rdr io.Reader
		ct  string
	)
	switch b := body.(type) {
	case nil:
	case *multipartBody:
		rdr, ct = b.finish(h.t)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			h.t.Fatalf("marshal: %v", err)
		}
		rdr, ct = bytes.NewReader(raw), "application/json"
	}
	req := httptest.NewRequest(method, path, rdr)
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	if u != nil {
		req.Header.Set("Authorization", "Bearer "+u.token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// multipartBody builds a multipart/form-data request body.
type multipartBody struct {
	buf bytes.Buffer
	mw  *multipart.Writer
}

func newMultipart() *multipartBody {
	b := &multipartBody{}
	b.mw = multipart.NewWriter(&b.buf)
	return b
}

func (b *multipartBody) field(name, value string) *multipartBody {
	_ = b.mw.WriteField(name, value)
	return b
}

func (b *multipartBody) file(field, name string, data []byte) *multipartBody {
	fw, _ := b.mw.CreateFormFile(field, name)
	_, _ = fw.Write(data)
	return b
}

func (b *multipartBody) finish(t *testing.T) (io.Reader, string) {
	t.Helper()
	if err := b.mw.Close(); err != nil {
		t.Fatalf("multipart close: %v", err)
	}
	return &b.buf, b.mw.FormDataContentType()
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v; body=%s", v, err, w.Body.String())
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status=%d want %d; body=%s", w.Code, want, w.Body.String())
	}
}

func expectCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, w, status)
	if er := decode[ErrorResponse](t, w); er.Code != code {
		t.Fatalf("code=%q want %q", er.Code, code)
	}
}

// acceptedRepresentation runs the request and acceptance through the API.
func (h *harness) acceptedRepresentation(client, lawyer user) domain.Representation {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/v1/representations", &client,
		newMultipart().field("lawyer_id", lawyer.acct.ID).field("title", "Theft dispute").field("description", "Accused of shoplifting"))
	expectStatus(h.t, w, http.StatusCreated)
	rep := decode[domain.Representation](h.t, w)

	w = h.do(http.MethodPost, "/api/v1/representations/"+rep.ID+"/decision", &lawyer, DecisionRequest{Status: "Accepted"})
	expectStatus(h.t, w, http.StatusOK)
	return decode[domain.Representation](h.t, w)
}
