// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, authentication, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Portal roles enforced at the route group, ownership in the services
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	_ "github.com/vishnudev3154/Judex-AI/docs" // registers the OpenAPI document
	"github.com/vishnudev3154/Judex-AI/internal/ai"
	"github.com/vishnudev3154/Judex-AI/internal/auth"
	"github.com/vishnudev3154/Judex-AI/internal/config"
	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/http/handlers"
	"github.com/vishnudev3154/Judex-AI/internal/http/middleware"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
	"github.com/vishnudev3154/Judex-AI/internal/services"
	"github.com/vishnudev3154/Judex-AI/internal/storage"
)

// multipartOverhead is the body allowance on top of the largest upload for
// form fields and part headers.
const multipartOverhead = 1 << 20

// assistantChatRepoShim adapts the repository free functions to the
// services.AssistantChatRepo interface expected by AssistantChatService. This
// keeps services decoupled from the concrete repo package while reusing
// existing functions.
type assistantChatRepoShim struct{}

// CreateAssistantChat proxies repo.CreateAssistantChat.
func (assistantChatRepoShim) CreateAssistantChat(ctx context.Context, db *gorm.DB, userID, title string) (*domain.AssistantChat, error) {
	return repo.CreateAssistantChat(ctx, db, userID, title)
}

// ListAssistantChats proxies repo.ListAssistantChats.
func (assistantChatRepoShim) ListAssistantChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.AssistantChat, error) {
	return repo.ListAssistantChats(ctx, db, userID)
}

// GetAssistantChat proxies repo.GetAssistantChat.
func (assistantChatRepoShim) GetAssistantChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.AssistantChat, error) {
	return repo.GetAssistantChat(ctx, db, id, userID)
}

// UpdateAssistantChatTitle proxies repo.UpdateAssistantChatTitle.
func (assistantChatRepoShim) UpdateAssistantChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	return repo.UpdateAssistantChatTitle(ctx, db, id, userID, title)
}

// CountAssistantChats proxies repo.CountAssistantChats (pagination support).
func (assistantChatRepoShim) CountAssistantChats(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountAssistantChats(ctx, db, userID)
}

// ListAssistantChatsPage proxies repo.ListAssistantChatsPage (pagination support).
func (assistantChatRepoShim) ListAssistantChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.AssistantChat, error) {
	return repo.ListAssistantChatsPage(ctx, db, userID, offset, limit)
}

// Backend bundles the process-wide resources the services are built on.
type Backend struct {
	DB     *gorm.DB
	AI     ai.Gateway
	Store  storage.Store
	Tokens *auth.Issuer
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), CORS and security
// headers, health, metrics and docs endpoints, and then mounts the versioned
// API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter (largest upload plus form overhead)
//  6. Metrics
//  7. Gzip, CORS and security headers
//
// Per group, after the global chain:
//   - auth portals: rate limiter keyed by client IP
//   - everything else: Authenticate, idempotency validator (so replays can
//     bypass the limiter), rate limiter keyed by account, then RequireRole
//     for portal-specific subgroups
func RegisterRoutes(r *gin.Engine, b Backend, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			middleware.HeaderIdempotencyKey,
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(cfg.Storage.MaxUploadBytes + multipartOverhead))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Compression, CORS and security headers
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	useCORS(r, cfg.CORS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
		CSPExempt:    []string{"/swagger"},
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/gateway/store
	db := b.DB
	accounts := &services.AccountService{DB: db, Tokens: b.Tokens}
	cases := &services.CaseService{DB: db, AI: b.AI, Store: b.Store, MaxDocumentBytes: cfg.Storage.MaxUploadBytes}
	caseChat := &services.CaseChatService{DB: db, Store: b.Store, MaxTextRunes: cfg.MaxTextRunes}
	court := services.NewCourtService(db, b.AI, caseChat)
	court.MaxEvidencePages = cfg.AI.MaxEvidencePages
	court.EvidenceBudget = cfg.AI.EvidenceBudget
	court.RetryTTL = cfg.IdempotencyTTL
	assistant := &services.AssistantService{
		DB:             db,
		AI:             b.AI,
		Store:          b.Store,
		Cases:          cases,
		MaxPromptRunes: cfg.MaxTextRunes,
		MaxReplyRunes:  cfg.MaxReplyRunes,
		MaxPages:       cfg.AI.MaxEvidencePages,
		TitleLocale:    language.English,
		TitleMaxLen:    60,
	}
	idem := handlers.NewIdempotencyStore(db, cfg.IdempotencyTTL)

	h := handlers.New(handlers.Deps{
		Accounts:        accounts,
		Cases:           cases,
		Representations: &services.RepresentationService{DB: db, Store: b.Store},
		CaseChat:        caseChat,
		Court:           court,
		AssistantChats:  services.NewAssistantChatService(db, assistantChatRepoShim{}),
		Assistant:       assistant,
		Feedback:        &services.FeedbackService{DB: db},
		Admin:           &services.AdminService{DB: db},
		Idempotency:     idem,
		MaxUploadBytes:  cfg.Storage.MaxUploadBytes,
		MaxPromptRunes:  cfg.MaxTextRunes,
	})

	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api/v1"

	// Login portals and registration
	public := api.Group("/auth")
	public.Use(middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByAccountOrIP()).Handler())
	{
		public.POST("/register/client", h.RegisterClient)
		public.POST("/register/lawyer", h.RegisterLawyer)
		public.POST("/login", h.Login)
		public.POST("/lawyer/login", h.LawyerLogin)
		public.POST("/admin/login", h.AdminLogin)
	}

	// Authenticated API
	p := api.Group("")
	p.Use(
		middleware.Authenticate(accounts),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idem.Exists),
		middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByAccountOrIP()).Handler(),
	)
	{
		p.GET("/me", h.Me)

		// Either party, or the owner; services check membership
		p.GET("/cases/:id", h.GetCase)
		p.GET("/cases/:id/document", h.CaseDocument)
		p.GET("/representations", h.ListRepresentations)
		p.GET("/representations/:id", h.GetRepresentation)
		p.GET("/representations/:id/chat/messages", h.ListCaseChat)
		p.POST("/representations/:id/chat/messages", h.PostCaseChat)
		p.GET("/representations/:id/chat/messages/:messageID/file", h.CaseChatFile)
		p.GET("/representations/:id/court", h.GetCourt)

		// Legal assistant
		p.POST("/assistant/chats", h.CreateChat)
		p.GET("/assistant/chats", h.ListChats)
		p.PUT("/assistant/chats/:id/title", h.UpdateChatTitle)
		p.GET("/assistant/chats/:id/messages", h.ListMessages)
		p.POST("/assistant/chats/:id/messages", h.PostMessage)
		p.POST("/assistant/messages/:id/feedback", h.LeaveFeedback)
	}

	// Client portal
	client := p.Group("", middleware.RequireRole(domain.RoleClient))
	{
		client.GET("/lawyers", h.ListLawyers)
		client.POST("/cases", h.CreateCase)
		client.GET("/cases", h.ListCases)
		client.POST("/cases/:id/analyze", h.AnalyzeCase)
		client.POST("/cases/:id/forward", h.ForwardCase)
		client.GET("/predictions", h.Predictions)
		client.POST("/representations", h.CreateRepresentation)
	}

	// Lawyer portal
	lawyer := p.Group("", middleware.RequireRole(domain.RoleLawyer))
	{
		lawyer.POST("/representations/:id/decision", h.DecideRepresentation)
		lawyer.POST("/representations/:id/court/initialize", h.InitializeCourt)
		lawyer.POST("/representations/:id/court/load-from-chat", h.LoadCourtFromChat)
		lawyer.POST("/representations/:id/court/arguments", h.SubmitArgument)
		lawyer.POST("/representations/:id/court/transcript", h.CompileTranscript)
	}

	// Admin console
	admin := p.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	{
		admin.GET("/dashboard", h.AdminDashboard)
		admin.GET("/users", h.AdminUsers)
		admin.POST("/users/:id/toggle", h.AdminToggleUser)
		admin.GET("/users/:id/history", h.AdminUserHistory)
		admin.GET("/cases", h.AdminCases)
	}
}

// useCORS installs the CORS posture: allow all origins when none are
// configured, otherwise echo allowlisted origins.
func useCORS(r *gin.Engine, cc config.CORSConfig) {
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey, "If-None-Match"}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag", "Content-Disposition", middleware.HeaderIdempotencyReplayed}
	methods := []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

	if len(cc.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     methods,
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
		return
	}

	// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
	allowed := make(map[string]struct{}, len(cc.AllowedOrigins))
	for _, o := range cc.AllowedOrigins {
		allowed[o] = struct{}{}
	}
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		c.Next()
	})
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cc.AllowedOrigins,
		AllowMethods:     methods,
		AllowHeaders:     allowHeaders,
		ExposeHeaders:    exposeHeaders,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
