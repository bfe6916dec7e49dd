// Command server runs the Judex AI HTTP API.
//
// @title                      Judex AI API
// @version                    1.0
// @description                Legal case management: client case submissions with AI analysis, lawyer representation, case chat, a virtual court and a legal assistant.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/ai"
	"github.com/vishnudev3154/Judex-AI/internal/auth"
	"github.com/vishnudev3154/Judex-AI/internal/config"
	httpapi "github.com/vishnudev3154/Judex-AI/internal/http"
	"github.com/vishnudev3154/Judex-AI/internal/observability"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
	"github.com/vishnudev3154/Judex-AI/internal/services"
	"github.com/vishnudev3154/Judex-AI/internal/storage"
	"github.com/vishnudev3154/Judex-AI/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	shutdownTimeout = 20 * time.Second
	purgeInterval   = time.Hour
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, sysutil.FirstNonEmpty(cfg.OTEL.ServiceName, "judex-ai"), cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg config.Config) error {
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	store, closeStore, err := newStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	gw, err := newGateway(ctx, cfg.AI)
	if err != nil {
		return err
	}

	tokens, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}
	if cfg.Auth.AdminEmail != "" {
		accounts := &services.AccountService{DB: db, Tokens: tokens}
		if _, err := accounts.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Backend{DB: db, AI: gw, Store: store, Tokens: tokens}, cfg)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", version).
			Str("storage", cfg.Storage.Backend).
			Bool("ai", cfg.AI.Enabled()).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		purgeIdempotency(gctx, db, purgeInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// newStore opens the configured document store. The returned func releases it.
func newStore(ctx context.Context, sc config.StorageConfig) (storage.Store, func(), error) {
	switch sc.Backend {
	case config.StorageGCS:
		g, err := storage.NewGCS(ctx, sc.GCSBucket)
		if err != nil {
			return nil, nil, fmt.Errorf("gcs bucket %s: %w", sc.GCSBucket, err)
		}
		return g, func() { _ = g.Close() }, nil
	default:
		dir, err := filepath.Abs(sc.UploadDir)
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("upload dir %s: %w", dir, err)
		}
		l, err := storage.NewLocal(dir)
		if err != nil {
			return nil, nil, err
		}
		return l, func() {}, nil
	}
}

// newGateway returns the Gemini-backed gateway, or one whose every call
// fails when no key is configured. Callers already degrade on failure.
func newGateway(ctx context.Context, ac config.AIConfig) (ai.Gateway, error) {
	if !ac.Enabled() {
		log.Warn().Msg("GEMINI_API_KEY not set; AI features will return placeholders")
		return ai.NewClient(ai.Disabled{}, ac.Timeout), nil
	}
	m, err := ai.NewGemini(ctx, ac.APIKey, ac.Model)
	if err != nil {
		return nil, err
	}
	return ai.NewClient(m, ac.Timeout), nil
}

// purgeIdempotency deletes expired idempotency records every interval until
// ctx is done.
func purgeIdempotency(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now)
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency records")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("purged idempotency records")
			}
		}
	}
}
