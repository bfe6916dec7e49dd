// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, persistence, document storage, the AI gateway, authentication,
// rate limiting and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends understood by StorageConfig.Backend.
const (
	StorageLocal = "local"
	StorageGCS   = "gcs"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "judex-ai")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// StorageConfig selects where uploaded documents live.
type StorageConfig struct {
	Backend        string // STORAGE_BACKEND: local|gcs
	UploadDir      string // UPLOAD_DIR, root for the local backend
	GCSBucket      string // GCS_BUCKET
	MaxUploadBytes int64  // MAX_UPLOAD_BYTES, per file
}

// AIConfig configures the model gateway. An empty APIKey disables it.
type AIConfig struct {
	APIKey           string        // GEMINI_API_KEY
	Model            string        // GEMINI_MODEL
	Timeout          time.Duration // AI_TIMEOUT
	MaxEvidencePages int           // AI_MAX_PAGES
	EvidenceBudget   int           // AI_EVIDENCE_RUNES, 0 sends evidence whole
}

// Enabled reports whether a gateway key is configured.
func (a AIConfig) Enabled() bool { return strings.TrimSpace(a.APIKey) != "" }

// AuthConfig configures access tokens and the bootstrap administrator.
type AuthConfig struct {
	JWTSecret     string        // JWT_SECRET
	TokenTTL      time.Duration // TOKEN_TTL
	AdminEmail    string        // ADMIN_EMAIL
	AdminPassword string        // ADMIN_PASSWORD
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 60s, court turns wait on the model
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath        string // SQLite path
	MaxTextRunes  int    // cap on chat messages, prompts and arguments
	MaxReplyRunes int    // cap on stored assistant replies

	Storage StorageConfig
	AI      AIConfig
	Auth    AuthConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 90*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath:        getenv("DB_PATH", "judex.db"),
		MaxTextRunes:  getint("MAX_TEXT_RUNES", 8000),
		MaxReplyRunes: getint("MAX_REPLY_RUNES", 20000),

		Storage: StorageConfig{
			Backend:        strings.ToLower(getenv("STORAGE_BACKEND", StorageLocal)),
			UploadDir:      getenv("UPLOAD_DIR", "uploads"),
			GCSBucket:      getenv("GCS_BUCKET", ""),
			MaxUploadBytes: int64(getint("MAX_UPLOAD_BYTES", 10<<20)),
		},
		AI: AIConfig{
			APIKey:           getenv("GEMINI_API_KEY", ""),
			Model:            getenv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout:          getdur("AI_TIMEOUT", 60*time.Second),
			MaxEvidencePages: getint("AI_MAX_PAGES", 5),
			EvidenceBudget:   getint("AI_EVIDENCE_RUNES", 12000),
		},
		Auth: AuthConfig{
			JWTSecret:     getenv("JWT_SECRET", ""),
			TokenTTL:      getdur("TOKEN_TTL", 12*time.Hour),
			AdminEmail:    getenv("ADMIN_EMAIL", ""),
			AdminPassword: getenv("ADMIN_PASSWORD", ""),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "judex-ai"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.MaxTextRunes < 1 || cfg.MaxReplyRunes < 1 {
		return cfg, errors.New("MAX_TEXT_RUNES and MAX_REPLY_RUNES must be >= 1")
	}
	switch cfg.Storage.Backend {
	case StorageLocal:
		if strings.TrimSpace(cfg.Storage.UploadDir) == "" {
			return cfg, errors.New("UPLOAD_DIR must not be empty")
		}
	case StorageGCS:
		if strings.TrimSpace(cfg.Storage.GCSBucket) == "" {
			return cfg, errors.New("GCS_BUCKET is required when STORAGE_BACKEND=gcs")
		}
	default:
		return cfg, errors.New("STORAGE_BACKEND must be one of: local, gcs")
	}
	if cfg.Storage.MaxUploadBytes <= 0 {
		return cfg, errors.New("MAX_UPLOAD_BYTES must be > 0")
	}
	if cfg.AI.Timeout <= 0 {
		return cfg, errors.New("AI_TIMEOUT must be > 0")
	}
	if cfg.AI.MaxEvidencePages < 1 {
		return cfg, errors.New("AI_MAX_PAGES must be >= 1")
	}
	if cfg.AI.EvidenceBudget < 0 {
		return cfg, errors.New("AI_EVIDENCE_RUNES must be >= 0")
	}
	if len(cfg.Auth.JWTSecret) < 32 {
		return cfg, errors.New("JWT_SECRET must be at least 32 bytes")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return cfg, errors.New("TOKEN_TTL must be > 0")
	}
	if (cfg.Auth.AdminEmail == "") != (cfg.Auth.AdminPassword == "") {
		return cfg, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
