package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// withSecret sets the one variable that has no usable default.
func withSecret(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
}

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	withSecret(t)
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestMustLoad_PanicsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic without JWT_SECRET")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	withSecret(t)
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"

	// App
	t.Setenv("DB_PATH", "db.sqlite")
	t.Setenv("MAX_TEXT_RUNES", "500")

	// Storage
	t.Setenv("STORAGE_BACKEND", "GCS")
	t.Setenv("GCS_BUCKET", "judex-docs")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")

	// AI
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("GEMINI_MODEL", "gemini-test")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("AI_MAX_PAGES", "3")

	// Auth
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("ADMIN_EMAIL", "root@judex.test")
	t.Setenv("ADMIN_PASSWORD", "supersecret")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 5.0
	t.Setenv("RATE_BURST", "nope") // -> default 10

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// Idempotency
	t.Setenv("IDEMPOTENCY_TTL", "48h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}

	// App
	if cfg.DBPath != "db.sqlite" || cfg.MaxTextRunes != 500 || cfg.MaxReplyRunes != 20000 {
		t.Fatalf("app fields unexpected: %+v", cfg)
	}
	if cfg.Storage.Backend != StorageGCS || cfg.Storage.GCSBucket != "judex-docs" || cfg.Storage.MaxUploadBytes != 2048 {
		t.Fatalf("storage unexpected: %+v", cfg.Storage)
	}
	if !cfg.AI.Enabled() || cfg.AI.Model != "gemini-test" || cfg.AI.Timeout != 5*time.Second || cfg.AI.MaxEvidencePages != 3 || cfg.AI.EvidenceBudget != 12000 {
		t.Fatalf("ai unexpected: %+v", cfg.AI)
	}
	if cfg.Auth.TokenTTL != time.Hour || cfg.Auth.AdminEmail != "root@judex.test" {
		t.Fatalf("auth unexpected: %+v", cfg.Auth)
	}

	// Rate limiting (parse fallback to defaults)
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}

	if cfg.IdempotencyTTL != 48*time.Hour {
		t.Fatalf("idempotency ttl unexpected: %v", cfg.IdempotencyTTL)
	}

	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"invalid LOG_LEVEL", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"empty PORT via spaces", map[string]string{"PORT": "   "}, "PORT must not be empty"},
		{"non-positive timeouts", map[string]string{"READ_TIMEOUT": "0s"}, "timeouts must be positive"},
		{"max header bytes <= 0", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES"},
		{"empty DB_PATH", map[string]string{"DB_PATH": "   "}, "DB_PATH must not be empty"},
		{"text cap", map[string]string{"MAX_TEXT_RUNES": "0"}, "MAX_TEXT_RUNES"},
		{"unknown backend", map[string]string{"STORAGE_BACKEND": "s3"}, "STORAGE_BACKEND"},
		{"gcs without bucket", map[string]string{"STORAGE_BACKEND": "gcs"}, "GCS_BUCKET"},
		{"empty upload dir", map[string]string{"UPLOAD_DIR": "  "}, "UPLOAD_DIR"},
		{"upload bytes", map[string]string{"MAX_UPLOAD_BYTES": "-1"}, "MAX_UPLOAD_BYTES"},
		{"ai timeout", map[string]string{"AI_TIMEOUT": "0s"}, "AI_TIMEOUT"},
		{"ai pages", map[string]string{"AI_MAX_PAGES": "0"}, "AI_MAX_PAGES"},
		{"evidence budget", map[string]string{"AI_EVIDENCE_RUNES": "-5"}, "AI_EVIDENCE_RUNES"},
		{"short secret", map[string]string{"JWT_SECRET": "short"}, "JWT_SECRET"},
		{"token ttl", map[string]string{"TOKEN_TTL": "0s"}, "TOKEN_TTL"},
		{"admin half set", map[string]string{"ADMIN_EMAIL": "a@b.c"}, "ADMIN_EMAIL"},
		{"rate rps negative", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"rate burst < 1", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"hsts max age negative", map[string]string{"HSTS_MAX_AGE": "-1s"}, "HSTS_MAX_AGE"},
		{"idempotency ttl non-positive", map[string]string{"IDEMPOTENCY_TTL": "0s"}, "IDEMPOTENCY_TTL"},
		{"otel sample ratio out of range", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			withSecret(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); !containsErr(err, tc.want) {
				t.Fatalf("expected %s validation error, got: %v", tc.want, err)
			}
		})
	}
}

// --- helpers ---

func TestHelpers_getenv(t *testing.T) {
	t.Setenv("X_EMPTY", "")
	if getenv("X_EMPTY", "d") != "d" {
		t.Fatalf("getenv should fall back to default on empty var")
	}
	t.Setenv("X_SET", "val")
	if getenv("X_SET", "d") != "val" {
		t.Fatalf("getenv should read set value")
	}
}

func TestHelpers_getfloat_getint_getdur(t *testing.T) {
	t.Setenv("F_VALID", "3.14")
	if getfloat("F_VALID", 0) != 3.14 {
		t.Fatalf("getfloat parse failed")
	}
	t.Setenv("F_BAD", "nope")
	if getfloat("F_BAD", 1.23) != 1.23 {
		t.Fatalf("getfloat default on bad parse failed")
	}

	t.Setenv("I_VALID", "42")
	if getint("I_VALID", 0) != 42 {
		t.Fatalf("getint parse failed")
	}
	t.Setenv("I_BAD", "x")
	if getint("I_BAD", 7) != 7 {
		t.Fatalf("getint default on bad parse failed")
	}

	t.Setenv("D_VALID", "150ms")
	if getdur("D_VALID", time.Second) != 150*time.Millisecond {
		t.Fatalf("getdur parse failed")
	}
	t.Setenv("D_BAD", "zzz")
	if getdur("D_BAD", 2*time.Second) != 2*time.Second {
		t.Fatalf("getdur default on bad parse failed")
	}
}

func TestHelpers_getbool(t *testing.T) {
	trueVals := []string{"1", "true", "TRUE", " yes ", "Y", "on", "On"}
	for i, v := range trueVals {
		k := "B_T_" + envSuffix(i)
		t.Setenv(k, v)
		if !getbool(k, false) {
			t.Fatalf("getbool(%q) = false; want true", v)
		}
	}
	falseVals := []string{"0", "false", "FALSE", " no ", "N", "off", "Off"}
	for i, v := range falseVals {
		k := "B_F_" + envSuffix(i)
		t.Setenv(k, v)
		if getbool(k, true) {
			t.Fatalf("getbool(%q) = true; want false", v)
		}
	}
	t.Setenv("B_EMPTY", "")
	if !getbool("B_EMPTY", true) || getbool("B_EMPTY", false) {
		t.Fatalf("getbool default behavior unexpected")
	}
}

func TestHelpers_splitCSV_and_normalizeBasePath(t *testing.T) {
	if out := splitCSV(""); out != nil {
		t.Fatalf("splitCSV empty should return nil")
	}
	in := " a, ,b ,  c  ,"
	want := []string{"a", "b", "c"}
	if got := splitCSV(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV mismatch: got %#v want %#v", got, want)
	}

	if normalizeBasePath("") != "/" {
		t.Fatalf("normalizeBasePath empty -> '/' failed")
	}
	if normalizeBasePath("v1") != "/v1" {
		t.Fatalf("normalizeBasePath missing leading slash failed")
	}
	if normalizeBasePath("/v1/") != "/v1" {
		t.Fatalf("normalizeBasePath trailing slash trim failed")
	}
	if normalizeBasePath(" / ") != "/" {
		t.Fatalf("normalizeBasePath whitespace failed")
	}
}

func envSuffix(i int) string { return string('a' + rune(i)) }

func TestMain(m *testing.M) {
	os.Unsetenv("PORT")
	os.Unsetenv("GEMINI_API_KEY")
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}

func TestLoad_Defaults(t *testing.T) {
	withSecret(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("API_BASE_PATH default expected '/api/v1', got %q", cfg.APIBasePath)
	}
	if cfg.Storage.Backend != StorageLocal || cfg.Storage.UploadDir != "uploads" {
		t.Fatalf("storage defaults unexpected: %+v", cfg.Storage)
	}
	if cfg.AI.Enabled() || cfg.AI.MaxEvidencePages != 5 {
		t.Fatalf("ai defaults unexpected: %+v", cfg.AI)
	}
	if cfg.Auth.AdminEmail != "" || cfg.Auth.TokenTTL != 12*time.Hour {
		t.Fatalf("auth defaults unexpected: %+v", cfg.Auth)
	}
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	withSecret(t)
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.APIBasePath == "" {
		t.Fatalf("unexpected empty config from MustLoad")
	}
}
