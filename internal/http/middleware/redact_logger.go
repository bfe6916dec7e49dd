// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the access logger. Legal matters put
// client names, emails and phone numbers in places they should never be, so
// request metadata is scrubbed before it reaches the log:
//   - bodies are never logged
//   - UUIDs, emails, phone numbers and case numbers in the query and headers
//     are replaced with tags
//   - Authorization, Cookie, Set-Cookie and configured headers are masked
//
// It also attaches the request-scoped logger returned by LoggerFrom.
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RedactOptions configures additional scrub behavior for RedactingLogger.
// MaskHeaders are fully replaced with "[REDACTED]" (case-insensitive).
type RedactOptions struct {
	MaskHeaders []string
}

// UUIDs go before phone numbers: the phone pattern would otherwise match the
// digit runs inside a UUID.
var (
	uuidRE       = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-8][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	caseNumberRE = regexp.MustCompile(`\bCN-\d{4}-\d{6}\b`)
	emailRE      = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phoneRE      = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// Redact scrubs identifiers from s.
func Redact(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = caseNumberRE.ReplaceAllString(s, "[REDACTED:case]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

// RedactingLogger logs one line per request at info, warn (4xx) or error
// (5xx or recorded gin errors) level.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	maskHeaders := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		rid, _ := c.Get(requestIDKey)
		if asString(rid) == "" {
			rid = c.GetHeader(requestIDHeader)
		}

		reqLog := log.With().
			Str("request_id", asString(rid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		c.Set(loggerKey, &reqLog)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = Redact(strings.Join(vv, ", "))
		}
		safeQuery := Redact(truncate(c.Request.URL.RawQuery, maxQueryLogLength))

		c.Next()

		status := c.Writer.Status()
		ev := reqLog.Info()
		switch {
		case len(c.Errors) > 0 || status >= 500:
			ev = reqLog.Error()
			if len(c.Errors) > 0 {
				ev = ev.Str("errors", Redact(c.Errors.String()))
			}
		case status >= 400:
			ev = reqLog.Warn()
		}
		if role := accountRole(c); role != "" {
			ev = ev.Str("role", role)
		}

		ev.
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Int64("bytes_in", c.Request.ContentLength).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}

// accountRole returns the authenticated caller's role, or "".
func accountRole(c *gin.Context) string {
	if a, ok := CurrentAccount(c); ok {
		return string(a.Role)
	}
	return ""
}
