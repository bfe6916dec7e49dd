// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the request ID injector, a panic-safe recovery handler
// and access to the request-scoped logger attached by RedactingLogger.
// Recommended order: RequestID, RedactingLogger, Recovery, so panics and
// errors carry the correlation ID.
package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// requestIDKey is the Gin context key under which the request ID is stored.
	requestIDKey = "requestID"
	// requestIDHeader is the HTTP header used to propagate the correlation ID.
	requestIDHeader = "X-Request-ID"
	// loggerKey holds the request-scoped *zerolog.Logger.
	loggerKey = "logger"
	// maxQueryLogLength caps the number of bytes of the raw query string logged.
	maxQueryLogLength = 2048
	// maxRequestIDLength bounds client-supplied correlation IDs.
	maxRequestIDLength = 128
)

// RequestID reuses the caller's X-Request-ID when it is short enough,
// otherwise it generates a UUIDv7 so IDs sort by arrival in logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" || len(rid) > maxRequestIDLength {
			if id, err := uuid.NewV7(); err == nil {
				rid = id.String()
			} else {
				rid = uuid.NewString()
			}
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// RequestIDFrom returns the correlation ID for c, or "".
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Recovery converts panics into the standard JSON 500 envelope and logs the
// stack trace with the request ID.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				rid := RequestIDFrom(c)
				LoggerFrom(c).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", rid).
					Msg("panic recovered")

				if !c.Writer.Written() {
					c.Header(requestIDHeader, rid)
					abortJSON(c, http.StatusInternalServerError, "internal_error", "internal server error")
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, falling back to the global
// logger when none was attached. The result is never nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// asString converts an arbitrary interface to a string, returning an empty
// string when the value is not a string. Used for context values.
func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// truncate caps s at max bytes and appends an ellipsis. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
