// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders, a hardening middleware for a JSON API
// that also streams uploaded legal documents back to their owners. It sets
// conservative browser headers, optional HSTS and no-store caching.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures SecurityHeaders.
//
// EnableHSTS emits Strict-Transport-Security for HTTPS requests only; enable
// it only when traffic is HTTPS end-to-end. HSTSMaxAge defaults to 180 days.
// NoStore forbids caching of responses, which matters for case documents.
// EnablePolicy adds Permissions-Policy and X-Permitted-Cross-Domain-Policies.
// CSPExempt lists path prefixes that serve HTML (the Swagger UI) and so skip
// the sandboxing Content-Security-Policy.
type SecurityOptions struct {
	EnableHSTS   bool
	HSTSMaxAge   time.Duration
	NoStore      bool
	EnablePolicy bool
	CSPExempt    []string
}

const defaultHSTSMaxAge = 180 * 24 * time.Hour

// SecurityHeaders always sets nosniff, frame denial, no-referrer and a
// sandboxing CSP (downloads must never execute as pages); the rest follows
// opt. X-Request-ID is exposed to browser clients when present.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	hsts := "max-age=" + strconv.Itoa(int(maxAge.Seconds())) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		if !hasAnyPrefix(c.Request.URL.Path, opt.CSPExempt) {
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; sandbox")
		}

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}
		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		if rid := h.Get(requestIDHeader); rid != "" {
			exposeHeader(h, requestIDHeader)
		}

		c.Next()
	}
}

// exposeHeader appends name to Access-Control-Expose-Headers once.
func exposeHeader(h http.Header, name string) {
	const hdr = "Access-Control-Expose-Headers"
	cur := h.Get(hdr)
	switch {
	case cur == "":
		h.Set(hdr, name)
	case !strings.Contains(strings.ToLower(cur), strings.ToLower(name)):
		h.Set(hdr, cur+", "+name)
	}
}

// isHTTPS reports whether the request arrived over TLS, directly or via a
// proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func hasAnyPrefix(p string, prefixes []string) bool {
	for _, pre := range prefixes {
		if pre != "" && strings.HasPrefix(p, pre) {
			return true
		}
	}
	return false
}
