// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"fmt"
	"strconv"
	"time"
)

// Pagination bounds shared by every paginated listing.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampPage parses raw page and page_size values and bounds them to
// [1, ∞) and [1, MaxPageSize].
func ClampPage(rawPage, rawSize string) (page, size int) {
	page = AtoiDefault(rawPage, DefaultPage)
	if page < 1 {
		page = 1
	}
	size = AtoiDefault(rawSize, DefaultPageSize)
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// WeakETag renders a weak validator from a collection's row count and the
// newest timestamp in it. A nil timestamp renders as 0.
func WeakETag(scope, id string, count int64, newest *time.Time) string {
	var ts int64
	if newest != nil {
		ts = newest.UnixNano()
	}
	return fmt.Sprintf(`W/"%s:%s:%d:%d"`, scope, id, count, ts)
}
