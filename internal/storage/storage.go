// Package storage persists uploaded documents (case files, chat attachments,
// court evidence) and hands back opaque keys that are stored on the rows.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Category groups keys by what the upload belongs to.
type Category string

const (
	CategoryCase      Category = "cases"
	CategoryChat      Category = "chat"
	CategoryAssistant Category = "assistant"
)

var (
	// ErrNotFound is returned by Open for unknown keys.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidKey is returned for keys that were not produced by NewKey.
	ErrInvalidKey = errors.New("invalid object key")
)

// Store is the document store used by the services.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewKey builds "<category>/<uuid><ext>" keeping only the file extension of
// the client-supplied name.
func NewKey(cat Category, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return path.Join(string(cat), uuid.NewString()+ext)
}

// validKey rejects absolute paths, traversal and empty keys.
func validKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

// ReadAll opens key and reads it fully, up to limit bytes (limit <= 0 means
// unlimited).
func ReadAll(ctx context.Context, s Store, key string, limit int64) ([]byte, error) {
	rc, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var r io.Reader = rc
	if limit > 0 {
		r = io.LimitReader(rc, limit)
	}
	return io.ReadAll(r)
}
