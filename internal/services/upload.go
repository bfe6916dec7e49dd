package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/extract"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
	"github.com/vishnudev3154/Judex-AI/internal/storage"
)

// Upload is a file received from a client. Handlers read the multipart part
// into Data (bounded by the configured upload limit).
type Upload struct {
	Name string
	MIME string
	Data []byte
}

// detect fills MIME from the name and content when the client did not.
func (u *Upload) detect() {
	if u.MIME == "" || u.MIME == "application/octet-stream" {
		u.MIME = extract.DetectMIME(u.Name, u.Data)
	}
}

// storeUpload writes u to the store and returns the attachment columns.
// A nil upload yields an empty attachment.
func storeUpload(ctx context.Context, store storage.Store, cat storage.Category, u *Upload) (domain.Attachment, error) {
	if u == nil || len(u.Data) == 0 {
		return domain.Attachment{}, nil
	}
	if store == nil {
		return domain.Attachment{}, errors.New("no document store configured")
	}
	u.detect()
	key := storage.NewKey(cat, u.Name)
	if err := store.Put(ctx, key, u.MIME, bytes.NewReader(u.Data)); err != nil {
		return domain.Attachment{}, fmt.Errorf("store upload: %w", err)
	}
	return domain.Attachment{Key: key, Name: u.Name, MIME: u.MIME}, nil
}

// openAttachment opens a stored attachment.
func openAttachment(ctx context.Context, store storage.Store, a domain.Attachment) (io.ReadCloser, error) {
	if !a.Present() || store == nil {
		return nil, ErrFileNotFound
	}
	rc, err := store.Open(ctx, a.Key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrFileNotFound
	}
	return rc, err
}

// loadRepresentation fetches a representation and maps a missing row.
func loadRepresentation(ctx context.Context, db *gorm.DB, id string) (*domain.Representation, error) {
	rep, err := repo.GetRepresentation(ctx, db, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrRepresentationNotFound
	}
	return rep, err
}

// loadAsParty fetches a representation the actor is the client or lawyer of.
func loadAsParty(ctx context.Context, db *gorm.DB, actor *domain.Account, id string) (*domain.Representation, error) {
	rep, err := loadRepresentation(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || !rep.IsParty(actor.ID) {
		return nil, ErrUnauthorized
	}
	return rep, nil
}

// loadAsLawyer fetches a representation the actor is the lawyer of.
func loadAsLawyer(ctx context.Context, db *gorm.DB, actor *domain.Account, id string) (*domain.Representation, error) {
	rep, err := loadRepresentation(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || !rep.IsLawyer(actor.ID) {
		return nil, ErrUnauthorized
	}
	return rep, nil
}

// pageBounds applies the pagination defaults used by every list endpoint.
func pageBounds(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return (page - 1) * pageSize, pageSize
}
