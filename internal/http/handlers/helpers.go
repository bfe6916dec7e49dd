package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/http/middleware"
	"github.com/vishnudev3154/Judex-AI/internal/services"
	"github.com/vishnudev3154/Judex-AI/internal/utils"
)

const defaultMaxUploadBytes = 10 << 20

var errUploadTooLarge = errors.New("upload too large")

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// pageParams reads page and page_size from the query.
func pageParams(c *gin.Context) (page, pageSize int) {
	return utils.ClampPage(c.Query("page"), c.Query("page_size"))
}

// actor returns the authenticated account or writes a 401.
func actor(c *gin.Context) (*domain.Account, bool) {
	a, found := middleware.CurrentAccount(c)
	if !found {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return nil, false
	}
	return a, true
}

// notModified sets etag and answers 304 when the client already has it.
func notModified(c *gin.Context, etag string) bool {
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent normalizes user text: CRLF and CR become LF, runs of three
// or more newlines collapse to two, and surrounding space is trimmed.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// readUpload reads the multipart file in field. A request without the field,
// or one that is not multipart at all, yields (nil, nil).
func (h *Handlers) readUpload(c *gin.Context, field string) (*services.Upload, error) {
	fh, err := c.FormFile(field)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, nil
	case err != nil:
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, errUploadTooLarge
		}
		return nil, err
	}
	if fh.Size > h.maxUpload {
		return nil, errUploadTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > h.maxUpload {
		return nil, errUploadTooLarge
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &services.Upload{
		Name: filepath.Base(fh.Filename),
		MIME: fh.Header.Get("Content-Type"),
		Data: data,
	}, nil
}

// failUpload renders a readUpload error.
func failUpload(c *gin.Context, err error) {
	if errors.Is(err, errUploadTooLarge) {
		failErr(c, err, ErrCodeBadRequest)
		return
	}
	fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid multipart body")
}

// serveAttachment streams a stored file as a download and closes rc.
func serveAttachment(c *gin.Context, rc io.ReadCloser, att domain.Attachment) {
	defer rc.Close()

	name := att.Name
	if name == "" {
		name = "document"
	}
	ct := att.MIME
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, ct, rc, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": name}),
	})
}
