// Assistant message HTTP handlers.
//
// This file exposes REST endpoints for assistant chat messages:
//   - POST /assistant/chats/{id}/messages  (ask; JSON or multipart with a document)
//   - GET  /assistant/chats/{id}/messages  (list paginated messages)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous answer
// exists for (user, chat, key), the handler returns that assistant message
// and sets `Idempotency-Replayed: true`. Degraded answers are not remembered
// so a retry asks the model again.
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/services"
	"github.com/vishnudev3154/Judex-AI/internal/utils"
)

// PostMessageRequest is the JSON payload for a text-only prompt.
type PostMessageRequest struct {
	// Content is the user prompt. It must be non-empty.
	Content string `json:"content" binding:"required,min=1" example:"Can my landlord keep the deposit for normal wear and tear?"`
}

// PostMessageResponse is the JSON envelope for a newly created assistant message.
type PostMessageResponse struct {
	// Message is the assistant reply created as a result of the request.
	Message *domain.AssistantMessage `json:"message"`
}

// ListMessagesResponse contains a page of chat messages and pagination metadata.
type ListMessagesResponse struct {
	Messages   []domain.AssistantMessage `json:"messages"`
	Pagination Pagination                `json:"pagination"`
}

// PostMessage godoc
// @ID          postMessage
// @Summary     Ask the legal assistant
// @Description Appends the prompt and the assistant's reply to the chat. A multipart request may attach
// @Description a document (PDF, image or text); for clients an analyzed upload is also filed as a case.
// @Description Supports idempotency via the Idempotency-Key header (same key, same result).
// @Tags        Assistant
// @Accept      json,mpfd
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key  header    string                       false  "Idempotency key for safe retries"
// @Param       id               path      string                       true   "Chat ID"  format(uuid)
// @Param       body             body      handlers.PostMessageRequest  false  "Prompt (JSON form)"
// @Param       content          formData  string                       false  "Prompt (multipart form)"
// @Param       file             formData  file                         false  "Document to analyze"
// @Success     200  {object}  handlers.PostMessageResponse  "Assistant reply"
// @Failure     400  {object}  handlers.ErrorResponse        "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse        "Chat not found"
// @Failure     413  {object}  handlers.ErrorResponse        "File too large"
// @Router      /assistant/chats/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	ctx := c.Request.Context()
	chatID := c.Param("id")

	var content string
	multipart := strings.HasPrefix(c.ContentType(), "multipart/")
	if multipart {
		content = c.PostForm("content")
	} else {
		var req PostMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
			return
		}
		content = req.Content
	}

	// Sanitize + early size cap to fail fast at the edge.
	content = sanitizeContent(content)
	if h.maxPromptRunes > 0 && utf8.RuneCountInString(content) > h.maxPromptRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("content too long: max %d runes", h.maxPromptRunes))
		return
	}

	var upload *services.Upload
	if multipart {
		u, err := h.readUpload(c, "file")
		if err != nil {
			failUpload(c, err)
			return
		}
		upload = u
	}
	if content == "" && upload == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	key, scope, idem := h.idemRequest(c)
	if idem {
		if msgID, hit := h.idem.Lookup(ctx, a.ID, scope, key); hit {
			if prev, err := h.asst.Message(ctx, a.ID, msgID); err == nil {
				markReplayed(c)
				ok(c, http.StatusOK, PostMessageResponse{Message: prev})
				return
			}
		}
	}

	m, err := h.asst.Answer(ctx, a, chatID, content, upload)
	if err != nil {
		failErr(c, err, ErrCodeAnswerFailed)
		return
	}
	if idem && !m.Degraded {
		h.idem.Remember(ctx, a.ID, scope, key, m.ID, http.StatusOK)
	}
	ok(c, http.StatusOK, PostMessageResponse{Message: m})
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List messages in an assistant chat
// @Description Returns a paginated list of messages, oldest first. Supports weak ETag via If-None-Match.
// @Tags        Assistant
// @Produce     json
// @Security    BearerAuth
// @Param       id         path   string  true   "Chat ID"         format(uuid)
// @Param       page       query  int     false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListMessagesResponse
// @Success     304  {string}  string  "Not Modified"
// @Failure     404  {object}  handlers.ErrorResponse  "Chat not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /assistant/chats/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	ctx := c.Request.Context()
	chatID := c.Param("id")

	count, newest, err := h.asst.Stats(ctx, a.ID, chatID)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	if notModified(c, utils.WeakETag("messages", chatID, count, newest)) {
		return
	}

	page, pageSize := pageParams(c)
	items, total, err := h.asst.ListPage(ctx, a.ID, chatID, page, pageSize)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListMessagesResponse{
		Messages:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}
