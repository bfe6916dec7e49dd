// Assistant chat HTTP handlers.
//
// This file exposes REST endpoints for the AI legal assistant's chats:
//   - POST /assistant/chats               (create)
//   - GET  /assistant/chats               (list, paginated, ETag support)
//   - PUT  /assistant/chats/{id}/title    (rename)
//
// Chats are private to the account that created them.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/utils"
)

// CreateChatRequest is the JSON payload for creating a chat.
type CreateChatRequest struct {
	// Title optionally sets the chat title; a default is used when empty.
	Title string `json:"title" example:"Tenancy deposit dispute"`
}

// UpdateChatTitleRequest is the JSON payload for updating a chat title.
type UpdateChatTitleRequest struct {
	// Title is the new chat name (1-255 chars).
	Title string `json:"title" binding:"required,min=1,max=255" example:"Deposit withheld by landlord"`
}

// ListChatsResponse wraps a page of chats and pagination information.
type ListChatsResponse struct {
	Chats      []domain.AssistantChat `json:"chats"`
	Pagination Pagination             `json:"pagination"`
}

// CreateChat godoc
// @ID          createChat
// @Summary     Create an assistant chat
// @Tags        Assistant
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  handlers.CreateChatRequest  false  "Create chat payload"
// @Success     201  {object}  domain.AssistantChat
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /assistant/chats [post]
func (h *Handlers) CreateChat(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	var req CreateChatRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}

	ch, err := h.chats.Create(c.Request.Context(), a.ID, strings.TrimSpace(req.Title))
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, ch)
}

// ListChats godoc
// @ID          listChats
// @Summary     List assistant chats (paginated)
// @Description Most recently active first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Assistant
// @Produce     json
// @Security    BearerAuth
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       page           query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListChatsResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /assistant/chats [get]
func (h *Handlers) ListChats(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	ctx := c.Request.Context()
	page, pageSize := pageParams(c)

	// ETag pre-check (best effort).
	if count, newest, err := h.chats.Stats(ctx, a.ID); err == nil {
		if notModified(c, utils.WeakETag("chats", a.ID, count, newest)) {
			return
		}
	}

	items, total, err := h.chats.ListPage(ctx, a.ID, page, pageSize)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListChatsResponse{
		Chats:      items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// UpdateChatTitle godoc
// @ID          updateChatTitle
// @Summary     Rename an assistant chat
// @Tags        Assistant
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string                           true  "Chat ID"  format(uuid)
// @Param       body  body  handlers.UpdateChatTitleRequest  true  "New title"
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Chat not found"
// @Router      /assistant/chats/{id}/title [put]
func (h *Handlers) UpdateChatTitle(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	var req UpdateChatTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1-255 chars)")
		return
	}
	if err := h.chats.UpdateTitle(c.Request.Context(), a.ID, c.Param("id"), req.Title); err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}
