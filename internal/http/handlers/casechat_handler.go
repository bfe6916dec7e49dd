// Case chat HTTP handlers.
//
// This file exposes the conversation between a client and their lawyer:
//   - GET  /representations/{id}/chat/messages                      (paginated, ETag)
//   - POST /representations/{id}/chat/messages                      (JSON or multipart)
//   - GET  /representations/{id}/chat/messages/{messageID}/file
//
// Only the two parties of the representation may read or post.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/utils"
)

// PostCaseChatRequest is the JSON form of a text-only chat message.
type PostCaseChatRequest struct {
	Text string `json:"text" example:"I have uploaded the rental agreement."`
}

// ListCaseChatResponse contains a page of case chat messages.
type ListCaseChatResponse struct {
	Messages   []domain.CaseChatMessage `json:"messages"`
	Pagination Pagination               `json:"pagination"`
}

// ListCaseChat godoc
// @ID          listCaseChat
// @Summary     List case chat messages
// @Description Oldest first. Responses carry a weak ETag; send it back in If-None-Match to get 304.
// @Tags        CaseChat
// @Produce     json
// @Security    BearerAuth
// @Param       id         path   string  true   "Representation ID"  format(uuid)
// @Param       page       query  int     false  "Page number"        minimum(1) default(1)
// @Param       page_size  query  int     false  "Items per page"     minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListCaseChatResponse
// @Success     304  {string}  string  "Not Modified"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a party"
// @Failure     404  {object}  handlers.ErrorResponse  "Representation not found"
// @Router      /representations/{id}/chat/messages [get]
func (h *Handlers) ListCaseChat(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	ctx := c.Request.Context()
	repID := c.Param("id")
	page, pageSize := pageParams(c)

	count, newest, err := h.caseChat.Stats(ctx, a, repID)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	if notModified(c, utils.WeakETag("casechat", repID, count, newest)) {
		return
	}

	items, total, err := h.caseChat.HistoryPage(ctx, a, repID, page, pageSize)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListCaseChatResponse{
		Messages:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// PostCaseChat godoc
// @ID          postCaseChat
// @Summary     Post a case chat message
// @Description Accepts JSON {"text": "..."} or multipart with a text field and an optional file.
// @Description A message needs text, a file, or both.
// @Tags        CaseChat
// @Accept      json,mpfd
// @Produce     json
// @Security    BearerAuth
// @Param       id    path      string  true   "Representation ID"  format(uuid)
// @Param       text  formData  string  false  "Message text"
// @Param       file  formData  file    false  "Attachment"
// @Success     201  {object}  domain.CaseChatMessage
// @Failure     400  {object}  handlers.ErrorResponse  "Empty message"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a party"
// @Failure     413  {object}  handlers.ErrorResponse  "File too large"
// @Router      /representations/{id}/chat/messages [post]
func (h *Handlers) PostCaseChat(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}

	var text string
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		text = c.PostForm("text")
	} else {
		var req PostCaseChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
		text = req.Text
	}
	text = sanitizeContent(text)

	file, err := h.readUpload(c, "file")
	if err != nil {
		failUpload(c, err)
		return
	}

	m, err := h.caseChat.Post(c.Request.Context(), a, c.Param("id"), text, file)
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, m)
}

// CaseChatFile godoc
// @ID          caseChatFile
// @Summary     Download a case chat attachment
// @Tags        CaseChat
// @Produce     octet-stream
// @Security    BearerAuth
// @Param       id         path  string  true  "Representation ID"  format(uuid)
// @Param       messageID  path  string  true  "Message ID"         format(uuid)
// @Success     200  {file}    file
// @Failure     403  {object}  handlers.ErrorResponse  "Not a party"
// @Failure     404  {object}  handlers.ErrorResponse  "File not found"
// @Router      /representations/{id}/chat/messages/{messageID}/file [get]
func (h *Handlers) CaseChatFile(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	rc, att, err := h.caseChat.OpenFile(c.Request.Context(), a, c.Param("id"), c.Param("messageID"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	serveAttachment(c, rc, att)
}
