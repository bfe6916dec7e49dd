// Feedback HTTP handlers.
//
// This file exposes the REST endpoint for submitting feedback on assistant
// messages:
//   - POST /assistant/messages/{id}/feedback  (create feedback)
//
// Feedback values are constrained to {-1, +1} to represent negative/positive
// reactions respectively.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LeaveFeedbackRequest is the JSON payload for creating feedback on a message.
//
// Value must be one of:
//   - +1 : positive feedback
//   - -1 : negative feedback
type LeaveFeedbackRequest struct {
	// Value is the feedback signal: +1 (positive) or -1 (negative).
	Value int `json:"value" binding:"required,oneof=-1 1" example:"1"`
}

// LeaveFeedback godoc
// @ID          leaveFeedback
// @Summary     Leave feedback on an assistant reply
// @Description Records positive (+1) or negative (-1) feedback, once per user and message.
// @Tags        Assistant
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string                         true  "Message ID"  format(uuid)
// @Param       body  body  handlers.LeaveFeedbackRequest  true  "Feedback payload"
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid payload"
// @Failure     403  {object}  handlers.ErrorResponse  "Not allowed to leave feedback"
// @Failure     404  {object}  handlers.ErrorResponse  "Message not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Feedback already exists"
// @Router      /assistant/messages/{id}/feedback [post]
func (h *Handlers) LeaveFeedback(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	var req LeaveFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "value must be -1 or 1")
		return
	}
	if err := h.fb.Leave(c.Request.Context(), a.ID, c.Param("id"), req.Value); err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}
