// Virtual court HTTP handlers.
//
// This file exposes the lawyer's practice court for a representation:
//   - GET  /representations/{id}/court                 (session and log)
//   - POST /representations/{id}/court/initialize      (multipart; resets the debate)
//   - POST /representations/{id}/court/load-from-chat  (seed from a forwarded case)
//   - POST /representations/{id}/court/arguments       (one judged turn)
//   - POST /representations/{id}/court/transcript      (post the transcript to the chat)
//
// Idempotency:
// A recorded turn is remembered under the caller's Idempotency-Key, so a
// client retrying after a timeout gets the same turn back with
// `Idempotency-Replayed: true` instead of arguing twice. The court service
// checks and records the key under the session lock, so a retry that arrives
// while the first call is still being judged waits for it and replays.
// Fallback judgments record nothing and are therefore never remembered.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vishnudev3154/Judex-AI/internal/services"
)

// ArgumentRequest is one prosecution argument.
type ArgumentRequest struct {
	Argument string `json:"argument" binding:"required" example:"The defendant was seen leaving the shop with the unpaid goods."`
}

// GetCourt godoc
// @ID          getCourt
// @Summary     Get the virtual court
// @Description Creates the session on first access, seeded from the representation.
// @Tags        Court
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Representation ID"  format(uuid)
// @Success     200  {object}  services.CourtState
// @Failure     403  {object}  handlers.ErrorResponse  "Not a party"
// @Failure     404  {object}  handlers.ErrorResponse  "Representation not found"
// @Router      /representations/{id}/court [get]
func (h *Handlers) GetCourt(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	st, err := h.court.GetOrCreate(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, st)
}

// InitializeCourt godoc
// @ID          initializeCourt
// @Summary     Reset the court with new facts
// @Description Clears the debate log and resets the score. Blank fields keep their current values;
// @Description an evidence PDF replaces the evidence text.
// @Tags        Court
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id           path      string  true   "Representation ID"  format(uuid)
// @Param       title        formData  string  false  "Case title"
// @Param       description  formData  string  false  "Case facts"
// @Param       evidence     formData  file    false  "Evidence document"
// @Success     200  {object}  services.CourtState
// @Failure     403  {object}  handlers.ErrorResponse  "Not the lawyer"
// @Router      /representations/{id}/court/initialize [post]
func (h *Handlers) InitializeCourt(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	doc, err := h.readUpload(c, "evidence")
	if err != nil {
		failUpload(c, err)
		return
	}
	st, err := h.court.Initialize(c.Request.Context(), a, c.Param("id"),
		c.PostForm("title"), sanitizeContent(c.PostForm("description")), doc)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, st)
}

// LoadCourtFromChat godoc
// @ID          loadCourtFromChat
// @Summary     Load the latest forwarded case into the court
// @Tags        Court
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Representation ID"  format(uuid)
// @Success     200  {object}  services.CourtState
// @Failure     403  {object}  handlers.ErrorResponse  "Not the lawyer"
// @Failure     404  {object}  handlers.ErrorResponse  "No forwarded case"
// @Router      /representations/{id}/court/load-from-chat [post]
func (h *Handlers) LoadCourtFromChat(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	st, err := h.court.LoadFromChat(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, st)
}

// SubmitArgument godoc
// @ID          submitArgument
// @Summary     Argue one turn
// @Description The AI defense answers and the judge rules; a scored turn moves the conviction score.
// @Description When the model is unavailable the response is a Mistrial with fallback=true and nothing is recorded.
// @Description Supports idempotency via the Idempotency-Key header.
// @Tags        Court
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key  header  string                    false  "Idempotency key for safe retries"
// @Param       id               path    string                    true   "Representation ID"  format(uuid)
// @Param       body             body    handlers.ArgumentRequest  true   "Prosecution argument"
// @Success     200  {object}  services.ArgumentResult
// @Failure     400  {object}  handlers.ErrorResponse  "Empty argument"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the lawyer"
// @Router      /representations/{id}/court/arguments [post]
func (h *Handlers) SubmitArgument(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	ctx := c.Request.Context()
	repID := c.Param("id")

	var req ArgumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeEmptyArgument, "argument required")
		return
	}

	var retry services.RetryKey
	if key, scope, idem := h.idemRequest(c); idem {
		retry = services.RetryKey{Scope: scope, Key: key}
	}

	res, err := h.court.SubmitArgument(ctx, a, repID, sanitizeContent(req.Argument), retry)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	if res.Replayed {
		markReplayed(c)
	}
	ok(c, http.StatusOK, res)
}

// CompileTranscript godoc
// @ID          compileTranscript
// @Summary     Post the court transcript to the case chat
// @Tags        Court
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Representation ID"  format(uuid)
// @Success     201  {object}  domain.CaseChatMessage
// @Failure     403  {object}  handlers.ErrorResponse  "Not the lawyer"
// @Failure     409  {object}  handlers.ErrorResponse  "No arguments yet"
// @Router      /representations/{id}/court/transcript [post]
func (h *Handlers) CompileTranscript(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	m, err := h.court.CompileTranscript(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, m)
}
