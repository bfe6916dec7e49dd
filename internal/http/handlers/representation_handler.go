// Representation HTTP handlers.
//
// This file exposes hiring requests between clients and lawyers:
//   - GET  /lawyers                        (active lawyers not yet asked)
//   - POST /representations                (client; multipart)
//   - GET  /representations                (role-aware listing)
//   - GET  /representations/{id}
//   - POST /representations/{id}/decision  (lawyer; Accepted or Rejected)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/services"
)

// DecisionRequest is the lawyer's answer to a pending request.
type DecisionRequest struct {
	Status string `json:"status" binding:"required" enums:"Accepted,Rejected" example:"Accepted"`
}

// ListLawyers godoc
// @ID          listLawyers
// @Summary     Discover lawyers
// @Description Active lawyers the client has no representation with yet.
// @Tags        Representations
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}   domain.Account
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /lawyers [get]
func (h *Handlers) ListLawyers(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	items, err := h.reps.DiscoverLawyers(c.Request.Context(), a)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, items)
}

// CreateRepresentation godoc
// @ID          createRepresentation
// @Summary     Ask a lawyer for representation
// @Tags        Representations
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       lawyer_id    formData  string  true   "Lawyer account ID"
// @Param       title        formData  string  true   "Matter title"
// @Param       description  formData  string  false  "Matter description"
// @Param       document     formData  file    false  "Supporting document"
// @Success     201  {object}  domain.Representation
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404  {object}  handlers.ErrorResponse  "Lawyer not found"
// @Router      /representations [post]
func (h *Handlers) CreateRepresentation(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	doc, err := h.readUpload(c, "document")
	if err != nil {
		failUpload(c, err)
		return
	}
	in := services.RepresentationInput{
		LawyerID:    c.PostForm("lawyer_id"),
		Title:       c.PostForm("title"),
		Description: sanitizeContent(c.PostForm("description")),
	}
	rep, err := h.reps.Request(c.Request.Context(), a, in, doc)
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, rep)
}

// ListRepresentations godoc
// @ID          listRepresentations
// @Summary     List representations
// @Description Clients see the requests they sent; lawyers see the ones addressed to them,
// @Description optionally filtered by status.
// @Tags        Representations
// @Produce     json
// @Security    BearerAuth
// @Param       status  query  string  false  "Lawyer filter"  Enums(Pending, Accepted, Rejected)
// @Success     200  {array}   domain.Representation
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown status"
// @Router      /representations [get]
func (h *Handlers) ListRepresentations(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	ctx := c.Request.Context()

	var (
		items []domain.Representation
		err   error
	)
	switch a.Role {
	case domain.RoleLawyer:
		var status *domain.RepresentationStatus
		if raw := c.Query("status"); raw != "" {
			st, valid := domain.ParseRepresentationStatus(raw)
			if !valid {
				fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be Pending, Accepted or Rejected")
				return
			}
			status = &st
		}
		items, err = h.reps.ListForLawyer(ctx, a, status)
	default:
		items, err = h.reps.ListForClient(ctx, a)
	}
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, items)
}

// GetRepresentation godoc
// @ID          getRepresentation
// @Summary     Get a representation
// @Tags        Representations
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Representation ID"  format(uuid)
// @Success     200  {object}  domain.Representation
// @Failure     403  {object}  handlers.ErrorResponse  "Not a party"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /representations/{id} [get]
func (h *Handlers) GetRepresentation(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	rep, err := h.reps.Get(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, rep)
}

// DecideRepresentation godoc
// @ID          decideRepresentation
// @Summary     Accept or reject a request
// @Description Only the named lawyer may decide, and only once.
// @Tags        Representations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string                    true  "Representation ID"  format(uuid)
// @Param       body  body  handlers.DecisionRequest  true  "Decision"
// @Success     200  {object}  domain.Representation
// @Failure     403  {object}  handlers.ErrorResponse  "Not the named lawyer"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already decided or invalid status"
// @Router      /representations/{id}/decision [post]
func (h *Handlers) DecideRepresentation(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status required")
		return
	}
	st, valid := domain.ParseRepresentationStatus(req.Status)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be Accepted or Rejected")
		return
	}
	rep, err := h.reps.Decide(c.Request.Context(), a, c.Param("id"), st)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, rep)
}
