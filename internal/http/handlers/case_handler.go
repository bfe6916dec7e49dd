// Case HTTP handlers.
//
// This file exposes the client's case submissions:
//   - POST /cases                 (multipart: title, description, document)
//   - GET  /cases                 (own cases, newest first)
//   - GET  /cases/{id}
//   - POST /cases/{id}/analyze    (retry a failed analysis)
//   - GET  /cases/{id}/document
//   - POST /cases/{id}/forward    (share the summary into a case chat)
//   - GET  /predictions           (analyzed cases only)
//
// Unanalyzed cases are rendered with the AnalysisPending placeholder.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/services"
)

// ForwardCaseRequest names the representation whose chat receives the case.
type ForwardCaseRequest struct {
	RepresentationID string `json:"representation_id" binding:"required" example:"0b9c7a0e-5d0c-4a53-9a57-5b1b3f8c1f40"`
}

// caseView fills the analysis placeholder of an unreviewed case.
func caseView(cs domain.CaseSubmission) domain.CaseSubmission {
	if !cs.Reviewed {
		pending := services.AnalysisPending
		cs.AnalysisResult = &pending
	}
	return cs
}

func caseViews(in []domain.CaseSubmission) []domain.CaseSubmission {
	out := make([]domain.CaseSubmission, 0, len(in))
	for _, cs := range in {
		out = append(out, caseView(cs))
	}
	return out
}

// CreateCase godoc
// @ID          createCase
// @Summary     Submit a case
// @Description Stores the case and its optional document, then runs the AI analysis inline.
// @Description A failed analysis still creates the case; it shows the pending placeholder until retried.
// @Tags        Cases
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       title        formData  string  true   "Case title"
// @Param       description  formData  string  false  "Case notes"
// @Param       document     formData  file    false  "PDF, image or text document"
// @Success     201  {object}  domain.CaseSubmission
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     403  {object}  handlers.ErrorResponse  "Clients only"
// @Failure     413  {object}  handlers.ErrorResponse  "File too large"
// @Router      /cases [post]
func (h *Handlers) CreateCase(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	doc, err := h.readUpload(c, "document")
	if err != nil {
		failUpload(c, err)
		return
	}
	in := services.CaseInput{
		Title:       c.PostForm("title"),
		Description: sanitizeContent(c.PostForm("description")),
	}
	cs, err := h.cases.Create(c.Request.Context(), a, in, doc)
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, caseView(*cs))
}

// ListCases godoc
// @ID          listCases
// @Summary     List my cases
// @Tags        Cases
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}   domain.CaseSubmission
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /cases [get]
func (h *Handlers) ListCases(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	items, err := h.cases.ListMine(c.Request.Context(), a)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, caseViews(items))
}

// Predictions godoc
// @ID          listPredictions
// @Summary     List analyzed cases
// @Tags        Cases
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}   domain.CaseSubmission
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /predictions [get]
func (h *Handlers) Predictions(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	items, err := h.cases.Predictions(c.Request.Context(), a)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, items)
}

// GetCase godoc
// @ID          getCase
// @Summary     Get a case
// @Tags        Cases
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Case ID"  format(uuid)
// @Success     200  {object}  domain.CaseSubmission
// @Failure     403  {object}  handlers.ErrorResponse  "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse  "Case not found"
// @Router      /cases/{id} [get]
func (h *Handlers) GetCase(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	cs, err := h.cases.Get(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, caseView(*cs))
}

// AnalyzeCase godoc
// @ID          analyzeCase
// @Summary     Retry the AI analysis of a case
// @Tags        Cases
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Case ID"  format(uuid)
// @Success     200  {object}  domain.CaseSubmission
// @Failure     404  {object}  handlers.ErrorResponse  "Case not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already analyzed"
// @Router      /cases/{id}/analyze [post]
func (h *Handlers) AnalyzeCase(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	cs, err := h.cases.Analyze(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, caseView(*cs))
}

// CaseDocument godoc
// @ID          caseDocument
// @Summary     Download a case document
// @Tags        Cases
// @Produce     octet-stream
// @Security    BearerAuth
// @Param       id  path  string  true  "Case ID"  format(uuid)
// @Success     200  {file}    file
// @Failure     404  {object}  handlers.ErrorResponse  "No document"
// @Router      /cases/{id}/document [get]
func (h *Handlers) CaseDocument(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	rc, att, err := h.cases.OpenDocument(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	serveAttachment(c, rc, att)
}

// ForwardCase godoc
// @ID          forwardCase
// @Summary     Forward a case summary into a representation chat
// @Description Posts a forwarded-case packet; the virtual court can load it later.
// @Tags        Cases
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string                         true  "Case ID"  format(uuid)
// @Param       body  body  handlers.ForwardCaseRequest    true  "Target representation"
// @Success     201  {object}  domain.CaseChatMessage
// @Failure     404  {object}  handlers.ErrorResponse  "Case or representation not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Representation not accepted"
// @Router      /cases/{id}/forward [post]
func (h *Handlers) ForwardCase(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	var req ForwardCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "representation_id required")
		return
	}
	m, err := h.caseChat.ForwardCaseSummary(c.Request.Context(), a, c.Param("id"), req.RepresentationID)
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, m)
}
