// Admin console HTTP handlers.
//
//   - GET  /admin/dashboard
//   - GET  /admin/users
//   - POST /admin/users/{id}/toggle
//   - GET  /admin/cases
//   - GET  /admin/users/{id}/history
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminDashboard godoc
// @ID          adminDashboard
// @Summary     Platform totals
// @Tags        Admin
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  services.Dashboard
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /admin/dashboard [get]
func (h *Handlers) AdminDashboard(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	d, err := h.admin.Dashboard(c.Request.Context(), a)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, d)
}

// AdminUsers godoc
// @ID          adminUsers
// @Summary     List lawyers and clients
// @Tags        Admin
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  services.UserDirectory
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /admin/users [get]
func (h *Handlers) AdminUsers(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	d, err := h.admin.ListUsers(c.Request.Context(), a)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, d)
}

// AdminToggleUser godoc
// @ID          adminToggleUser
// @Summary     Block or unblock a user
// @Description Flips the active flag. Administrators cannot be blocked.
// @Tags        Admin
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Account ID"  format(uuid)
// @Success     200  {object}  domain.Account
// @Failure     403  {object}  handlers.ErrorResponse  "Target is an admin"
// @Failure     404  {object}  handlers.ErrorResponse  "Account not found"
// @Router      /admin/users/{id}/toggle [post]
func (h *Handlers) AdminToggleUser(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	acct, err := h.admin.ToggleActive(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, acct)
}

// AdminCases godoc
// @ID          adminCases
// @Summary     List every case
// @Tags        Admin
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}   domain.CaseSubmission
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /admin/cases [get]
func (h *Handlers) AdminCases(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	items, err := h.admin.AllCases(c.Request.Context(), a)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, caseViews(items))
}

// AdminUserHistory godoc
// @ID          adminUserHistory
// @Summary     A user's cases and assistant chats
// @Tags        Admin
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Account ID"  format(uuid)
// @Success     200  {object}  services.UserHistory
// @Failure     404  {object}  handlers.ErrorResponse  "Account not found"
// @Router      /admin/users/{id}/history [get]
func (h *Handlers) AdminUserHistory(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	hist, err := h.admin.UserHistory(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, hist)
}
