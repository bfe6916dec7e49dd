// Account HTTP handlers.
//
// This file exposes registration, the three login portals and /me:
//   - POST /auth/register/client
//   - POST /auth/register/lawyer
//   - POST /auth/login          (client portal)
//   - POST /auth/lawyer/login
//   - POST /auth/admin/login
//   - GET  /me
//
// Every portal answers a wrong password, an unknown email and a role mismatch
// with the same invalid_credentials response.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/services"
)

// RegisterRequest is the JSON payload for creating an account. BarID is
// required on the lawyer endpoint and ignored on the client one.
type RegisterRequest struct {
	Email    string `json:"email"     binding:"required" example:"asha@example.com"`
	FullName string `json:"full_name" binding:"required" example:"Asha Menon"`
	Password string `json:"password"  binding:"required" example:"correct-horse-battery"`
	BarID    string `json:"bar_id,omitempty" example:"KER/1234/2019"`
}

// LoginRequest is the JSON payload of every login portal.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required" example:"asha@example.com"`
	Password string `json:"password" binding:"required" example:"correct-horse-battery"`
}

// RegisterClient godoc
// @ID          registerClient
// @Summary     Register a client account
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.RegisterRequest  true  "Account details"
// @Success     201  {object}  domain.Account
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     409  {object}  handlers.ErrorResponse  "Email already registered"
// @Router      /auth/register/client [post]
func (h *Handlers) RegisterClient(c *gin.Context) {
	h.register(c, domain.RoleClient)
}

// RegisterLawyer godoc
// @ID          registerLawyer
// @Summary     Register a lawyer account
// @Description Lawyers must supply their bar registration ID.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.RegisterRequest  true  "Account details"
// @Success     201  {object}  domain.Account
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     409  {object}  handlers.ErrorResponse  "Email already registered"
// @Router      /auth/register/lawyer [post]
func (h *Handlers) RegisterLawyer(c *gin.Context) {
	h.register(c, domain.RoleLawyer)
}

func (h *Handlers) register(c *gin.Context, role domain.Role) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email, full_name and password required")
		return
	}
	reg := services.Registration{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		BarID:    req.BarID,
	}

	var (
		acct *domain.Account
		err  error
	)
	if role == domain.RoleLawyer {
		acct, err = h.accounts.RegisterLawyer(c.Request.Context(), reg)
	} else {
		acct, err = h.accounts.RegisterClient(c.Request.Context(), reg)
	}
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, acct)
}

// Login godoc
// @ID          loginClient
// @Summary     Client portal login
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
// @Success     200  {object}  services.Session
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     403  {object}  handlers.ErrorResponse  "Account disabled"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) { h.login(c, domain.RoleClient) }

// LawyerLogin godoc
// @ID          loginLawyer
// @Summary     Lawyer portal login
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
// @Success     200  {object}  services.Session
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     403  {object}  handlers.ErrorResponse  "Account disabled"
// @Router      /auth/lawyer/login [post]
func (h *Handlers) LawyerLogin(c *gin.Context) { h.login(c, domain.RoleLawyer) }

// AdminLogin godoc
// @ID          loginAdmin
// @Summary     Admin console login
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
// @Success     200  {object}  services.Session
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Router      /auth/admin/login [post]
func (h *Handlers) AdminLogin(c *gin.Context) { h.login(c, domain.RoleAdmin) }

func (h *Handlers) login(c *gin.Context, portal domain.Role) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password required")
		return
	}
	sess, err := h.accounts.Login(c.Request.Context(), portal, req.Email, req.Password)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, sess)
}

// Me godoc
// @ID          me
// @Summary     Current account
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  domain.Account
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /me [get]
func (h *Handlers) Me(c *gin.Context) {
	a, found := actor(c)
	if !found {
		return
	}
	ok(c, http.StatusOK, a)
}
