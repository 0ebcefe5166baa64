package handler

import (
	"errors"
	"net/http"

	"citycut/internal/dto"
	"citycut/internal/middleware"
	"citycut/internal/model"
	"citycut/internal/service"
	"citycut/internal/session"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc          service.AuthService
	cookieSecure bool
}

func NewAuthHandler(svc service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{svc: svc, cookieSecure: cookieSecure}
}

// Landing godoc
// @Summary  Landing page data
// @Tags     pages
// @Produce  json
// @Success  200 {object} map[string]interface{}
// @Router   / [get]
func (h *AuthHandler) Landing(c *gin.Context) {
	links := gin.H{"login": middleware.PathLogin}
	if p := middleware.GetPrincipal(c); p != nil {
		links["home"] = p.Role.Home()
	}
	c.JSON(http.StatusOK, gin.H{
		"name":    "CityCut",
		"tagline": "Barbershop records, sales and customers in one place",
		"links":   links,
	})
}

// LoginPage godoc
// @Summary      Login form metadata
// @Description  When a valid session exists, includes the role's landing path.
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.LoginPage
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c *gin.Context) {
	page := dto.LoginPage{
		Fields: []string{"email", "password"},
		Roles:  []string{string(model.RoleAdmin), string(model.RoleSalesRep)},
	}
	if p := middleware.GetPrincipal(c); p != nil {
		page.Redirect = p.Role.Home()
	}
	c.JSON(http.StatusOK, page)
}

// Login godoc
// @Summary      Sign in
// @Description  Verifies credentials, sets the session cookie and returns the landing path for the role.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Credentials"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} dto.LoginResponse
// @Failure      422  {object} apierror.ValidationError
// @Failure      429  {object} apierror.APIError
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, dto.LoginResponse{Success: false, Message: service.MsgInvalidCredentials})
			return
		}
		_ = c.Error(err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, resp.Token, resp.ExpiresIn, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary  Sign out
// @Tags     auth
// @Produce  json
// @Success  200 {object} apierror.ActionResult
// @Router   /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Signed out"})
}

// Unauthorized godoc
// @Summary  Shown when the signed-in role may not open a page
// @Tags     pages
// @Produce  json
// @Success  200 {object} apierror.APIError
// @Router   /unauthorized [get]
func (h *AuthHandler) Unauthorized(c *gin.Context) {
	resp := gin.H{"detail": "You are not authorized to view this page"}
	if p := middleware.GetPrincipal(c); p != nil {
		resp["home"] = p.Role.Home()
	}
	c.JSON(http.StatusOK, resp)
}
