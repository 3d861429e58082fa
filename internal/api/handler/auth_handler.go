package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brandon3sican/to-system/config"
	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/service"
	"github.com/brandon3sican/to-system/internal/web"
)

// passwordFields never echoed back into a form
var passwordFields = []string{"password", "password_confirmation"}

// AuthHandler sign-in, sign-out and first-account registration
type AuthHandler struct {
	authSvc service.AuthService
	cookie  config.CookieConfig
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authSvc service.AuthService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cookie: cookie}
}

// LoginForm
// GET /login
func (h *AuthHandler) LoginForm(c *gin.Context) {
	open, err := h.authSvc.RegistrationOpen(c.Request.Context())
	if err != nil {
		errorPage(c, err)
		return
	}
	renderPage(c, http.StatusOK, "login.html", gin.H{"Title": "Sign in", "RegistrationOpen": open})
}

// Login checks credentials and issues the session cookie
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, "/login", passwordFields...)
		return
	}

	sess, err := h.authSvc.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		h.handleAuthError(c, err, "/login")
		return
	}

	h.setSessionCookie(c, sess, req.RememberMe)
	c.Redirect(http.StatusFound, "/")
}

// Logout revokes the session
// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil && token != "" {
		if err := h.authSvc.Logout(c.Request.Context(), token); err != nil {
			_ = c.Error(err)
		}
	}
	h.clearSessionCookie(c)
	redirectSuccess(c, "/login", "You have been logged out.")
}

// RegisterForm available only while no account exists
// GET /register
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	ctx := c.Request.Context()
	open, err := h.authSvc.RegistrationOpen(ctx)
	if err != nil {
		errorPage(c, err)
		return
	}
	if !open {
		h.registrationClosed(c)
		return
	}

	form, err := h.authSvc.RegisterFormData(ctx)
	if err != nil {
		errorPage(c, err)
		return
	}
	renderPage(c, http.StatusOK, "register.html", gin.H{
		"Title":  "Register",
		"Form":   form,
		"Values": web.EmployeeValues(nil),
	})
}

// Register creates the first account and signs it in
// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, "/register", passwordFields...)
		return
	}

	sess, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err, "/register")
		return
	}

	h.setSessionCookie(c, sess, false)
	redirectSuccess(c, "/", "Registration successful! Welcome to the dashboard.")
}

func (h *AuthHandler) registrationClosed(c *gin.Context) {
	redirectWithFlash(c, "/login", web.Flash{Error: service.ErrRegistrationClosed.Error(), UserExists: true})
}

// ── session cookie ──

// setSessionCookie a remembered session outlives the browser; otherwise the
// cookie is dropped on close while the token keeps its own expiry.
func (h *AuthHandler) setSessionCookie(c *gin.Context, sess *dto.SessionResponse, persistent bool) {
	maxAge := 0
	if persistent {
		maxAge = int(time.Until(time.Unix(sess.ExpiresAt, 0)).Seconds())
	}
	c.SetSameSite(h.cookie.SameSiteMode())
	c.SetCookie(h.cookie.Name, sess.Token, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(h.cookie.SameSiteMode())
	c.SetCookie(h.cookie.Name, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error, back string) {
	switch {
	case errors.Is(err, service.ErrRegistrationClosed):
		h.registrationClosed(c)
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrTooManyAttempts),
		errors.Is(err, service.ErrRegistrationFailed):
		redirectWithFlash(c, back, web.Flash{Error: err.Error(), Old: web.OldInput(c, passwordFields...)})
	default:
		failForm(c, err, back, passwordFields...)
	}
}
