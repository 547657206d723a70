package handler

import (
	"errors"
	"net/http"

	"Inkwell/internal/dto"
	"Inkwell/internal/middleware"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*Renderer
	auth     *service.AuthService
	sessions *service.SessionService
}

func NewAuthHandler(r *Renderer, auth *service.AuthService, sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{Renderer: r, auth: auth, sessions: sessions}
}

// form renders an empty form page: its name, the fields it posts and any
// extra values the page needs.
func (h *AuthHandler) form(c *gin.Context, name string, fields []string, extra gin.H) {
	body := gin.H{"form": name, "fields": fields}
	for k, v := range extra {
		body[k] = v
	}
	h.render(c, http.StatusOK, body)
}

// LoginForm
// GET /auth/login?next=/somewhere
func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.form(c, "login", []string{"email", "password", "remember_me"}, gin.H{
		"next": safeNext(c.Query("next")),
	})
}

// Login
// POST /auth/login?next=/somewhere
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if !h.bind(c, &req) {
		return
	}
	if fe := req.Validate(); len(fe) > 0 {
		h.render(c, http.StatusBadRequest, gin.H{"errors": fe})
		return
	}

	user, err := h.auth.Authenticate(req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.flash(c, "Invalid username or password.")
		h.render(c, http.StatusUnauthorized, nil)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	// a fresh id on every login, the old one may have been planted
	ctx := c.Request.Context()
	if err := h.sessions.Unbind(ctx, middleware.SessionID(c)); err != nil {
		logError(c, err)
	}
	sid := h.sessions.NewID()
	ttl, err := h.sessions.Bind(ctx, sid, user.ID, req.RememberMe)
	if err != nil {
		h.fail(c, err)
		return
	}
	maxAge := 0
	if req.RememberMe {
		maxAge = int(ttl.Seconds())
	}
	middleware.SetSessionCookie(c, sid, maxAge)

	h.redirect(c, safeNext(c.Query("next")))
}

// Logout
// GET /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Unbind(c.Request.Context(), middleware.SessionID(c)); err != nil {
		h.fail(c, err)
		return
	}
	h.flash(c, "You have been logged out.")
	h.redirect(c, "/")
}

// RegisterForm
// GET /auth/register
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	h.form(c, "register", []string{"email", "username", "password", "password2"}, nil)
}

// Register
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if !h.bind(c, &req) {
		return
	}
	if _, err := h.auth.Register(c.Request.Context(), req); err != nil {
		h.fail(c, err)
		return
	}
	h.flash(c, "A confirmation email has been sent to you by email.")
	h.redirect(c, "/auth/login")
}

// Confirm
// GET /auth/confirm/:token
func (h *AuthHandler) Confirm(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user.Confirmed {
		h.redirect(c, "/")
		return
	}
	if err := h.auth.Confirm(user, c.Param("token")); err != nil {
		if !errors.Is(err, service.ErrInvalidToken) {
			h.fail(c, err)
			return
		}
		h.flash(c, "The confirmation link is invalid or has expired.")
	} else {
		h.flash(c, "You have confirmed your account. Thanks!")
	}
	h.redirect(c, "/")
}

// ResendConfirmation
// GET /auth/confirm
func (h *AuthHandler) ResendConfirmation(c *gin.Context) {
	if err := h.auth.ResendConfirmation(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		h.fail(c, err)
		return
	}
	h.flash(c, "A new confirmation email has been sent to you by email.")
	h.redirect(c, "/")
}

// Unconfirmed
// GET /auth/unconfirmed
func (h *AuthHandler) Unconfirmed(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil || user.Confirmed {
		h.redirect(c, "/")
		return
	}
	h.render(c, http.StatusOK, gin.H{
		"message": "You have not confirmed your account yet.",
		"email":   user.Email,
	})
}

// ChangePasswordForm
// GET /auth/change-password
func (h *AuthHandler) ChangePasswordForm(c *gin.Context) {
	h.form(c, "change_password", []string{"old_password", "password", "password2"}, nil)
}

// ChangePassword
// POST /auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordReq
	if !h.bind(c, &req) {
		return
	}
	err := h.auth.ChangePassword(middleware.CurrentUser(c), req)
	if errors.Is(err, service.ErrInvalidPassword) {
		h.flash(c, "Invalid password.")
		h.render(c, http.StatusBadRequest, nil)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.flash(c, "Your password has been updated.")
	h.redirect(c, "/")
}

// PasswordResetRequestForm
// GET /auth/reset
func (h *AuthHandler) PasswordResetRequestForm(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		h.redirect(c, "/")
		return
	}
	h.form(c, "reset_request", []string{"email"}, nil)
}

// PasswordResetRequest
// POST /auth/reset
func (h *AuthHandler) PasswordResetRequest(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		h.redirect(c, "/")
		return
	}
	var req dto.PasswordResetRequestReq
	if !h.bind(c, &req) {
		return
	}
	if err := h.auth.RequestPasswordReset(c.Request.Context(), req); err != nil {
		h.fail(c, err)
		return
	}
	h.flash(c, "An email with instructions to reset your password has been sent to you.")
	h.redirect(c, "/auth/login")
}

// PasswordResetForm
// GET /auth/reset/:token
func (h *AuthHandler) PasswordResetForm(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		h.redirect(c, "/")
		return
	}
	h.form(c, "reset", []string{"password", "password2"}, gin.H{"token": c.Param("token")})
}

// PasswordReset
// POST /auth/reset/:token
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		h.redirect(c, "/")
		return
	}
	var req dto.PasswordResetReq
	if !h.bind(c, &req) {
		return
	}
	err := h.auth.ResetPassword(c.Param("token"), req)
	if errors.Is(err, service.ErrInvalidToken) {
		h.flash(c, "The password reset link is invalid or has expired.")
		h.redirect(c, "/")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.flash(c, "Your password has been updated.")
	h.redirect(c, "/auth/login")
}

// ChangeEmailRequestForm
// GET /auth/change_email
func (h *AuthHandler) ChangeEmailRequestForm(c *gin.Context) {
	h.form(c, "change_email", []string{"email", "password"}, nil)
}

// ChangeEmailRequest
// POST /auth/change_email
func (h *AuthHandler) ChangeEmailRequest(c *gin.Context) {
	var req dto.ChangeEmailReq
	if !h.bind(c, &req) {
		return
	}
	err := h.auth.RequestEmailChange(c.Request.Context(), middleware.CurrentUser(c), req)
	if errors.Is(err, service.ErrInvalidPassword) {
		h.flash(c, "Invalid email or password.")
		h.render(c, http.StatusBadRequest, nil)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.flash(c, "An email with instructions to confirm your new email address has been sent to you.")
	h.redirect(c, "/")
}

// ChangeEmail
// GET /auth/change_email/:token
func (h *AuthHandler) ChangeEmail(c *gin.Context) {
	err := h.auth.ChangeEmail(middleware.CurrentUser(c), c.Param("token"))
	switch {
	case err == nil:
		h.flash(c, "Your email address has been updated.")
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrEmailTaken):
		h.flash(c, "Invalid request.")
	default:
		h.fail(c, err)
		return
	}
	h.redirect(c, "/")
}
