package httpserver

import (
	"errors"
	"net/http"

	"scraper-dashboard/internal/identity"
	"scraper-dashboard/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sessionCookie = "dashboard_session"
	sessionCtxKey = "session"
)

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type sessionResponse struct {
	User      any `json:"user"`
	ExpiresAt any `json:"expiresAt,omitempty"`
}

func writeError(c *gin.Context, status int, msg, hint string) {
	body := gin.H{"error": msg}
	if hint != "" {
		body["hint"] = hint
	}
	c.AbortWithStatusJSON(status, body)
}

func (h *handlers) setSessionCookie(c *gin.Context, id string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, maxAge, "/", "", c.Request.TLS != nil, true)
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body", "")
		return
	}
	sc, err := h.deps.Sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrMissingCredentials):
		writeError(c, http.StatusBadRequest, "Please enter both email and password", "")
		return
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, "Login failed. Please check your credentials.", "")
		return
	default:
		writeError(c, http.StatusBadGateway, "Login error: "+err.Error(), "")
		return
	}

	h.setSessionCookie(c, sc.ID, int(h.deps.SessionTTL.Seconds()))
	c.JSON(http.StatusOK, toSessionResponse(sc))
}

// logout tears the session down even when the visitor is not signed in.
func (h *handlers) logout(c *gin.Context) {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		if err := h.deps.Sessions.SignOut(c.Request.Context(), id); err != nil {
			h.logger.Warn("http: sign out", zap.Error(err))
		}
	}
	h.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	c.JSON(http.StatusOK, toSessionResponse(currentSession(c)))
}

func (h *handlers) forgotPassword(c *gin.Context) {
	var req forgotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if err := h.deps.Sessions.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, session.ErrMissingEmail) {
			writeError(c, http.StatusBadRequest, "Please enter your email", "")
			return
		}
		h.logger.Error("http: password reset request", zap.Error(err))
		writeError(c, http.StatusBadGateway, "Could not send reset link", "")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "sent"})
}

// resetPassword takes the token from the body, or from the access_token/token query parameter of the reset link.
func (h *handlers) resetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body", "")
		return
	}
	token := req.Token
	if token == "" {
		token = c.Query("access_token")
	}
	if token == "" {
		token = c.Query("token")
	}

	err := h.deps.Sessions.ResetPassword(c.Request.Context(), token, req.Password, req.ConfirmPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "Password reset successful!", "hint": "You can now login with your new password."})
	case errors.Is(err, session.ErrMissingToken):
		writeError(c, http.StatusBadRequest, "No reset token found.", "This page is accessed via the password reset link sent to your email.")
	case errors.Is(err, session.ErrMissingPassword):
		writeError(c, http.StatusBadRequest, "Please fill in both password fields.", "")
	case errors.Is(err, session.ErrPasswordMismatch):
		writeError(c, http.StatusBadRequest, "Passwords do not match.", "")
	case errors.Is(err, session.ErrPasswordTooShort), errors.Is(err, identity.ErrWeakPassword):
		writeError(c, http.StatusBadRequest, "Password must be at least 6 characters long.", "")
	case errors.Is(err, identity.ErrInvalidToken):
		writeError(c, http.StatusUnauthorized, "Failed to reset password. Please try again.", "The reset link may have expired. Please request a new one.")
	default:
		h.logger.Error("http: reset password", zap.Error(err))
		writeError(c, http.StatusBadGateway, "Error resetting password: "+err.Error(), "The reset link may have expired. Please request a new one.")
	}
}

// requireSession resolves the cookie into an authenticated session context.
func (h *handlers) requireSession(c *gin.Context) {
	id, err := c.Cookie(sessionCookie)
	if err != nil || id == "" {
		writeError(c, http.StatusUnauthorized, "Please login from the home page.", "")
		return
	}
	sc, err := h.deps.Sessions.Current(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			h.logger.Error("http: load session", zap.Error(err))
		}
		writeError(c, http.StatusUnauthorized, "Please login from the home page.", "")
		return
	}
	if !sc.Authenticated() {
		writeError(c, http.StatusUnauthorized, "Please login from the home page.", "")
		return
	}
	c.Set(sessionCtxKey, sc)
	c.Next()
}

func currentSession(c *gin.Context) session.Context {
	v, ok := c.Get(sessionCtxKey)
	if !ok {
		return session.Context{}
	}
	sc, _ := v.(session.Context)
	return sc
}

func toSessionResponse(sc session.Context) sessionResponse {
	resp := sessionResponse{User: sc.User}
	if a, ok := sc.Auth.Get(); ok && !a.ExpiresAt.IsZero() {
		resp.ExpiresAt = a.ExpiresAt
	}
	return resp
}
