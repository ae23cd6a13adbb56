// Account HTTP handlers.
//
// This file exposes REST endpoints for the account lifecycle:
//   - POST   /signup/    (register, returns an access token)
//   - POST   /login/     (authenticate, form-encoded credentials)
//   - DELETE /account/   (delete the authenticated account and its posts)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. Login consumes the
// standard OAuth2 password form (username=email, password) for client
// compatibility.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/postboard/go-post-backend/internal/domain"
	"github.com/postboard/go-post-backend/internal/http/middleware"
	"github.com/postboard/go-post-backend/internal/services"
)

// AccountService defines account lifecycle operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context.
type AccountService interface {
	// Signup registers a new account and returns it with a fresh token.
	Signup(ctx context.Context, email, password string) (*domain.User, string, error)
	// Login verifies credentials and returns a fresh token.
	Login(ctx context.Context, email, password string) (string, error)
	// DeleteAccount removes the account and every post it owns.
	DeleteAccount(ctx context.Context, userID string) error
}

//
// DTOs
//

// SignupRequest is the JSON payload for registration.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email" example:"a@x.com"`
	Password string `json:"password" binding:"required" example:"12345678"`
}

// SignupResponse confirms registration and carries the initial token.
type SignupResponse struct {
	Message     string `json:"message" example:"User created successfully"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

// loginForm is the form-encoded login payload (OAuth2 password style:
// the email travels in the username field).
type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// TokenResponse carries an access token after a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

//
// Handlers
//

// Signup registers a new user and returns a bearer token so the client can
// start posting without a separate login round-trip.
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	_, token, err := h.accountSvc.Signup(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrWeakPassword):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "password must be at least 8 characters")
		return
	case errors.Is(err, services.ErrEmailTaken):
		fail(c, http.StatusConflict, ErrCodeConflict, "email already registered")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusCreated, SignupResponse{
		Message:     "User created successfully",
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Login authenticates form credentials and returns a bearer token. Unknown
// email and wrong password produce the same 401.
func (h *Handlers) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password are required")
		return
	}

	token, err := h.accountSvc.Login(c.Request.Context(), strings.TrimSpace(form.Username), form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// DeleteAccount removes the authenticated user and cascades to every owned
// post.
func (h *Handlers) DeleteAccount(c *gin.Context) {
	uid := middleware.UserID(c)

	if err := h.accountSvc.DeleteAccount(c.Request.Context(), uid); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "account not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
