// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer token authentication. The middleware parses
// the Authorization header, verifies the access token, and stores the
// authenticated subject (user id) in the Gin context for handlers.
//
// Every failure (missing header, malformed scheme, bad signature, expired
// token) produces the same 401 response with no detail on which check
// failed, so the endpoint cannot be used as an oracle.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/postboard/go-post-backend/internal/auth"
)

const (
	// userIDKey is the Gin context key under which the verified subject is
	// stored.
	userIDKey = "userID"

	bearerPrefix = "Bearer "
)

// BearerAuth returns a middleware that requires a valid bearer token and
// exposes its subject via UserID(c). Install it on every route that needs
// an authenticated caller.
func BearerAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			unauthorized(c)
			return
		}
		subject, err := tokens.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			unauthorized(c)
			return
		}
		c.Set(userIDKey, subject)
		c.Next()
	}
}

// UserID returns the authenticated subject set by BearerAuth, or "" when
// the request is unauthenticated.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// unauthorized aborts with the uniform 401 envelope. The message is
// identical for every failure cause on purpose.
func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    "unauthorized",
	})
}
