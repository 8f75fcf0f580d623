package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/musicu/api/internal/auth"
	"github.com/musicu/api/internal/model"
	"github.com/musicu/api/pkg/response"
)

const sessionKey = "session"

// SessionMiddleware resolves the request session from the Authorization
// header using HMAC-signed tokens.
type SessionMiddleware struct {
	jwtSecret string
}

// NewSessionMiddleware creates session middleware with the given signing secret
func NewSessionMiddleware(jwtSecret string) *SessionMiddleware {
	return &SessionMiddleware{jwtSecret: jwtSecret}
}

// Resolve attaches a session to the request. A valid bearer token yields an
// authenticated session; a missing header yields a guest session; a malformed
// or invalid token is rejected.
func (m *SessionMiddleware) Resolve() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			c.Locals(sessionKey, model.GuestSession())
			return c.Next()
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return response.Unauthorized(c, "Invalid authorization header format")
		}

		claims, err := auth.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}

		c.Locals(sessionKey, model.Session{
			Mode:   model.ModeAuthenticated,
			UserID: claims.UserID,
			Email:  claims.Email,
		})
		return c.Next()
	}
}

// RequireAuthenticated rejects guest and unauthenticated sessions. Must run
// after Resolve.
func (m *SessionMiddleware) RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetSession(c).IsAuthenticated() {
			return response.Forbidden(c, "History is available for registered accounts only")
		}
		return c.Next()
	}
}

// GetSession extracts the resolved session from the request context.
func GetSession(c *fiber.Ctx) model.Session {
	if session, ok := c.Locals(sessionKey).(model.Session); ok {
		return session
	}
	return model.Session{}
}
