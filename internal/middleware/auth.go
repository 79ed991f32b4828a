package middleware

import (
	"context"
	"strings"

	"learnfromus/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// Locals keys populated by the auth middleware.
const (
	LocalUserID    = "userID"
	LocalUserName  = "userName"
	LocalUserEmail = "userEmail"
)

// bearerToken extracts the raw token from the Authorization header. Returns
// "" for a missing or malformed header.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// AuthRequired enforces a valid bearer token on protected routes. Every
// failure mode (missing header, malformed header, bad signature, expiry)
// produces the same 401 so callers learn nothing about the cause.
func AuthRequired(issuer auth.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			AuthFailures.WithLabelValues(c.Path()).Inc()
			return unauthorized(c)
		}

		ident, err := issuer.Verify(raw)
		if err != nil {
			AuthFailures.WithLabelValues(c.Path()).Inc()
			return unauthorized(c)
		}

		setIdentity(c, ident)
		return c.Next()
	}
}

// OptionalAuth resolves the acting identity when a valid bearer token is
// present and otherwise continues anonymously. It never rejects a request.
func OptionalAuth(issuer auth.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw := bearerToken(c); raw != "" {
			if ident, err := issuer.Verify(raw); err == nil {
				setIdentity(c, ident)
			}
		}
		return c.Next()
	}
}

func setIdentity(c *fiber.Ctx, ident *auth.Identity) {
	c.Locals(LocalUserID, ident.UserID)
	c.Locals(LocalUserName, ident.Name)
	c.Locals(LocalUserEmail, ident.Email)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, ident.UserID))
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}
