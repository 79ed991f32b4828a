package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"learnfromus/internal/auth"
	"learnfromus/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestApp(t *testing.T, issuer auth.Issuer) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/protected", AuthRequired(issuer), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals(LocalUserID),
			"name":    c.Locals(LocalUserName),
		})
	})
	app.Get("/open", OptionalAuth(issuer), func(c *fiber.Ctx) error {
		uid, _ := c.Locals(LocalUserID).(uint)
		return c.JSON(fiber.Map{"user_id": uid})
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	issuer := auth.NewIssuer("test_secret")
	app := newAuthTestApp(t, issuer)

	token, err := issuer.Issue(&models.User{ID: 7, Username: "alice", Email: "alice@x.com"})
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + tokenFrom(t, "other_secret"), http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	issuer := auth.NewIssuer("test_secret")
	app := newAuthTestApp(t, issuer)

	t.Run("anonymous passes through", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("invalid token is ignored, not rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer junk")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func tokenFrom(t *testing.T, secret string) string {
	t.Helper()
	raw, err := auth.NewIssuer(secret).Issue(&models.User{ID: 1, Username: "x", Email: "x@x.com"})
	require.NoError(t, err)
	return raw
}
