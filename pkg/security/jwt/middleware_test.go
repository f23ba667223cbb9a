package jwt

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "resumatch"
)

func signToken(t *testing.T, secret, issuer, subject string, ttl time.Duration) string {
	t.Helper()
	now := time.Now().UTC()
	claims := jwtlib.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", NewAuthMiddleware(testSecret, testIssuer), func(c *fiber.Ctx) error {
		uid, _ := c.Locals("userId").(string)
		return c.SendString("user:" + uid)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	app := newProtectedApp()
	resp, body := doRequest(t, app, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	// wording is contractual: clients pattern-match on it
	assert.Contains(t, body, "Missing Authorization header")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	app := newProtectedApp()
	cases := []struct {
		name   string
		header string
	}{
		{"garbage token", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", testIssuer, "u1", time.Hour)},
		{"expired", "Bearer " + signToken(t, testSecret, testIssuer, "u1", -time.Hour)},
		{"wrong issuer", "Bearer " + signToken(t, testSecret, "someone-else", "u1", time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doRequest(t, app, "/protected", tc.header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Contains(t, body, "Invalid or expired")
		})
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	app := newProtectedApp()
	token := signToken(t, testSecret, testIssuer, "user-42", time.Hour)

	t.Run("bearer prefix", func(t *testing.T) {
		resp, body := doRequest(t, app, "/protected", "Bearer "+token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "user:user-42", body)
	})

	t.Run("bare token", func(t *testing.T) {
		resp, body := doRequest(t, app, "/protected", token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "user:user-42", body)
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/open", NewOptionalAuthMiddleware(testSecret, testIssuer), func(c *fiber.Ctx) error {
		uid, _ := c.Locals("userId").(string)
		return c.SendString("user:" + uid)
	})

	t.Run("anonymous passes through", func(t *testing.T) {
		resp, body := doRequest(t, app, "/open", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "user:", body)
	})

	t.Run("invalid token passes through without identity", func(t *testing.T) {
		resp, body := doRequest(t, app, "/open", "Bearer broken")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "user:", body)
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		token := signToken(t, testSecret, testIssuer, "user-7", time.Hour)
		resp, body := doRequest(t, app, "/open", "Bearer "+token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "user:user-7", body)
	})
}
