// Package jwt validates bearer tokens issued by the identity provider.
// Token issuance happens elsewhere; the service only verifies.
package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claim set. Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// NewAuthMiddleware returns a Fiber middleware that validates Bearer JWT (HS256).
// On success sets user id (subject) into c.Locals("userId").
// Failure bodies are plain text; clients match on the leading phrase, so the
// "Missing Authorization header" and "Invalid or expired token" wording is
// part of the contract.
func NewAuthMiddleware(secret, expectedIssuer string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).SendString("Missing Authorization header")
		}
		tokenStr := extractToken(authHeader)
		if tokenStr == "" {
			return c.Status(http.StatusUnauthorized).SendString("Missing Authorization header")
		}
		subject, err := verify(tokenStr, secretBytes, expectedIssuer)
		if err != nil {
			return c.Status(http.StatusUnauthorized).SendString("Invalid or expired token")
		}
		c.Locals("userId", subject)
		return c.Next()
	}
}

// NewOptionalAuthMiddleware sets c.Locals("userId") when a valid token is
// present and passes the request through untouched otherwise. Endpoints that
// personalize on identity but also serve anonymous callers use this.
func NewOptionalAuthMiddleware(secret, expectedIssuer string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}
		tokenStr := extractToken(authHeader)
		if tokenStr == "" {
			return c.Next()
		}
		if subject, err := verify(tokenStr, secretBytes, expectedIssuer); err == nil {
			c.Locals("userId", subject)
		}
		return c.Next()
	}
}

// extractToken supports both "Bearer <token>" and "<token>" (no prefix).
func extractToken(authHeader string) string {
	if strings.Contains(authHeader, " ") {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		// Fallback: treat entire header as token (for non-standard clients)
		return strings.TrimSpace(authHeader)
	}
	return strings.TrimSpace(authHeader)
}

func verify(tokenStr string, secret []byte, expectedIssuer string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !token.Valid {
		return "", jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	if expectedIssuer != "" && claims.RegisteredClaims.Issuer != expectedIssuer {
		return "", jwt.ErrTokenInvalidIssuer
	}
	return claims.RegisteredClaims.Subject, nil
}
