package handler

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/evan2110/web-application/internal/auth/service"
)

// claimsKey is where the ingress gate stores verified claims for downstream
// handlers.
const claimsKey = "claims"

// excludedPaths are reachable without an access token: the auth endpoints a
// client must hit before it has a session, plus the public root.
var excludedPaths = []string{
	"/",
	"/api/auth/login",
	"/api/auth/register",
	"/api/auth/refresh",
	"/api/auth/logout",
	"/api/auth/verify",
	"/api/auth/sendmail",
	"/api/auth/verify-email",
	"/api/auth/forgot-password",
	"/api/auth/reset-password",
}

// TokenValidation is the ingress gate: every request off the allow-list must
// carry a valid, unrevoked bearer token. The blacklist check inside fails
// open on registry errors.
func TokenValidation(tokens service.TokenGenerator, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestPath := strings.ToLower(c.Path())
		for _, path := range excludedPaths {
			if requestPath == path {
				return c.Next()
			}
		}

		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).SendString("Access token missing")
		}

		claims, err := tokens.VerifyAccessTokenWithBlacklist(c.UserContext(), token)
		if err != nil {
			logger.Warn("access token rejected", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusUnauthorized).SendString("Access token invalid or expired")
		}

		c.Locals(claimsKey, claims)

		return c.Next()
	}
}

// RequireRole guards endpoints behind the ingress gate with a role check.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(claimsKey).(*service.JWTCustomClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized."})
		}

		if !strings.EqualFold(claims.Role, role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Forbidden."})
		}

		return c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
