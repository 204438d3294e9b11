package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"salesapi/internal/domain"
	applog "salesapi/internal/log"
	"salesapi/internal/services"
)

const tokenCookie = "token"

func tokenFrom(c *fiber.Ctx) string {
	if tok := c.Cookies(tokenCookie); tok != "" {
		return tok
	}
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
}

// RequireSession enforces a valid session token and stores the user in Locals.
func RequireSession(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := tokenFrom(c)
		if tok == "" {
			return unauthorized(c)
		}
		u, err := auth.CurrentUser(c.UserContext(), tok)
		if err != nil || u == nil {
			applog.Security(c, "auth.token.reject", nil)
			return unauthorized(c)
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireRole must run after RequireSession.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return unauthorized(c)
		}
		for _, r := range roles {
			if u.Role == r {
				return c.Next()
			}
		}
		applog.Security(c, "access.denied.role", map[string]any{"role": u.Role.String()})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Forbidden"})
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
