package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"patientdocs/internal/model"
	"patientdocs/internal/service"
)

// CurrentUserLocalKey is the key used to store the resolved user in Fiber's context locals.
const CurrentUserLocalKey = "current_user"

// Auth extracts the bearer token, resolves it to an active user via the auth
// service, and stores the user in context locals for downstream handlers.
// A missing or malformed header, bad signature, expired token, or unknown or
// inactive user all reject the request with 401.
func Auth(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization header required")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		user, err := authSvc.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(CurrentUserLocalKey, user)
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by Auth, or nil when the
// request did not pass through the middleware.
func CurrentUser(c *fiber.Ctx) *model.User {
	if u, ok := c.Locals(CurrentUserLocalKey).(*model.User); ok {
		return u
	}
	return nil
}
