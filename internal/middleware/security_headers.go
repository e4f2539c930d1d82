package middleware

import (
	"context"
	"strings"

	"lostfound/domain"
	"lostfound/pkg/httperror"
	"lostfound/pkg/identity"

	"github.com/gofiber/fiber/v2"
)

// NewIdentityMiddleware trusts the User-Email and User-Role headers set by the
// authentication collaborator in front of this service.
func NewIdentityMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.TrimSpace(c.Get("User-Email"))
		role, err := domain.ParseRole(c.Get("User-Role"))

		if email == "" || err != nil {
			return unauthorized(c)
		}

		userCtx := c.UserContext()
		if userCtx == nil {
			userCtx = context.Background()
		}

		c.SetUserContext(identity.WithViewer(userCtx, domain.Viewer{
			Email: email,
			Role:  role,
		}))
		c.Locals("viewerEmail", email)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	err := httperror.Unauthorized(
		"lostfound.identity_headers.unauthorized",
		"User-Email and User-Role (user or admin) headers are required",
		nil,
	)

	return c.Status(err.Status).JSON(fiber.Map{
		"code":    err.Code,
		"message": err.Message,
	})
}
