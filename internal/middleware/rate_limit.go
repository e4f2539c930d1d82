package middleware

import (
	"time"

	"lostfound/pkg/httperror"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// NewReactionLimiter caps reactions per viewer. It must run after the
// identity middleware so the viewer email is available as the key.
func NewReactionLimiter(max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 30
	}
	if window <= 0 {
		window = time.Minute
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if email, ok := c.Locals("viewerEmail").(string); ok && email != "" {
				return email
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			err := httperror.TooManyRequests(
				"reaction.create.rate_limited",
				"Too many reactions, try again later",
				nil,
			)
			return c.Status(err.Status).JSON(fiber.Map{
				"code":    err.Code,
				"message": err.Message,
			})
		},
	})
}
