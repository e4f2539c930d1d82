package middleware

import (
	"lostfound/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// NewMetricsMiddleware counts every request by method and final status.
func NewMetricsMiddleware(recorder metrics.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		recorder.RecordHTTPRequest(c.Method(), status)
		return err
	}
}
