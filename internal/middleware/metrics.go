package middleware

import (
	"strconv"
	"time"

	"github.com/basetopia/basetopia-backend/pkg/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records one request sample per matched route.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(route, c.Method(), strconv.Itoa(status),
			float64(time.Since(start).Microseconds())/1000)
		return err
	}
}
