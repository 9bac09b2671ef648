package middleware

import (
	"crypto/subtle"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ValidateAggregatorToken checks the shared secret the telecom aggregator
// sends with every USSD callback. An empty configured token disables the
// check (development / test traffic).
func ValidateAggregatorToken(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Next()
		}

		got := c.Get("X-Aggregator-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			log.Printf("⚠️  Rejected USSD callback with bad aggregator token from %s", c.IP())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid aggregator token",
			})
		}

		return c.Next()
	}
}
