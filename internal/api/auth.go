package api

import "github.com/gofiber/fiber/v2"

// apiKeyMiddleware guards the MCP endpoint. The key comes from the
// X-API-Key header or the apiKey query parameter. A missing key is a
// 401, a key outside the allow-set is a 403.
func apiKeyMiddleware(allowed []string) fiber.Handler {
	keys := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		keys[k] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		key := c.Get("X-API-Key")
		if key == "" {
			key = c.Query("apiKey")
		}

		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Unauthorized",
				"message": "API key is required. Provide it in X-API-Key header or apiKey query parameter.",
			})
		}
		if _, ok := keys[key]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "Forbidden",
				"message": "Invalid API key.",
			})
		}
		return c.Next()
	}
}
