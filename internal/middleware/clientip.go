package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalClientIP is the Fiber locals key under which the resolved caller IP is stored.
const LocalClientIP = "clientIP"

// ClientIP resolves the caller's address, preferring the first entry of
// X-Forwarded-For, then X-Real-IP, then the connection remote address.
// The result is a weak correlation key, not an identity.
func ClientIP(c *fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			fwd = fwd[:idx]
		}
		if ip := strings.TrimSpace(fwd); ip != "" {
			return ip
		}
	}
	if real := strings.TrimSpace(c.Get("X-Real-IP")); real != "" {
		return real
	}
	return c.IP()
}

// ClientIPMiddleware stores the resolved caller IP in Fiber locals once per
// request so handlers and downstream middleware agree on it.
func ClientIPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalClientIP, ClientIP(c))
		return c.Next()
	}
}
