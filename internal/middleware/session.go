package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SessionHeader carries the session email.
const SessionHeader = "X-Clique-Session"

// SessionLocal is the Fiber locals key holding the session email.
const SessionLocal = "session"

// Session reads SessionHeader into the request locals. It never rejects a
// request; services decide what a missing or unknown session means.
func Session() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session := strings.TrimSpace(c.Get(SessionHeader)); session != "" {
			c.Locals(SessionLocal, strings.ToLower(session))
		}
		return c.Next()
	}
}

// SessionFrom returns the session email of the request, or "".
func SessionFrom(c *fiber.Ctx) string {
	session, _ := c.Locals(SessionLocal).(string)
	return session
}
