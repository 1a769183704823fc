package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMatches handles GET /api/matches
func (s *Server) GetMatches(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	partners, err := s.matches.Matches(ctx, session(c))
	if err != nil {
		return respondError(c, err)
	}
	pending, err := s.matches.PendingLikes(ctx, session(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"matches":      partners,
		"pendingLikes": pending,
	})
}

// GetAppointments handles GET /api/appointments
func (s *Server) GetAppointments(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	appts, err := s.matches.Appointments(ctx, session(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(appts)
}
