package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetDiscovery handles GET /api/discovery?exclude=a,b&limit=n
func (s *Server) GetDiscovery(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	feed, err := s.discovery.Feed(ctx, session(c), parseExclusions(c), parseLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}

// GetNextCandidate handles GET /api/discovery/next?exclude=a,b
func (s *Server) GetNextCandidate(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	next, err := s.discovery.Next(ctx, session(c), parseExclusions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"candidate": next})
}

// Like handles POST /api/swipes/:id/like
func (s *Server) Like(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := s.swipes.Like(ctx, session(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Pass handles POST /api/swipes/:id/pass
func (s *Server) Pass(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := s.swipes.Pass(ctx, session(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
