package server

import (
	"clique/internal/models"

	"github.com/gofiber/fiber/v2"
)

type availabilityRequest struct {
	Slots []models.TimeSlot `json:"slots"`
}

// GetAvailability handles GET /api/availability
func (s *Server) GetAvailability(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	slots, err := s.availability.Availability(ctx, session(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(availabilityRequest{Slots: slots})
}

// PutAvailability handles PUT /api/availability
func (s *Server) PutAvailability(c *fiber.Ctx) error {
	var req availabilityRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	slots, err := s.availability.SetAvailability(ctx, session(c), req.Slots)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(availabilityRequest{Slots: slots})
}

// GetSchedule handles GET /api/conversations/:id/schedule
func (s *Server) GetSchedule(c *fiber.Ctx) error {
	partnerID, err := param(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	view, err := s.availability.Schedule(ctx, session(c), partnerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// SelectSlot handles POST /api/conversations/:id/selection. Posting the
// current pick again clears it.
func (s *Server) SelectSlot(c *fiber.Ctx) error {
	partnerID, err := param(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var slot models.TimeSlot
	if err := bindJSON(c, &slot); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	view, err := s.availability.SelectSlot(ctx, session(c), partnerID, slot)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}
