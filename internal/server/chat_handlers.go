package server

import (
	"github.com/gofiber/fiber/v2"
)

type sendMessageRequest struct {
	Content string `json:"content"`
}

// GetInbox handles GET /api/conversations
func (s *Server) GetInbox(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	inbox, err := s.chat.Inbox(ctx, session(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inbox)
}

// GetMessages handles GET /api/conversations/:id/messages where id is the
// partner's user id.
func (s *Server) GetMessages(c *fiber.Ctx) error {
	partnerID, err := param(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	msgs, err := s.chat.Conversation(ctx, session(c), partnerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(msgs)
}

// SendMessage handles POST /api/conversations/:id/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	partnerID, err := param(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req sendMessageRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	msg, err := s.chat.Send(ctx, session(c), partnerID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
