package server

import (
	"clique/internal/models"
	"clique/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type loginRequest struct {
	Email string `json:"email"`
}

// Signup handles POST /api/users
func (s *Server) Signup(c *fiber.Ctx) error {
	var in validation.ProfileInput
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.users.Signup(ctx, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/session. The client keeps the returned email as
// its session identifier.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.users.Login(ctx, req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetMe handles GET /api/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.users.Me(ctx, session(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.users.GetProfile(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetCatalog handles GET /api/catalog
func (s *Server) GetCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"hobbies":   models.Hobbies,
		"provinces": models.Provinces,
	})
}

// GetFeatureFlags returns configured feature flags and evaluated state for current user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	userID := ""
	if user, err := s.users.Me(ctx, session(c)); err == nil && user != nil {
		userID = user.ID
	}
	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}
