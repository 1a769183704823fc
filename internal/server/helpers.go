package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"clique/internal/matching"
	"clique/internal/middleware"
	"clique/internal/models"
	"clique/internal/observability"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// respondError writes err with the status its code maps to.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		observability.GlobalLogger.ErrorContext(c.UserContext(), "request error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}

// bindJSON parses the request body into out or answers 400.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	return nil
}

// requestContext returns the request context bounded by requestTimeout.
func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

func session(c *fiber.Ctx) string {
	return middleware.SessionFrom(c)
}

// parseExclusions reads the comma-separated exclude query parameter.
func parseExclusions(c *fiber.Ctx) matching.Exclusions {
	raw := strings.TrimSpace(c.Query("exclude"))
	if raw == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return matching.NewExclusions(ids...)
}

// parseLimit reads the limit query parameter, clamped to maxFeedLimit.
func parseLimit(c *fiber.Ctx) int {
	limit := c.QueryInt("limit", defaultFeedLimit)
	if limit <= 0 {
		return defaultFeedLimit
	}
	return min(limit, maxFeedLimit)
}

func param(c *fiber.Ctx, name string) (string, error) {
	v := strings.TrimSpace(c.Params(name))
	if v == "" {
		return "", models.NewValidationError("Missing " + name)
	}
	return v, nil
}
