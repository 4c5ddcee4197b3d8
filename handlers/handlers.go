// handlers/handlers.go - Shared handler state and error mapping
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"triotag/config"
	"triotag/services"
	"triotag/utils"
)

// Handler serves the event API on top of a single EventService.
type Handler struct {
	svc          *services.EventService
	log          zerolog.Logger
	defaultMode  string
	pollInterval int
}

func New(svc *services.EventService, log zerolog.Logger, event config.EventConfig) *Handler {
	return &Handler{
		svc:          svc,
		log:          log.With().Str("component", "handlers").Logger(),
		defaultMode:  event.DefaultMode,
		pollInterval: event.PollIntervalSeconds,
	}
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case services.IsValidation(err), services.IsGeneration(err):
		return fiber.StatusBadRequest
	case services.IsNotFound(err):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders every error returned by a handler as the standard
// {"success": false, "error": ...} body. Internal error details are hidden in
// production.
func ErrorHandler(log zerolog.Logger, production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := StatusFor(err)
		message := err.Error()
		if code == fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
			if production {
				message = "An error occurred. Please try again later."
			}
		}
		return utils.JSONError(c, code, message)
	}
}
