// handlers/settings.go - Active wave/station, station catalog, reset
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"triotag/middleware"
	"triotag/models"
	"triotag/utils"
)

// SetActive updates the highlighted wave and/or station
// PUT /api/settings/active
func (h *Handler) SetActive(c *fiber.Ctx) error {
	var req struct {
		WaveID  *int    `json:"wave_id"`
		Station *string `json:"station"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	active, err := h.svc.SetActive(c.UserContext(), req.WaveID, req.Station)
	if err != nil {
		return err
	}
	return utils.JSONSuccess(c, fiber.Map{
		"message":        "Active settings updated",
		"active_wave_id": active.WaveID,
		"active_station": active.Station,
	})
}

// GetActive returns the highlighted wave and station
// GET /api/settings/active
func (h *Handler) GetActive(c *fiber.Ctx) error {
	return c.JSON(h.svc.Active(c.UserContext()))
}

// GetStations returns the station catalog in running order
// GET /api/stations
func (h *Handler) GetStations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"stations": models.Stations})
}

// ResetAll wipes roster, teams, times and settings
// POST /api/reset
func (h *Handler) ResetAll(c *fiber.Ctx) error {
	if err := h.svc.ResetAll(c.UserContext()); err != nil {
		return err
	}
	username, _ := middleware.GetUsername(c)
	h.log.Warn().Str("username", username).Msg("event data reset")
	return utils.JSONSuccess(c, fiber.Map{"message": "All data reset"})
}
