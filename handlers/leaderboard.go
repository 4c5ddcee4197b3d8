// handlers/leaderboard.go - Public leaderboard polled by spectators
package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// GetLeaderboard returns the ranked teams plus the active setting
// GET /api/leaderboard
func (h *Handler) GetLeaderboard(c *fiber.Ctx) error {
	view := h.svc.Leaderboard(c.UserContext())
	c.Set(fiber.HeaderCacheControl, "no-store")
	if h.pollInterval > 0 {
		c.Set("X-Poll-Interval", strconv.Itoa(h.pollInterval))
	}
	return c.JSON(fiber.Map{
		"leaderboard":    view.Leaderboard,
		"active_wave_id": view.ActiveWaveID,
		"active_station": view.ActiveStation,
		"stations":       view.Stations,
		"poll_interval":  h.pollInterval,
	})
}
