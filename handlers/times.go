// handlers/times.go - Split time entry
package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"triotag/utils"
)

type timeRequest struct {
	TeamID  int    `json:"team_id"`
	Station string `json:"station"`
	TimeStr string `json:"time_str"`
}

func parseTimeRequest(c *fiber.Ctx) (timeRequest, error) {
	var req timeRequest
	if err := c.BodyParser(&req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.TeamID <= 0 {
		return req, fiber.NewError(fiber.StatusBadRequest, "team_id is required")
	}
	return req, nil
}

// SaveTime records a split time and makes its wave and station the live ones
// POST /api/times/save
func (h *Handler) SaveTime(c *fiber.Ctx) error {
	req, err := parseTimeRequest(c)
	if err != nil {
		return err
	}
	rec, active, err := h.svc.SaveTime(c.UserContext(), req.TeamID, req.Station, req.TimeStr)
	if err != nil {
		return err
	}
	return utils.JSONSuccess(c, fiber.Map{
		"message":        fmt.Sprintf("Saved %s for Team %d at %s", rec.TimeStr, rec.TeamID, rec.Station),
		"record":         rec,
		"active_wave_id": active.WaveID,
		"active_station": active.Station,
	})
}

// RecordTime records a split time without changing the live highlight
// POST /api/times/record
func (h *Handler) RecordTime(c *fiber.Ctx) error {
	req, err := parseTimeRequest(c)
	if err != nil {
		return err
	}
	rec, err := h.svc.RecordTime(c.UserContext(), req.TeamID, req.Station, req.TimeStr)
	if err != nil {
		return err
	}
	return utils.JSONSuccess(c, fiber.Map{
		"message": fmt.Sprintf("Saved %s for Team %d at %s", rec.TimeStr, rec.TeamID, rec.Station),
		"record":  rec,
	})
}
