// handlers/teams.go - Team generation, listing and edits
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"triotag/models"
	"triotag/utils"
)

// GenerateTeams partitions the roster into teams and waves
// POST /api/teams/generate
func (h *Handler) GenerateTeams(c *fiber.Ctx) error {
	var req struct {
		Mode string `json:"mode"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if req.Mode == "" {
		req.Mode = h.defaultMode
	}

	sum, err := h.svc.GenerateTeams(c.UserContext(), req.Mode)
	if err != nil {
		return err
	}
	return utils.JSONSuccess(c, fiber.Map{
		"message":         sum.Message,
		"mode":            sum.Mode,
		"teams_count":     sum.TeamsCount,
		"waves_count":     sum.WavesCount,
		"balanced_teams":  sum.BalancedTeams,
		"unassigned":      sum.Unassigned,
		"discarded_times": sum.DiscardedTimes,
		"waves":           sum.Waves,
	})
}

// GetTeams lists every team
// GET /api/teams
func (h *Handler) GetTeams(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"teams": h.svc.ListTeams(c.UserContext())})
}

// GetWaves lists waves with nested teams and recorded times
// GET /api/waves
func (h *Handler) GetWaves(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"waves": h.svc.ListWaves(c.UserContext())})
}

// EditTeamMembers replaces a team's three members
// PUT /api/teams/:id/members
func (h *Handler) EditTeamMembers(c *fiber.Ctx) error {
	teamID, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Members []models.RosterRow `json:"members"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	team, err := h.svc.EditTeam(c.UserContext(), teamID, req.Members)
	if err != nil {
		return err
	}
	return utils.JSONSuccess(c, fiber.Map{"team": team})
}
