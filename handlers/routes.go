// handlers/routes.go - Event API route table
package handlers

import "github.com/gofiber/fiber/v2"

// Register mounts the event routes on api. Writes go through adminOnly.
func (h *Handler) Register(api fiber.Router, adminOnly fiber.Handler) {
	// Public reads
	api.Get("/participants/summary", h.GetSummary)
	api.Get("/teams", h.GetTeams)
	api.Get("/waves", h.GetWaves)
	api.Get("/settings/active", h.GetActive)
	api.Get("/leaderboard", h.GetLeaderboard)
	api.Get("/stations", h.GetStations)

	// Admin writes
	api.Post("/participants/upload", adminOnly, h.UploadParticipants)
	api.Post("/teams/generate", adminOnly, h.GenerateTeams)
	api.Put("/teams/:id/members", adminOnly, h.EditTeamMembers)
	api.Post("/times/save", adminOnly, h.SaveTime)
	api.Post("/times/record", adminOnly, h.RecordTime)
	api.Put("/settings/active", adminOnly, h.SetActive)
	api.Post("/reset", adminOnly, h.ResetAll)
}
