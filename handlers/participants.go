// handlers/participants.go - Roster upload and summary
package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"triotag/rosterparser"
	"triotag/utils"
)

// UploadParticipants replaces the roster from a CSV upload
// POST /api/participants/upload (multipart field "file")
func (h *Handler) UploadParticipants(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "CSV file is required in field \"file\"")
	}
	f, err := header.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	rows, err := rosterparser.Parse(f)
	if err != nil {
		var lineErr *rosterparser.LineError
		if errors.Is(err, rosterparser.ErrEmpty) {
			return fiber.NewError(fiber.StatusBadRequest, "No valid participants found in CSV")
		}
		if errors.As(err, &lineErr) {
			return fiber.NewError(fiber.StatusBadRequest, lineErr.Error())
		}
		return fiber.NewError(fiber.StatusBadRequest, "Invalid CSV: "+err.Error())
	}

	sum, err := h.svc.UploadRoster(c.UserContext(), rows)
	if err != nil {
		return err
	}

	return utils.JSONSuccess(c, fiber.Map{
		"total":   sum.Total,
		"males":   sum.Males,
		"females": sum.Females,
		"message": fmt.Sprintf("Uploaded %d participants", sum.Total),
	})
}

// GetSummary returns roster counts
// GET /api/participants/summary
func (h *Handler) GetSummary(c *fiber.Ctx) error {
	return c.JSON(h.svc.Summary(c.UserContext()))
}
