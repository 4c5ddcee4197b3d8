package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triotag/config"
	"triotag/middleware"
	"triotag/models"
	"triotag/services"
)

func passThrough(c *fiber.Ctx) error { return c.Next() }

func newTestApp(t *testing.T, adminOnly fiber.Handler) *fiber.App {
	t.Helper()
	svc := services.NewEventService(services.NewMemoryStore(), services.Options{
		Rand: rand.New(rand.NewPCG(1, 2)),
	})
	h := New(svc, zerolog.Nop(), config.DefaultEventConfig())

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop(), false)})
	h.Register(app.Group("/api"), adminOnly)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func jsonRequest(method, path string, payload any) *http.Request {
	data, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func uploadRequest(t *testing.T, csv string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "roster.csv")
	require.NoError(t, err)
	_, err = io.WriteString(part, csv)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/participants/upload", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

const nineRows = "name,gender\nAl,M\nBo,M\nCy,F\nDi,F\nEd,M\nFa,M\nGus,M\nHal,M\nIvy,F\n"

func TestUploadAndSummary(t *testing.T) {
	app := newTestApp(t, passThrough)

	status, body := do(t, app, uploadRequest(t, nineRows))
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 9, body["total"])
	assert.EqualValues(t, 6, body["males"])
	assert.EqualValues(t, 3, body["females"])

	status, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/participants/summary", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 9, body["total"])
	assert.Len(t, body["participants"], 9)
}

func TestUpload_Rejections(t *testing.T) {
	app := newTestApp(t, passThrough)

	status, body := do(t, app, uploadRequest(t, "name,gender\n"))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])

	status, body = do(t, app, uploadRequest(t, "name,gender\nAl,M\nBo,X\n"))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "line 3")

	status, _ = do(t, app, httptest.NewRequest(http.MethodPost, "/api/participants/upload", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)

	_, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/participants/summary", nil))
	assert.EqualValues(t, 0, body["total"])
}

func TestGenerateSaveAndLeaderboard(t *testing.T) {
	app := newTestApp(t, passThrough)
	status, _ := do(t, app, uploadRequest(t, nineRows))
	require.Equal(t, fiber.StatusOK, status)

	// empty body falls back to the configured default mode
	status, body := do(t, app, httptest.NewRequest(http.MethodPost, "/api/teams/generate", nil))
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "2m1f", body["mode"])
	assert.EqualValues(t, 3, body["teams_count"])
	assert.EqualValues(t, 1, body["waves_count"])

	status, body = do(t, app, jsonRequest(http.MethodPost, "/api/times/save", fiber.Map{
		"team_id": 2, "station": models.Stations[0], "time_str": "1:05",
	}))
	require.Equal(t, fiber.StatusOK, status, body)
	assert.EqualValues(t, 1, body["active_wave_id"])
	assert.Equal(t, models.Stations[0], body["active_station"])

	status, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))
	require.Equal(t, fiber.StatusOK, status)
	entries := body["leaderboard"].([]any)
	require.Len(t, entries, 3)
	first := entries[0].(map[string]any)
	assert.EqualValues(t, 2, first["team_id"])
	assert.EqualValues(t, 65, first["total_seconds"])
	assert.Equal(t, "01:05", first["total_time_str"])
	assert.Equal(t, models.Stations[1], first["current_station"])
	assert.Len(t, body["stations"], len(models.Stations))

	status, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/waves", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["waves"], 1)
}

func TestTimes_Errors(t *testing.T) {
	app := newTestApp(t, passThrough)
	do(t, app, uploadRequest(t, nineRows))
	do(t, app, jsonRequest(http.MethodPost, "/api/teams/generate", fiber.Map{"mode": "random"}))

	cases := []struct {
		name    string
		payload fiber.Map
		status  int
	}{
		{"bad time", fiber.Map{"team_id": 1, "station": models.Stations[0], "time_str": "1:2:3"}, fiber.StatusBadRequest},
		{"unknown station", fiber.Map{"team_id": 1, "station": "Swim", "time_str": "01:00"}, fiber.StatusBadRequest},
		{"missing team", fiber.Map{"station": models.Stations[0], "time_str": "01:00"}, fiber.StatusBadRequest},
		{"unknown team", fiber.Map{"team_id": 42, "station": models.Stations[0], "time_str": "01:00"}, fiber.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := do(t, app, jsonRequest(http.MethodPost, "/api/times/record", tc.payload))
			assert.Equal(t, tc.status, status)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestGenerate_UnknownMode(t *testing.T) {
	app := newTestApp(t, passThrough)
	do(t, app, uploadRequest(t, nineRows))

	status, body := do(t, app, jsonRequest(http.MethodPost, "/api/teams/generate", fiber.Map{"mode": "4x"}))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "4x")
}

func TestSettingsAndStations(t *testing.T) {
	app := newTestApp(t, passThrough)

	status, body := do(t, app, jsonRequest(http.MethodPut, "/api/settings/active", fiber.Map{"wave_id": 2}))
	require.Equal(t, fiber.StatusOK, status, body)
	assert.EqualValues(t, 2, body["active_wave_id"])
	assert.Nil(t, body["active_station"])

	status, _ = do(t, app, jsonRequest(http.MethodPut, "/api/settings/active", fiber.Map{"station": "Nope"}))
	assert.Equal(t, fiber.StatusBadRequest, status)

	_, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/settings/active", nil))
	assert.EqualValues(t, 2, body["active_wave_id"])

	_, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/stations", nil))
	assert.Len(t, body["stations"], len(models.Stations))
}

func TestEditTeamMembers(t *testing.T) {
	app := newTestApp(t, passThrough)
	do(t, app, uploadRequest(t, nineRows))
	do(t, app, jsonRequest(http.MethodPost, "/api/teams/generate", fiber.Map{"mode": "random"}))

	members := []fiber.Map{{"name": "X", "gender": "M"}, {"name": "Y", "gender": "F"}, {"name": "Z", "gender": "m"}}
	status, body := do(t, app, jsonRequest(http.MethodPut, "/api/teams/1/members", fiber.Map{"members": members}))
	require.Equal(t, fiber.StatusOK, status, body)

	status, _ = do(t, app, jsonRequest(http.MethodPut, "/api/teams/99/members", fiber.Map{"members": members}))
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = do(t, app, jsonRequest(http.MethodPut, "/api/teams/abc/members", fiber.Map{"members": members}))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestResetAll(t *testing.T) {
	app := newTestApp(t, passThrough)
	do(t, app, uploadRequest(t, nineRows))

	status, _ := do(t, app, httptest.NewRequest(http.MethodPost, "/api/reset", nil))
	require.Equal(t, fiber.StatusOK, status)

	_, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/teams", nil))
	assert.Empty(t, body["teams"])
}

func TestAdminRoutesRequireToken(t *testing.T) {
	secret := []byte(strings.Repeat("s", 32))
	app := newTestApp(t, middleware.AdminAuth(secret, clockwork.NewFakeClock()))

	status, _ := do(t, app, httptest.NewRequest(http.MethodPost, "/api/reset", nil))
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))
	assert.Equal(t, fiber.StatusOK, status)
}

func TestStatusFor(t *testing.T) {
	_, err := services.ParseGenerationMode("x")
	assert.Equal(t, fiber.StatusBadRequest, StatusFor(err))
	assert.Equal(t, fiber.StatusTeapot, StatusFor(fiber.ErrTeapot))
	assert.Equal(t, fiber.StatusInternalServerError, StatusFor(io.ErrUnexpectedEOF))
}
