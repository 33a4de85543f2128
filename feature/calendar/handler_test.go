package calendar

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *fakeReservations) {
	t.Helper()
	svc, res, _ := setupService(t)
	app := fiber.New()
	feature := NewFeature(svc)
	require.NoError(t, feature.Load(app))
	return app, res
}

func decode(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func TestLoader(t *testing.T) {
	svc, _, _ := setupService(t)
	feature := NewFeature(svc)

	assert.Equal(t, "calendar", feature.Name())
	assert.True(t, feature.IsEnabled())
}

func TestHandleReservations(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/reservations", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Len(t, body["data"], 2)
	assert.Equal(t, false, body["cached"])
}

func TestHandleAll(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/reservations/all", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Len(t, body["data"], 3)
	assert.Len(t, body["actions"], 2)
}

func TestHandleMonth(t *testing.T) {
	app, _ := setupTestApp(t)

	t.Run("Valid", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/availability/2025-01", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body := decode(t, resp.Body)
		assert.Equal(t, "2025-01", body["month"])
		assert.Len(t, body["days"], 31)
	})

	t.Run("Invalid", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/availability/2025-13", nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestHandleClassify(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/availability/date/2025-01-06", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, "direct_booked", body["status"])
}

func TestHandleUpdateMarks(t *testing.T) {
	app, _ := setupTestApp(t)

	t.Run("Valid", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/availability", strings.NewReader(`{"from":"2025-01-30","to":"2025-02-02","status":"closed"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body := decode(t, resp.Body)
		assert.Equal(t, []any{"2025-01", "2025-02"}, body["months"])
	})

	t.Run("Bad Status", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/availability", strings.NewReader(`{"from":"2025-01-30","to":"2025-02-02","status":"maybe"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Reversed Range", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/availability", strings.NewReader(`{"from":"2025-02-02","to":"2025-01-30","status":"open"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestHandleBalance(t *testing.T) {
	app, _ := setupTestApp(t)

	tests := []struct {
		id   string
		want int
	}{
		{"r-1", 200},
		{"r-2", 422},
		{"nope", 404},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", "/reservations/"+tt.id+"/balance", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestHandleAcceptDecline(t *testing.T) {
	app, res := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/reservations/r-2/accept", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/reservations/r-1/decline", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	assert.Equal(t, []string{"r-2"}, res.accepted)
	assert.Equal(t, []string{"r-1"}, res.declined)
}

func TestHandleRefreshAndClear(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body := decode(t, resp.Body)
	assert.Len(t, body["refreshed"], 2)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/cache", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestHandlePreload(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/availability/2025-01/preload", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body := decode(t, resp.Body)
	assert.Equal(t, []any{"2024-12", "2025-01", "2025-02"}, body["months"])
}
