package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg))
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/reservations", ok)
	app.Get("/health/live", ok)
	return app
}

func TestAuth(t *testing.T) {
	app := setupApp(Config{ApiKey: "secret", SkipPrefixes: []string{"/health"}})

	tests := []struct {
		name   string
		path   string
		header string
		value  string
		want   int
	}{
		{"missing key", "/reservations", "", "", fiber.StatusUnauthorized},
		{"wrong key", "/reservations", HeaderAPIKey, "nope", fiber.StatusUnauthorized},
		{"header key", "/reservations", HeaderAPIKey, "secret", fiber.StatusOK},
		{"bearer key", "/reservations", fiber.HeaderAuthorization, "Bearer secret", fiber.StatusOK},
		{"skipped prefix", "/health/live", "", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuth_Disabled(t *testing.T) {
	app := setupApp(Config{})

	resp, err := app.Test(httptest.NewRequest("GET", "/reservations", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
