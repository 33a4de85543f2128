package feedsync

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"booking-sync/core/storage"
	"booking-sync/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, archiver *storage.Archiver) (*fiber.App, *Scheduler) {
	t.Helper()
	s, _, _ := newTestScheduler(t, newMemStore(), nil, false)
	app := fiber.New()
	feature := NewFeature(s, archiver, nil)
	require.True(t, feature.IsEnabled())
	require.NoError(t, feature.Load(app))
	return app, s
}

func TestLoader(t *testing.T) {
	s, _, _ := newTestScheduler(t, newMemStore(), nil, false)
	feature := NewFeature(s, nil, nil)
	assert.Equal(t, "feedsync", feature.Name())
}

func TestHandleSyncAndLast(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/last", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Len(t, body["sources"], 2)

	resp, err = app.Test(httptest.NewRequest("GET", "/sync/last", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestHandleSyncAsync(t *testing.T) {
	app, s := setupTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync?async=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 202, resp.StatusCode)
	assert.Len(t, s.trigger, 1)
}

func TestHandleArchive(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		app, _ := setupTestApp(t, nil)
		resp, err := app.Test(httptest.NewRequest("GET", "/sync/archive/airbnb", nil))
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)
	})

	t.Run("Unknown Platform", func(t *testing.T) {
		app, _ := setupTestApp(t, storage.NewArchiver(new(mocks.Client), "b", "feeds", 0, nil))
		resp, err := app.Test(httptest.NewRequest("GET", "/sync/archive/vrbo", nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("No Snapshot", func(t *testing.T) {
		client := new(mocks.Client)
		ch := make(chan minio.ObjectInfo)
		close(ch)
		client.On("ListObjects", mock.Anything, "b", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		app, _ := setupTestApp(t, storage.NewArchiver(client, "b", "feeds", 0, nil))
		resp, err := app.Test(httptest.NewRequest("GET", "/sync/archive/airbnb", nil))
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("Latest", func(t *testing.T) {
		client := new(mocks.Client)
		ch := make(chan minio.ObjectInfo, 2)
		ch <- minio.ObjectInfo{Key: "feeds/airbnb/20250101T090000Z.ics", Size: 10}
		ch <- minio.ObjectInfo{Key: "feeds/airbnb/20250102T090000Z.ics", Size: 10}
		close(ch)
		client.On("ListObjects", mock.Anything, "b", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))
		client.On("GetObject", mock.Anything, "b", "feeds/airbnb/20250102T090000Z.ics", mock.Anything).
			Return(io.NopCloser(strings.NewReader("BEGIN:VCALENDAR")), nil)

		app, _ := setupTestApp(t, storage.NewArchiver(client, "b", "feeds", 0, nil))
		resp, err := app.Test(httptest.NewRequest("GET", "/sync/archive/airbnb", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "feeds/airbnb/20250102T090000Z.ics", resp.Header.Get("X-Snapshot-Key"))

		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "BEGIN:VCALENDAR", string(data))
	})
}
