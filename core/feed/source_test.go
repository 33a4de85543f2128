package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_FetchRaw(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.ics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"))
	})
	mux.HandleFunc("/moved.ics", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok.ics", http.StatusFound)
	})
	mux.HandleFunc("/missing.ics", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/slow.ics", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	src := NewHTTPSource(200 * time.Millisecond)

	t.Run("OK", func(t *testing.T) {
		body, err := src.FetchRaw(context.Background(), srv.URL+"/ok.ics")
		require.NoError(t, err)
		assert.Contains(t, body, "BEGIN:VCALENDAR")
	})

	t.Run("Redirect", func(t *testing.T) {
		body, err := src.FetchRaw(context.Background(), srv.URL+"/moved.ics")
		require.NoError(t, err)
		assert.Contains(t, body, "BEGIN:VCALENDAR")
	})

	t.Run("NonOK", func(t *testing.T) {
		_, err := src.FetchRaw(context.Background(), srv.URL+"/missing.ics")
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})

	t.Run("Timeout", func(t *testing.T) {
		_, err := src.FetchRaw(context.Background(), srv.URL+"/slow.ics")
		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := src.FetchRaw(ctx, srv.URL+"/ok.ics")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
