package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"booking-sync/core/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 120, cfg.Engine.CacheValidityMinutes)
	assert.Equal(t, 120*time.Minute, cfg.Engine.CacheValidity())
	assert.Equal(t, 30*time.Second, cfg.Sync.FeedTimeout())
	assert.Equal(t, 9, cfg.Sync.FirstHour)
	assert.Equal(t, 21, cfg.Sync.SecondHour)
	assert.True(t, cfg.Sync.RunOnStart)
	assert.Equal(t, 2250.0, cfg.Pricing.BaseRate)
	assert.Equal(t, 4, cfg.Pricing.IncludedGuests)
	assert.Equal(t, 300.0, cfg.Pricing.Pet)
	assert.False(t, cfg.Redis.Enabled)
	assert.Empty(t, cfg.Sync.Feeds())
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "SYNC_AIRBNB_URL=https://www.airbnb.com/calendar/ical/1.ics\n" +
		"SYNC_FIRST_HOUR=6\n" +
		"ENGINE_CACHE_VALIDITY_MINUTES=30\n" +
		"PRICING_BASE_RATE=2500.50\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"SYNC_AIRBNB_URL", "SYNC_FIRST_HOUR", "ENGINE_CACHE_VALIDITY_MINUTES", "PRICING_BASE_RATE"} {
			_ = os.Unsetenv(k)
		}
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Sync.FirstHour)
	assert.Equal(t, 30, cfg.Engine.CacheValidityMinutes)
	assert.Equal(t, 2500.50, cfg.Pricing.Rates().BaseRate)

	feeds := cfg.Sync.Feeds()
	require.Len(t, feeds, 1)
	assert.Equal(t, booking.ChannelAirbnb, feeds[0].Platform)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad hour", func(c *Config) { c.Sync.SecondHour = 24 }, "SecondHour"},
		{"same hours", func(c *Config) { c.Sync.SecondHour = c.Sync.FirstHour }, "must differ"},
		{"bad driver", func(c *Config) { c.Database.Driver = "oracle" }, "Driver"},
		{"bad zone", func(c *Config) { c.Engine.TimeZone = "Mars/Olympus" }, "time zone"},
		{"bad feed url", func(c *Config) { c.Sync.BookingURL = "not a url" }, "BookingURL"},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "Addr"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "Format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
