package config

import (
	"fmt"
	"time"

	"booking-sync/core/booking"
)

// EngineConfig holds settings of the reconciliation engine.
type EngineConfig struct {
	// CacheValidityMinutes is how long fetched data is served without refetching.
	CacheValidityMinutes int `mapstructure:"cache_validity_minutes" default:"120" validate:"gte=1"`
	// TimeZone is the reference zone for calendar dates and sync hours.
	TimeZone string `mapstructure:"time_zone" default:"Asia/Kolkata" validate:"required"`
}

// CacheValidity returns the validity window as a duration.
func (c EngineConfig) CacheValidity() time.Duration {
	return time.Duration(c.CacheValidityMinutes) * time.Minute
}

// Location loads the reference time zone.
func (c EngineConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid engine time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// SyncConfig holds settings of the feed sync scheduler.
type SyncConfig struct {
	// FeedTimeoutSeconds bounds each feed fetch.
	FeedTimeoutSeconds int `mapstructure:"feed_timeout_seconds" default:"30" validate:"gte=1"`
	// FirstHour and SecondHour are the daily sync hours in the reference zone.
	FirstHour  int `mapstructure:"first_hour" default:"9" validate:"gte=0,lte=23"`
	SecondHour int `mapstructure:"second_hour" default:"21" validate:"gte=0,lte=23"`
	// RunOnStart syncs immediately at startup.
	RunOnStart bool `mapstructure:"run_on_start" default:"true"`
	// AirbnbURL is the Airbnb iCal export URL. Empty disables the feed.
	AirbnbURL string `mapstructure:"airbnb_url" default:"" validate:"omitempty,url"`
	// BookingURL is the Booking.com iCal export URL. Empty disables the feed.
	BookingURL string `mapstructure:"booking_url" default:"" validate:"omitempty,url"`
}

// FeedTimeout returns the per-feed timeout as a duration.
func (c SyncConfig) FeedTimeout() time.Duration {
	return time.Duration(c.FeedTimeoutSeconds) * time.Second
}

// Feeds returns the configured feed descriptors.
func (c SyncConfig) Feeds() []booking.FeedDescriptor {
	var feeds []booking.FeedDescriptor
	if c.AirbnbURL != "" {
		feeds = append(feeds, booking.FeedDescriptor{Platform: booking.ChannelAirbnb, URL: c.AirbnbURL})
	}
	if c.BookingURL != "" {
		feeds = append(feeds, booking.FeedDescriptor{Platform: booking.ChannelBookingDotCom, URL: c.BookingURL})
	}
	return feeds
}
