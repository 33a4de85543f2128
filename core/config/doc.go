// Package config provides configuration management for the booking sync service.
//
// Values come from environment variables, optionally seeded from a .env file.
// Each section is owned by the package it configures and registers its
// defaults through `default:"..."` struct tags; keys map to environment
// variables as SECTION_KEY (sync.airbnb_url -> SYNC_AIRBNB_URL).
//
// # Sections
//
//   - server, log, database, storage: process infrastructure
//   - redis, broker, telemetry: optional integrations, off by default
//   - engine: cache validity and reference time zone
//   - sync: feed URLs, fetch timeout and the two daily sync hours
//   - pricing: tariff constants
//   - reservations: reservation API client
//
// The loaded configuration is validated with go-playground/validator using
// `validate:"..."` tags.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.FirstHour)
package config
