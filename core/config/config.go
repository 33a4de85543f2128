package config

import (
	"fmt"
	"reflect"
	"strings"
	_ "time/tzdata"

	"booking-sync/core/database"
	"booking-sync/core/logger"
	"booking-sync/core/notify"
	"booking-sync/core/pricing"
	"booking-sync/core/reservations"
	"booking-sync/core/server"
	"booking-sync/core/storage"
	"booking-sync/core/store"
	"booking-sync/core/telemetry"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the feed snapshot archive.
	Storage storage.Config `mapstructure:"storage"`
	// Redis holds configuration for the optional Redis external store.
	Redis store.RedisConfig `mapstructure:"redis"`
	// Broker holds configuration for event publishing.
	Broker notify.Config `mapstructure:"broker"`
	// Telemetry holds configuration for trace export.
	Telemetry telemetry.Config `mapstructure:"telemetry"`
	// Engine holds cache and calendar settings.
	Engine EngineConfig `mapstructure:"engine"`
	// Sync holds feed sync scheduler settings.
	Sync SyncConfig `mapstructure:"sync"`
	// Pricing holds the tariff.
	Pricing pricing.Config `mapstructure:"pricing"`
	// Reservations holds the reservation API client settings.
	Reservations reservations.Config `mapstructure:"reservations"`
}

// LoadConfig loads configuration from environment variables and .env file,
// then validates it.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the loaded values against their validate tags and the
// cross-field rules that tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Sync.FirstHour == c.Sync.SecondHour {
		return fmt.Errorf("invalid configuration: sync.first_hour and sync.second_hour must differ")
	}
	if _, err := c.Engine.Location(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
