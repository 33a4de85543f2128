package logger

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// rayIDLocal is the fiber Locals key the ray id middleware writes.
const rayIDLocal = "ray_id"

// New builds a zap logger. Level "debug" selects the development preset,
// every other level the production preset at that level.
func New(cfg *Config) (*zap.Logger, error) {
	config := presetFor(cfg.Level)

	switch cfg.Format {
	case "console":
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	default:
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var opts []zap.Option
	if cfg.Service != "" {
		opts = append(opts, zap.Fields(zap.String("service", cfg.Service)))
	}
	return config.Build(opts...)
}

func presetFor(level string) zap.Config {
	if level == "debug" {
		return zap.NewDevelopmentConfig()
	}
	config := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	return config
}

// WithRayID returns a logger tagged with the request's ray id and path.
// Requests without a ray id get the path only.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	fields := []zap.Field{zap.String("path", c.Path())}
	if rid, ok := c.Locals(rayIDLocal).(string); ok && rid != "" {
		fields = append(fields, zap.String("ray_id", rid))
	}
	return l.With(fields...)
}
