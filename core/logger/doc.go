// Package logger builds the service's zap logger from the log config section
// and tags request-scoped loggers with the ray id set by the rayid
// middleware.
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "json", Service: "booking-sync"})
//	l := logger.WithRayID(log, c)
//	l.Warn("Feed fetch failed", zap.String("platform", "airbnb"), zap.Error(err))
package logger
