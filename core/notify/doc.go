// Package notify publishes engine events to a RabbitMQ topic exchange.
//
// The sync scheduler publishes one event per run with routing key
// "sync.completed" or "sync.failed". Consumers (push notification workers,
// dashboards) bind their own queues. When the broker is disabled a no-op
// publisher is used so callers never branch on configuration.
package notify
