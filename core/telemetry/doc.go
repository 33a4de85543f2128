// Package telemetry wires OpenTelemetry tracing.
//
// Init installs an OTLP/gRPC exporter as the global tracer provider. Sync
// runs, per-feed fetches and cache refreshes open spans through Start, so a
// slow or failing feed shows up as a failed child span of its sync run.
package telemetry
