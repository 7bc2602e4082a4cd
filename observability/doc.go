// Package observability wires OpenTelemetry tracing and metrics export over
// OTLP/HTTP and provides the HTTP middleware that traces and measures
// requests.
//
// When tracing and metrics are disabled nothing is installed; instruments
// created through the otel globals then record into the no-op providers.
package observability
