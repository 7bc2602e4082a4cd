// Package errors provides the structured error type used across the
// discovery service. AppError carries a machine-readable code, a
// client-safe message and the HTTP status it maps to.
package errors
