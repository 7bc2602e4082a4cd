// Package server provides the HTTP server of the discovery service: Gin
// routed, served over HTTP/1.1 and h2c, with lifecycle management through
// the component package.
//
// # Middleware
//
// Server-level middleware (server/middleware) wraps every request:
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-Id propagation into the logging context
//   - RequestLogger: request logging with duration tracking
//   - CORS: cross-origin resource sharing
//   - RateLimit: per-client token bucket
//   - BodySizeLimit: request body size cap
//
// RequireInternal is a Gin handler guarding the internal route group.
//
// # Endpoints
//
// RegisterDefaultEndpoints mounts /health, /alive, /ready, /info and /metrics.
package server
