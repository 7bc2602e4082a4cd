// Package component defines lifecycle-managed infrastructure pieces of the
// discovery service (location store backends, the HTTP server) and a
// registry that starts them in order and stops them in reverse.
package component
