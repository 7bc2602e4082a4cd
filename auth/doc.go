// Package auth decides whether an HTTP caller holds the internal capability
// required by the registry's internal routes.
//
// Callers present an HMAC-signed JWT either as "Authorization: Bearer <token>"
// or as the "access_token" query parameter. A caller is internal when the
// token verifies and its "scopes" claim contains the configured internal
// scope.
//
//	tokens, err := auth.NewTokenService(cfg)
//	gate := auth.NewTokenGate(tokens, cfg.InternalScope)
//	router.Use(middleware.RequireInternal(gate))
//
// With auth disabled every caller is treated as internal. Configuration
// validation refuses that mode in production.
package auth
