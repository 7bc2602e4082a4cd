package auth

import (
	"net/http"
	"strings"
)

// Gate decides whether a request carries the internal capability.
type Gate interface {
	Internal(r *http.Request) bool
}

// GateFunc adapts an ordinary function to the Gate interface.
type GateFunc func(r *http.Request) bool

// Internal implements Gate.
func (f GateFunc) Internal(r *http.Request) bool { return f(r) }

// OpenGate treats every caller as internal.
var OpenGate Gate = GateFunc(func(*http.Request) bool { return true })

// TokenGate grants the internal capability to callers whose token carries
// the internal scope.
type TokenGate struct {
	tokens *TokenService
	scope  string
}

// NewTokenGate creates a gate verifying tokens with tokens.
func NewTokenGate(tokens *TokenService, scope string) *TokenGate {
	if scope == "" {
		scope = DefaultInternalScope
	}
	return &TokenGate{tokens: tokens, scope: scope}
}

// Internal implements Gate.
func (g *TokenGate) Internal(r *http.Request) bool {
	raw := TokenFromRequest(r)
	if raw == "" {
		return false
	}
	claims, err := g.tokens.Parse(raw)
	if err != nil {
		return false
	}
	return claims.HasScope(g.scope)
}

// NewGate builds the gate described by cfg: a TokenGate when auth is
// enabled, OpenGate otherwise.
func NewGate(cfg Config) (Gate, error) {
	cfg.ApplyDefaults()
	if !cfg.Enabled {
		return OpenGate, nil
	}
	tokens, err := NewTokenService(cfg)
	if err != nil {
		return nil, err
	}
	return NewTokenGate(tokens, cfg.InternalScope), nil
}

// TokenFromRequest extracts a bearer token from the Authorization header,
// falling back to the access_token query parameter.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}
