package auth

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultInternalScope is the scope granting the internal capability.
	DefaultInternalScope = "internal"

	minSecretLength = 16
)

// Config configures token verification for internal routes.
type Config struct {
	// Enabled controls whether tokens are checked. Disabled means every
	// caller is internal.
	Enabled bool `mapstructure:"enabled"`

	// Secret is the HMAC signing key.
	Secret string `mapstructure:"secret"`

	// Issuer is the expected "iss" claim. Empty accepts any issuer.
	Issuer string `mapstructure:"issuer"`

	// InternalScope is the scope that marks a caller as internal.
	InternalScope string `mapstructure:"internal_scope"`

	// TokenTTL is the lifetime of tokens issued by TokenService.
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.InternalScope == "" {
		c.InternalScope = DefaultInternalScope
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = time.Hour
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Secret == "" {
		return errors.New("auth: secret is required when auth is enabled")
	}
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("auth: secret must be at least %d bytes", minSecretLength)
	}
	if c.TokenTTL < 0 {
		return errors.New("auth: token_ttl must be non-negative")
	}
	return nil
}

// Describe returns a one-liner for the startup summary.
func (c *Config) Describe() string {
	if !c.Enabled {
		return "disabled (all callers internal)"
	}
	if c.Issuer != "" {
		return fmt.Sprintf("JWT(HS256) scope=%s issuer=%s", c.InternalScope, c.Issuer)
	}
	return fmt.Sprintf("JWT(HS256) scope=%s", c.InternalScope)
}
