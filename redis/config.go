package redis

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/discovery/security"
)

// Config is the redis section of the service configuration. Durations are
// written as Go duration strings ("5s", "250ms") in YAML and environment
// variables.
type Config struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	// DB selects the logical database, 0-15.
	DB int `mapstructure:"db"`
	// KeyPrefix is prepended to every service id to form the hash key.
	KeyPrefix string `mapstructure:"key_prefix"`

	PoolSize     int `mapstructure:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns"`
	// MaxRetries is the per-command retry budget of the client.
	MaxRetries int `mapstructure:"max_retries"`

	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// PoolTimeout bounds the wait for a free pooled connection.
	PoolTimeout time.Duration `mapstructure:"pool_timeout"`
	// IdleTimeout closes connections idle for longer; 0 keeps them.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// ScanCount is the COUNT hint used when listing service ids.
	ScanCount int64 `mapstructure:"scan_count"`
	// ConnectAttempts is how many pings Start tries before failing.
	ConnectAttempts int `mapstructure:"connect_attempts"`

	TLS security.TLSConfig `mapstructure:"tls"`
}

// DefaultConfig is the registry's stock setup: a local server, database 15
// and a pool of 500 connections.
func DefaultConfig() Config {
	cfg := Config{DB: 15}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	setDefault(&c.Addr, "127.0.0.1:6379")
	setDefault(&c.PoolSize, 500)
	setDefault(&c.MaxRetries, 3)
	setDefault(&c.DialTimeout, 5*time.Second)
	setDefault(&c.ReadTimeout, 3*time.Second)
	setDefault(&c.WriteTimeout, 3*time.Second)
	setDefault(&c.PoolTimeout, 4*time.Second)
	setDefault(&c.ScanCount, 100)
	setDefault(&c.ConnectAttempts, 3)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("redis addr is required"))
	}
	if c.DB < 0 || c.DB > 15 {
		errs = append(errs, fmt.Errorf("redis db must be between 0 and 15, got %d", c.DB))
	}
	if c.PoolSize <= 0 {
		errs = append(errs, errors.New("pool_size must be > 0"))
	}
	if strings.ContainsAny(c.KeyPrefix, `*?[]\`) {
		errs = append(errs, fmt.Errorf("key_prefix %q must not contain glob characters", c.KeyPrefix))
	}
	for name, d := range map[string]time.Duration{
		"dial_timeout":  c.DialTimeout,
		"read_timeout":  c.ReadTimeout,
		"write_timeout": c.WriteTimeout,
		"pool_timeout":  c.PoolTimeout,
		"idle_timeout":  c.IdleTimeout,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", name, d))
		}
	}
	if err := c.TLS.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
