package main

import (
	"fmt"
	"time"

	"github.com/kbukum/discovery/auth"
	"github.com/kbukum/discovery/config"
	"github.com/kbukum/discovery/consul"
	"github.com/kbukum/discovery/observability"
	"github.com/kbukum/discovery/redis"
	"github.com/kbukum/discovery/registry"
	"github.com/kbukum/discovery/server"
)

// Store providers.
const (
	ProviderRedis  = "redis"
	ProviderConsul = "consul"
	ProviderMemory = "memory"
)

// Config is the discovery service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Store         StoreConfig          `yaml:"store" mapstructure:"store"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Consul        consul.Config        `yaml:"consul" mapstructure:"consul"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Discovery     DiscoveryConfig      `yaml:"discovery" mapstructure:"discovery"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// StoreConfig selects the location store backend.
type StoreConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`

	// PoolSize bounds connections of the memory provider.
	PoolSize int `yaml:"pool_size" mapstructure:"pool_size"`
}

// DiscoveryConfig holds the registry and API settings.
type DiscoveryConfig struct {
	// APIVersion is appended as /v<APIVersion> to locations served with
	// version=true. Empty leaves locations untouched.
	APIVersion string `yaml:"api_version" mapstructure:"api_version"`

	// ServicesInitFile seeds an empty store at startup.
	ServicesInitFile string `yaml:"services_init_file" mapstructure:"services_init_file"`

	// Timeout bounds each registry operation.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// newConfig returns the configuration before any file or environment
// overrides, with the stock Redis settings in place.
func newConfig() *Config {
	return &Config{
		ServiceConfig: config.ServiceConfig{Name: "discovery"},
		Redis:         redis.DefaultConfig(),
	}
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.Store.Provider == "" {
		c.Store.Provider = ProviderRedis
	}
	if c.Store.PoolSize == 0 {
		c.Store.PoolSize = 64
	}
	c.Redis.ApplyDefaults()
	c.Consul.ApplyDefaults()
	c.Auth.ApplyDefaults()
	if c.Discovery.Timeout == 0 {
		c.Discovery.Timeout = registry.DefaultTimeout
	}
	c.Observability.ApplyDefaults()
}

// Validate checks the base config, the selected store and the auth setup.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	switch c.Store.Provider {
	case ProviderRedis:
		if err := c.Redis.Validate(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	case ProviderConsul:
		if err := c.Consul.Validate(); err != nil {
			return fmt.Errorf("consul: %w", err)
		}
	case ProviderMemory:
		if c.IsProduction() {
			return fmt.Errorf("store.provider %q is not allowed in production", ProviderMemory)
		}
		if c.Store.PoolSize < 0 {
			return fmt.Errorf("store.pool_size must be positive")
		}
	default:
		return fmt.Errorf("store.provider must be one of [redis, consul, memory] (got: %s)", c.Store.Provider)
	}

	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if c.IsProduction() && !c.Auth.Enabled {
		return fmt.Errorf("auth must be enabled in production")
	}
	if c.Discovery.Timeout < 0 {
		return fmt.Errorf("discovery.timeout must be non-negative")
	}
	return c.Observability.Validate()
}
