package consul

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/discovery/security"
)

// Config is the consul section of the service configuration.
type Config struct {
	Address    string `yaml:"address" mapstructure:"address"`
	Scheme     string `yaml:"scheme" mapstructure:"scheme"`
	Datacenter string `yaml:"datacenter" mapstructure:"datacenter"`
	Token      string `yaml:"token" mapstructure:"token"`
	// Namespace and Partition only apply to Consul Enterprise.
	Namespace string `yaml:"namespace" mapstructure:"namespace"`
	Partition string `yaml:"partition" mapstructure:"partition"`

	// Prefix is the KV folder that holds one sub-folder per service id.
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
	// PoolSize bounds the registry connections checked out at once.
	PoolSize int `yaml:"pool_size" mapstructure:"pool_size"`
	// Timeout is the blocking-query wait sent to the agent.
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
	ConnectAttempts int           `yaml:"connect_attempts" mapstructure:"connect_attempts"`

	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults targets a local agent, switching the scheme to https when
// TLS is enabled.
func (c *Config) ApplyDefaults() {
	if c.Address == "" {
		c.Address = "127.0.0.1:8500"
	}
	if c.Scheme == "" {
		c.Scheme = "http"
		if c.TLS.Enabled {
			c.Scheme = "https"
		}
	}
	c.Prefix = strings.Trim(c.Prefix, "/")
	if c.Prefix == "" {
		c.Prefix = "discovery"
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 64
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.ConnectAttempts <= 0 {
		c.ConnectAttempts = 3
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Address == "" {
		errs = append(errs, errors.New("consul address is required"))
	}
	switch c.Scheme {
	case "http":
		if c.TLS.Enabled {
			errs = append(errs, errors.New("consul tls is enabled but scheme is http"))
		}
	case "https":
	default:
		errs = append(errs, fmt.Errorf("consul scheme must be 'http' or 'https', got '%s'", c.Scheme))
	}
	if c.Prefix == "" {
		errs = append(errs, errors.New("consul prefix is required"))
	}
	if c.PoolSize <= 0 {
		errs = append(errs, errors.New("consul pool_size must be > 0"))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("consul timeout must be non-negative"))
	}
	if err := c.TLS.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
