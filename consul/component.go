package consul

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/consul/api"

	"github.com/kbukum/discovery/component"
	"github.com/kbukum/discovery/logger"
	"github.com/kbukum/discovery/resilience"
)

// Component connects to a Consul agent and exposes the KV location store.
type Component struct {
	cfg    Config
	client *api.Client
	store  *KVStore
	log    *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a Consul component.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	if log == nil {
		log = logger.Nop()
	}
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("consul")}
}

// NewClient builds a Consul API client from cfg.
func NewClient(cfg Config) (*api.Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("consul config: %w", err)
	}

	apiCfg := api.DefaultConfig()
	apiCfg.Address = cfg.Address
	apiCfg.Scheme = cfg.Scheme
	apiCfg.Datacenter = cfg.Datacenter
	apiCfg.Token = cfg.Token
	apiCfg.Namespace = cfg.Namespace
	apiCfg.Partition = cfg.Partition
	apiCfg.WaitTime = cfg.Timeout
	if cfg.TLS.Enabled {
		apiCfg.TLSConfig = api.TLSConfig{
			Address:            cfg.TLS.ServerName,
			CAFile:             cfg.TLS.CAFile,
			CertFile:           cfg.TLS.CertFile,
			KeyFile:            cfg.TLS.KeyFile,
			InsecureSkipVerify: cfg.TLS.SkipVerify,
		}
	}

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}
	return client, nil
}

func (c *Component) Name() string { return "consul" }

// Store returns the location store, or nil if not started.
func (c *Component) Store() *KVStore { return c.store }

// Start creates the client and checks that the agent has a leader.
func (c *Component) Start(ctx context.Context) error {
	client, err := NewClient(c.cfg)
	if err != nil {
		return fmt.Errorf("consul start: %w", err)
	}
	var leader string
	retry := resilience.RetryConfig{
		MaxAttempts: c.cfg.ConnectAttempts,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			c.log.Warn("Consul agent not ready, retrying", logger.Fields(
				"attempt", attempt,
				"wait", wait.String(),
				logger.FieldError, err.Error(),
			))
		},
	}
	err = resilience.Retry(ctx, retry, func(ctx context.Context) error {
		l, err := client.Status().LeaderWithQueryOptions((&api.QueryOptions{}).WithContext(ctx))
		if err != nil {
			return err
		}
		if l == "" {
			return fmt.Errorf("no cluster leader")
		}
		leader = l
		return nil
	})
	if err != nil {
		return fmt.Errorf("consul start: %w", err)
	}

	c.client = client
	c.store = NewKVStore(client, c.cfg.Prefix, c.cfg.PoolSize)
	c.log.Info("Consul component started", logger.Fields(
		"address", c.cfg.Address,
		"leader", leader,
		"prefix", c.cfg.Prefix,
	))
	return nil
}

// Stop is a no-op; the HTTP client does not require explicit closing.
func (c *Component) Stop(_ context.Context) error {
	if c.client != nil {
		c.log.Info("Consul component stopping")
	}
	return nil
}

// Health reports whether the agent sees a cluster leader.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.client == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "consul not initialized"}
	}
	leader, err := c.client.Status().LeaderWithQueryOptions((&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	if leader == "" {
		return component.Health{Name: c.Name(), Status: component.StatusDegraded, Message: "no cluster leader"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Consul",
		Type:    "store",
		Details: fmt.Sprintf("%s://%s prefix=%s pool=%d", c.cfg.Scheme, c.cfg.Address, c.cfg.Prefix, c.cfg.PoolSize),
	}
}
