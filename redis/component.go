package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/discovery/component"
	"github.com/kbukum/discovery/logger"
	"github.com/kbukum/discovery/resilience"
)

// Component owns the Redis client for the life of the service and exposes
// the HashStore built on it.
type Component struct {
	cfg    Config
	log    *logger.Logger
	client *Client
	store  *HashStore
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent prepares a component; nothing connects until Start.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Component{cfg: cfg, log: log.WithComponent("redis")}
}

// Client is nil until Start succeeds.
func (c *Component) Client() *Client { return c.client }

// Store is nil until Start succeeds.
func (c *Component) Store() *HashStore { return c.store }

func (c *Component) Name() string { return "redis" }

// Start dials the server and pings it up to ConnectAttempts times with
// backoff before giving up.
func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("redis start: %w", err)
	}

	policy := resilience.RetryConfig{
		MaxAttempts: c.cfg.ConnectAttempts,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			c.log.Warn("Redis not reachable, retrying", logger.Fields(
				"attempt", attempt,
				"wait", wait.String(),
				logger.FieldError, err.Error(),
			))
		},
	}
	if err := resilience.Retry(ctx, policy, client.Ping); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis start ping: %w", err)
	}

	c.client, c.store = client, NewHashStore(client)
	c.log.Info("Redis component started", logger.Fields("addr", c.cfg.Addr, "db", c.cfg.DB))
	return nil
}

// Stop closes the pool. It is safe to call more than once.
func (c *Component) Stop(context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Health pings the server. Pool wait timeouts since start downgrade an
// otherwise healthy report to degraded.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.client == nil:
		h.Status, h.Message = component.StatusUnhealthy, "redis not initialized"
	default:
		if err := c.client.Ping(ctx); err != nil {
			h.Status, h.Message = component.StatusUnhealthy, "ping failed: "+err.Error()
		} else if stats := c.client.PoolStats(); stats != nil && stats.Timeouts > 0 {
			h.Status, h.Message = component.StatusDegraded, fmt.Sprintf("%d pool timeouts", stats.Timeouts)
		}
	}
	return h
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Redis",
		Type:    "store",
		Details: fmt.Sprintf("%s db=%d pool=%d tls=%t", c.cfg.Addr, c.cfg.DB, c.cfg.PoolSize, c.cfg.TLS.Enabled),
	}
}
