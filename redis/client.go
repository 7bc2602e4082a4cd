package redis

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/discovery/logger"
)

// Client is a pooled connection to one Redis server.
type Client struct {
	rdb       *goredis.Client
	cfg       Config
	log       *logger.Logger
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// options translates cfg into go-redis options.
func options(cfg Config) (*goredis.Options, error) {
	tlsConfig, err := cfg.TLS.ClientConfig()
	if err != nil {
		return nil, err
	}
	return &goredis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		MaxRetries:      cfg.MaxRetries,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,
		TLSConfig:       tlsConfig,
	}, nil
}

// New builds a client. No connection is made until the first command.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}
	opts, err := options(cfg)
	if err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}

	log.Info("Redis client created", logger.Fields(
		"addr", opts.Addr,
		"db", opts.DB,
		"pool_size", opts.PoolSize,
		"tls", opts.TLSConfig != nil,
	))
	return &Client{rdb: goredis.NewClient(opts), cfg: cfg, log: log}, nil
}

// Ping checks that the server answers.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// PoolStats reports connection pool usage.
func (c *Client) PoolStats() *goredis.PoolStats {
	return c.rdb.PoolStats()
}

// Close releases the pool. Later calls return the first call's result.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		c.log.Info("Closing Redis connection")
		c.closed.Store(true)
		c.closeErr = c.rdb.Close()
	})
	return c.closeErr
}
