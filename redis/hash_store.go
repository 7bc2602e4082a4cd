package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/discovery/registry"
)

// ErrClientClosed is returned by Acquire after the client was closed.
var ErrClientClosed = errors.New("redis: client closed")

// HashStore stores one Redis hash per service id.
type HashStore struct {
	client    *Client
	prefix    string
	scanCount int64
}

var _ registry.Store = (*HashStore)(nil)

// NewHashStore creates a store on top of client.
func NewHashStore(client *Client) *HashStore {
	return &HashStore{
		client:    client,
		prefix:    client.cfg.KeyPrefix,
		scanCount: client.cfg.ScanCount,
	}
}

// Acquire pins one pooled connection. The socket is taken from the pool on
// first use, waiting up to the configured pool timeout, and returned on
// Release.
func (s *HashStore) Acquire(ctx context.Context) (registry.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.client.closed.Load() {
		return nil, ErrClientClosed
	}
	return &hashConn{store: s, conn: s.client.rdb.Conn()}, nil
}

func (s *HashStore) key(id string) string {
	return s.prefix + id
}

type hashConn struct {
	store    *HashStore
	conn     *goredis.Conn
	released atomic.Bool
}

func (c *hashConn) Get(ctx context.Context, id, field string) (string, error) {
	if c.released.Load() {
		return "", registry.ErrConnReleased
	}
	val, err := c.conn.HGet(ctx, c.store.key(id), field).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis hget %s: %w", id, err)
	}
	return val, nil
}

func (c *hashConn) GetAll(ctx context.Context, id string) (map[string]string, error) {
	if c.released.Load() {
		return nil, registry.ErrConnReleased
	}
	all, err := c.conn.HGetAll(ctx, c.store.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", id, err)
	}
	return all, nil
}

func (c *hashConn) Set(ctx context.Context, id, field, value string) error {
	if c.released.Load() {
		return registry.ErrConnReleased
	}
	if err := c.conn.HSet(ctx, c.store.key(id), field, value).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", id, err)
	}
	return nil
}

func (c *hashConn) Replace(ctx context.Context, id string, fields map[string]string) error {
	if c.released.Load() {
		return registry.ErrConnReleased
	}
	key := c.store.key(id)
	_, err := c.conn.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(fields) > 0 {
			args := make([]interface{}, 0, len(fields)*2)
			for field, value := range fields {
				args = append(args, field, value)
			}
			pipe.HSet(ctx, key, args...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis replace %s: %w", id, err)
	}
	return nil
}

func (c *hashConn) Delete(ctx context.Context, id string) error {
	if c.released.Load() {
		return registry.ErrConnReleased
	}
	if err := c.conn.Del(ctx, c.store.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", id, err)
	}
	return nil
}

func (c *hashConn) DeleteField(ctx context.Context, id, field string) error {
	if c.released.Load() {
		return registry.ErrConnReleased
	}
	if err := c.conn.HDel(ctx, c.store.key(id), field).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w", id, err)
	}
	return nil
}

// Keys walks the keyspace with SCAN. With a key prefix configured only
// prefixed keys are visited and the prefix is stripped from the result.
func (c *hashConn) Keys(ctx context.Context, pattern string) ([]string, error) {
	if c.released.Load() {
		return nil, registry.ErrConnReleased
	}
	match := c.store.prefix + pattern
	seen := make(map[string]struct{})
	var keys []string
	var cursor uint64
	for {
		batch, next, err := c.conn.Scan(ctx, cursor, match, c.store.scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan %q: %w", match, err)
		}
		for _, k := range batch {
			id := strings.TrimPrefix(k, c.store.prefix)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			keys = append(keys, id)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return keys, nil
}

func (c *hashConn) Release() error {
	if !c.released.CompareAndSwap(false, true) {
		return registry.ErrConnReleased
	}
	return c.conn.Close()
}
