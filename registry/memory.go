package registry

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

const defaultMemoryPoolSize = 16

// MemoryStore is an in-process Store for tests and local development.
// Its pool is bounded like a real backend and it counts checked-out
// connections so callers can verify release discipline.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]map[string]string
	pool    *semaphore.Weighted
	inUse   atomic.Int64
	failErr atomic.Pointer[error]
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store allowing poolSize concurrent connections.
func NewMemoryStore(poolSize int) *MemoryStore {
	if poolSize <= 0 {
		poolSize = defaultMemoryPoolSize
	}
	return &MemoryStore{
		records: make(map[string]map[string]string),
		pool:    semaphore.NewWeighted(int64(poolSize)),
	}
}

// Acquire checks out a connection, blocking while the pool is exhausted.
func (s *MemoryStore) Acquire(ctx context.Context) (Conn, error) {
	if err := s.pool.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("memory store acquire: %w", err)
	}
	s.inUse.Add(1)
	return &memoryConn{store: s}, nil
}

// InUse returns the number of connections currently checked out.
func (s *MemoryStore) InUse() int {
	return int(s.inUse.Load())
}

// FailWith makes every subsequent connection operation return err.
// Pass nil to restore normal behavior.
func (s *MemoryStore) FailWith(err error) {
	if err == nil {
		s.failErr.Store(nil)
		return
	}
	s.failErr.Store(&err)
}

func (s *MemoryStore) failure() error {
	if p := s.failErr.Load(); p != nil {
		return *p
	}
	return nil
}

type memoryConn struct {
	store    *MemoryStore
	released atomic.Bool
}

func (c *memoryConn) check() error {
	if c.released.Load() {
		return ErrConnReleased
	}
	return c.store.failure()
}

func (c *memoryConn) Get(_ context.Context, id, field string) (string, error) {
	if err := c.check(); err != nil {
		return "", err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return c.store.records[id][field], nil
}

func (c *memoryConn) GetAll(_ context.Context, id string) (map[string]string, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	out := make(map[string]string, len(c.store.records[id]))
	for k, v := range c.store.records[id] {
		out[k] = v
	}
	return out, nil
}

func (c *memoryConn) Set(_ context.Context, id, field, value string) error {
	if err := c.check(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	rec, ok := c.store.records[id]
	if !ok {
		rec = make(map[string]string)
		c.store.records[id] = rec
	}
	rec[field] = value
	return nil
}

func (c *memoryConn) Replace(_ context.Context, id string, fields map[string]string) error {
	if err := c.check(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if len(fields) == 0 {
		delete(c.store.records, id)
		return nil
	}
	rec := make(map[string]string, len(fields))
	for k, v := range fields {
		rec[k] = v
	}
	c.store.records[id] = rec
	return nil
}

func (c *memoryConn) Delete(_ context.Context, id string) error {
	if err := c.check(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	delete(c.store.records, id)
	return nil
}

func (c *memoryConn) DeleteField(_ context.Context, id, field string) error {
	if err := c.check(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	rec, ok := c.store.records[id]
	if !ok {
		return nil
	}
	delete(rec, field)
	if len(rec) == 0 {
		delete(c.store.records, id)
	}
	return nil
}

func (c *memoryConn) Keys(_ context.Context, pattern string) ([]string, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	keys := make([]string, 0, len(c.store.records))
	for id := range c.store.records {
		ok, err := path.Match(pattern, id)
		if err != nil {
			return nil, fmt.Errorf("memory store keys %q: %w", pattern, err)
		}
		if ok {
			keys = append(keys, id)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (c *memoryConn) Release() error {
	if !c.released.CompareAndSwap(false, true) {
		return ErrConnReleased
	}
	c.store.inUse.Add(-1)
	c.store.pool.Release(1)
	return nil
}
