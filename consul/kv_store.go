package consul

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/hashicorp/consul/api"
	"golang.org/x/sync/semaphore"

	"github.com/kbukum/discovery/registry"
)

// maxTxnOps is the operation limit of a single Consul transaction.
const maxTxnOps = 128

// KVStore stores service records under a Consul KV prefix.
type KVStore struct {
	client *api.Client
	prefix string
	pool   *semaphore.Weighted
}

var _ registry.Store = (*KVStore)(nil)

// NewKVStore creates a store using client, keeping records under prefix.
func NewKVStore(client *api.Client, prefix string, poolSize int) *KVStore {
	if poolSize <= 0 {
		poolSize = 1
	}
	return &KVStore{
		client: client,
		prefix: strings.Trim(prefix, "/"),
		pool:   semaphore.NewWeighted(int64(poolSize)),
	}
}

// Acquire waits for a free pool slot.
func (s *KVStore) Acquire(ctx context.Context) (registry.Conn, error) {
	if err := s.pool.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("consul store acquire: %w", err)
	}
	return &kvConn{store: s, kv: s.client.KV()}, nil
}

func (s *KVStore) folder(id string) string {
	return s.prefix + "/" + id + "/"
}

func (s *KVStore) key(id, network string) string {
	return s.folder(id) + network
}

type kvConn struct {
	store    *KVStore
	kv       *api.KV
	released atomic.Bool
}

func queryOpts(ctx context.Context) *api.QueryOptions {
	return (&api.QueryOptions{}).WithContext(ctx)
}

func writeOpts(ctx context.Context) *api.WriteOptions {
	return (&api.WriteOptions{}).WithContext(ctx)
}

func (c *kvConn) Get(ctx context.Context, id, field string) (string, error) {
	if c.released.Load() {
		return "", registry.ErrConnReleased
	}
	pair, _, err := c.kv.Get(c.store.key(id, field), queryOpts(ctx))
	if err != nil {
		return "", fmt.Errorf("consul get %s/%s: %w", id, field, err)
	}
	if pair == nil {
		return "", nil
	}
	return string(pair.Value), nil
}

func (c *kvConn) GetAll(ctx context.Context, id string) (map[string]string, error) {
	if c.released.Load() {
		return nil, registry.ErrConnReleased
	}
	folder := c.store.folder(id)
	pairs, _, err := c.kv.List(folder, queryOpts(ctx))
	if err != nil {
		return nil, fmt.Errorf("consul list %s: %w", id, err)
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		network := strings.TrimPrefix(pair.Key, folder)
		if network == "" || strings.Contains(network, "/") {
			continue
		}
		out[network] = string(pair.Value)
	}
	return out, nil
}

func (c *kvConn) Set(ctx context.Context, id, field, value string) error {
	if c.released.Load() {
		return registry.ErrConnReleased
	}
	pair := &api.KVPair{Key: c.store.key(id, field), Value: []byte(value)}
	if _, err := c.kv.Put(pair, writeOpts(ctx)); err != nil {
		return fmt.Errorf("consul put %s/%s: %w", id, field, err)
	}
	return nil
}

func (c *kvConn) Replace(ctx context.Context, id string, fields map[string]string) error {
	if c.released.Load() {
		return registry.ErrConnReleased
	}
	if len(fields)+1 > maxTxnOps {
		return fmt.Errorf("consul replace %s: %d networks exceed the transaction limit", id, len(fields))
	}

	networks := make([]string, 0, len(fields))
	for network := range fields {
		networks = append(networks, network)
	}
	sort.Strings(networks)

	ops := make(api.TxnOps, 0, len(fields)+1)
	ops = append(ops, &api.TxnOp{KV: &api.KVTxnOp{Verb: api.KVDeleteTree, Key: c.store.folder(id)}})
	for _, network := range networks {
		ops = append(ops, &api.TxnOp{KV: &api.KVTxnOp{
			Verb:  api.KVSet,
			Key:   c.store.key(id, network),
			Value: []byte(fields[network]),
		}})
	}

	ok, resp, _, err := c.store.client.Txn().Txn(ops, queryOpts(ctx))
	if err != nil {
		return fmt.Errorf("consul replace %s: %w", id, err)
	}
	if !ok {
		var reasons []string
		if resp != nil {
			for _, e := range resp.Errors {
				reasons = append(reasons, e.What)
			}
		}
		return fmt.Errorf("consul replace %s: transaction rolled back: %s", id, strings.Join(reasons, "; "))
	}
	return nil
}

func (c *kvConn) Delete(ctx context.Context, id string) error {
	if c.released.Load() {
		return registry.ErrConnReleased
	}
	if _, err := c.kv.DeleteTree(c.store.folder(id), writeOpts(ctx)); err != nil {
		return fmt.Errorf("consul delete %s: %w", id, err)
	}
	return nil
}

func (c *kvConn) DeleteField(ctx context.Context, id, field string) error {
	if c.released.Load() {
		return registry.ErrConnReleased
	}
	if _, err := c.kv.Delete(c.store.key(id, field), writeOpts(ctx)); err != nil {
		return fmt.Errorf("consul delete %s/%s: %w", id, field, err)
	}
	return nil
}

// Keys lists the service folders directly under the prefix and filters them
// with pattern using path.Match semantics.
func (c *kvConn) Keys(ctx context.Context, pattern string) ([]string, error) {
	if c.released.Load() {
		return nil, registry.ErrConnReleased
	}
	root := c.store.prefix + "/"
	keys, _, err := c.kv.Keys(root, "/", queryOpts(ctx))
	if err != nil {
		return nil, fmt.Errorf("consul keys: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		id := strings.TrimSuffix(strings.TrimPrefix(k, root), "/")
		if id == "" || !strings.HasSuffix(k, "/") {
			continue
		}
		ok, err := path.Match(pattern, id)
		if err != nil {
			return nil, fmt.Errorf("consul keys %q: %w", pattern, err)
		}
		if ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (c *kvConn) Release() error {
	if !c.released.CompareAndSwap(false, true) {
		return registry.ErrConnReleased
	}
	c.store.pool.Release(1)
	return nil
}
