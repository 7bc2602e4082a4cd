package redis

import (
	"context"
	stderrors "errors"
	"reflect"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/discovery/errors"
	"github.com/kbukum/discovery/registry"
)

// newTestStore creates a HashStore backed by miniredis.
func newTestStore(t *testing.T, prefix string) (*HashStore, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.Addr = mini.Addr()
	cfg.KeyPrefix = prefix
	cfg.PoolSize = 4

	client, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewHashStore(client), mini
}

func acquire(t *testing.T, store *HashStore) registry.Conn {
	t.Helper()
	conn, err := store.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	t.Cleanup(func() { _ = conn.Release() })
	return conn
}

func TestHashStore_SetGet(t *testing.T) {
	store, mini := newTestStore(t, "")
	conn := acquire(t, store)
	ctx := context.Background()

	if err := conn.Set(ctx, "login", "internal", "10.0.0.5:9501"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mini.Select(15)
	if got := mini.HGet("login", "internal"); got != "10.0.0.5:9501" {
		t.Errorf("expected hash field in db 15, got %q", got)
	}

	got, err := conn.Get(ctx, "login", "internal")
	if err != nil || got != "10.0.0.5:9501" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	got, err = conn.Get(ctx, "login", "external")
	if err != nil || got != "" {
		t.Errorf("expected empty string for absent field, got %q, %v", got, err)
	}
	got, err = conn.Get(ctx, "missing", "internal")
	if err != nil || got != "" {
		t.Errorf("expected empty string for absent key, got %q, %v", got, err)
	}
}

func TestHashStore_GetAllAndDelete(t *testing.T) {
	store, _ := newTestStore(t, "")
	conn := acquire(t, store)
	ctx := context.Background()

	_ = conn.Set(ctx, "login", "internal", "a")
	_ = conn.Set(ctx, "login", "external", "b")

	all, err := conn.GetAll(ctx, "login")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if !reflect.DeepEqual(all, map[string]string{"internal": "a", "external": "b"}) {
		t.Errorf("unexpected record %v", all)
	}

	if err := conn.DeleteField(ctx, "login", "internal"); err != nil {
		t.Fatalf("DeleteField: %v", err)
	}
	all, _ = conn.GetAll(ctx, "login")
	if !reflect.DeepEqual(all, map[string]string{"external": "b"}) {
		t.Errorf("unexpected record after DeleteField %v", all)
	}

	if err := conn.Delete(ctx, "login"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, _ = conn.GetAll(ctx, "login")
	if len(all) != 0 {
		t.Errorf("expected empty map after Delete, got %v", all)
	}
}

func TestHashStore_Replace(t *testing.T) {
	store, _ := newTestStore(t, "")
	conn := acquire(t, store)
	ctx := context.Background()

	_ = conn.Set(ctx, "login", "broker", "stale")
	if err := conn.Replace(ctx, "login", map[string]string{"internal": "a", "external": "b"}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	all, _ := conn.GetAll(ctx, "login")
	if !reflect.DeepEqual(all, map[string]string{"internal": "a", "external": "b"}) {
		t.Errorf("expected stale field dropped, got %v", all)
	}

	if err := conn.Replace(ctx, "login", nil); err != nil {
		t.Fatalf("Replace empty: %v", err)
	}
	keys, _ := conn.Keys(ctx, "*")
	if len(keys) != 0 {
		t.Errorf("expected record removed, got keys %v", keys)
	}
}

func TestHashStore_KeysWithPrefix(t *testing.T) {
	store, mini := newTestStore(t, "discovery:")
	conn := acquire(t, store)
	ctx := context.Background()

	for _, id := range []string{"login", "game-1", "game-2"} {
		if err := conn.Set(ctx, id, "internal", "x"); err != nil {
			t.Fatalf("Set %s: %v", id, err)
		}
	}
	mini.Select(15)
	mini.HSet("unrelated", "internal", "y")

	keys, err := conn.Keys(ctx, "*")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(keys)
	if !reflect.DeepEqual(keys, []string{"game-1", "game-2", "login"}) {
		t.Errorf("unexpected keys %v", keys)
	}

	keys, _ = conn.Keys(ctx, "game-*")
	sort.Strings(keys)
	if !reflect.DeepEqual(keys, []string{"game-1", "game-2"}) {
		t.Errorf("unexpected filtered keys %v", keys)
	}
	if !mini.Exists("discovery:login") {
		t.Error("expected prefixed key in redis")
	}
}

func TestHashStore_ReleaseAndClose(t *testing.T) {
	store, _ := newTestStore(t, "")
	ctx := context.Background()

	conn, err := store.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := conn.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := conn.Release(); !stderrors.Is(err, registry.ErrConnReleased) {
		t.Errorf("expected double release error, got %v", err)
	}
	if _, err := conn.Get(ctx, "a", "b"); !stderrors.Is(err, registry.ErrConnReleased) {
		t.Errorf("expected use-after-release error, got %v", err)
	}

	_ = store.client.Close()
	if _, err := store.Acquire(ctx); !stderrors.Is(err, ErrClientClosed) {
		t.Errorf("expected closed client error, got %v", err)
	}
}

func TestHashStore_WithRegistry(t *testing.T) {
	store, mini := newTestStore(t, "")
	reg := registry.New(store, nil)
	ctx := context.Background()

	if err := reg.SetServiceNetworks(ctx, "login", map[string]string{
		registry.Internal: "10.0.0.5:9501",
		registry.External: "https://login.example.com",
	}); err != nil {
		t.Fatalf("SetServiceNetworks: %v", err)
	}
	loc, err := reg.GetService(ctx, "login", registry.External)
	if err != nil || loc != "https://login.example.com" {
		t.Fatalf("GetService = %q, %v", loc, err)
	}
	all, err := reg.ListAllServices(ctx, registry.Broker)
	if err != nil || !reflect.DeepEqual(all, map[string]string{"login": ""}) {
		t.Errorf("ListAllServices = %v, %v", all, err)
	}

	mini.SetError("LOADING server is loading")
	_, err = reg.GetService(ctx, "login", registry.Internal)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeStoreError {
		t.Errorf("expected store error when redis fails, got %v", err)
	}
	mini.SetError("")
}
