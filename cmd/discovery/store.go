package main

import (
	"fmt"

	"github.com/kbukum/discovery/component"
	"github.com/kbukum/discovery/consul"
	"github.com/kbukum/discovery/logger"
	"github.com/kbukum/discovery/redis"
	"github.com/kbukum/discovery/registry"
)

// storeBackend pairs the lifecycle component of a store provider with an
// accessor for the store, valid once the component has started. The memory
// provider has no component.
type storeBackend struct {
	component component.Component
	store     func() registry.Store
}

func newStoreBackend(cfg *Config, log *logger.Logger) (storeBackend, error) {
	switch cfg.Store.Provider {
	case ProviderRedis:
		c := redis.NewComponent(cfg.Redis, log)
		return storeBackend{component: c, store: func() registry.Store { return c.Store() }}, nil
	case ProviderConsul:
		c := consul.NewComponent(cfg.Consul, log)
		return storeBackend{component: c, store: func() registry.Store { return c.Store() }}, nil
	case ProviderMemory:
		s := registry.NewMemoryStore(cfg.Store.PoolSize)
		return storeBackend{store: func() registry.Store { return s }}, nil
	default:
		return storeBackend{}, fmt.Errorf("unknown store provider %q", cfg.Store.Provider)
	}
}
