// Package redis provides the Redis-backed location store for the discovery
// registry, built on go-redis with connection pooling, component lifecycle
// and health checks.
//
// Each service record is one Redis hash keyed by the service id (plus an
// optional key prefix); hash fields are network names and values are
// locations. HashStore implements registry.Store: every Acquire pins one
// pooled connection until Release, full record replacement runs inside
// MULTI/EXEC, and key listing uses SCAN so large keyspaces never block the
// server.
//
// # Quick Start
//
//	cfg := redis.DefaultConfig()
//	cfg.Addr = "redis.internal:6379"
//	comp := redis.NewComponent(cfg, log)
//	if err := comp.Start(ctx); err != nil {
//	    return err
//	}
//	reg := registry.New(comp.Store(), log)
package redis
