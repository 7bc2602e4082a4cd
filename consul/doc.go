// Package consul provides a Consul KV backed location store for the
// discovery registry.
//
// Records are laid out as one KV folder per service id:
//
//	<prefix>/<service_id>/<network> = <location>
//
// KVStore implements registry.Store. Concurrent connections are bounded by
// a weighted semaphore, and full record replacement runs as a single Consul
// transaction (delete-tree followed by one set per network).
package consul
