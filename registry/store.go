package registry

import "context"

// Store is a pooled key-value backend holding one hash record per service id.
type Store interface {
	// Acquire checks out a connection, waiting while the pool is exhausted.
	// The returned Conn must be released exactly once.
	Acquire(ctx context.Context) (Conn, error)
}

// Conn is a connection checked out of a Store.
type Conn interface {
	// Get returns the value of field in record id, or "" when absent.
	Get(ctx context.Context, id, field string) (string, error)
	// GetAll returns every field of record id; an unknown id yields an empty map.
	GetAll(ctx context.Context, id string) (map[string]string, error)
	// Set upserts one field, creating the record if needed.
	Set(ctx context.Context, id, field, value string) error
	// Replace discards every field of record id and writes fields in one
	// atomic step. An empty fields map leaves the record deleted.
	Replace(ctx context.Context, id string, fields map[string]string) error
	// Delete removes the whole record.
	Delete(ctx context.Context, id string) error
	// DeleteField removes one field of the record.
	DeleteField(ctx context.Context, id, field string) error
	// Keys lists record ids matching a glob pattern; "*" matches all.
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Release returns the connection to the pool.
	Release() error
}
