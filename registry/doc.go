// Package registry implements the discovery registry: the mapping from
// service ids to per-network locations.
//
// A service record is one hash-like entry per service id whose fields are
// network names ("internal", "external", "broker" or any custom name) and
// whose values are opaque location strings. Records live only in the
// backing Store; nothing is cached in memory, so every read round-trips to
// the store.
//
// Every Registry operation checks out exactly one Conn from the Store and
// releases it on all exit paths. Writers to the same service id are
// serialized in-process, and full replacement of a record goes through
// Conn.Replace, which backends implement as a single transaction.
//
// # Usage
//
//	reg := registry.New(store, log, registry.WithTimeout(3*time.Second))
//	if err := reg.SetService(ctx, "login", "10.0.0.5:9501", registry.External); err != nil {
//	    return err
//	}
//	loc, err := reg.GetService(ctx, "login", registry.External)
//	if errors.Is(err, registry.ErrServiceNotFound) {
//	    // not registered in that network
//	}
package registry
