package registry

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/im7mortal/kmutex"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/discovery/errors"
	"github.com/kbukum/discovery/logger"
	"github.com/kbukum/discovery/validation"
)

// DefaultTimeout bounds a single registry operation, including the wait for
// a pooled connection.
const DefaultTimeout = 5 * time.Second

// Registry reads and writes service locations through a Store.
// It holds no record state of its own and is safe for concurrent use.
type Registry struct {
	store     Store
	log       *logger.Logger
	timeout   time.Duration
	writers   *kmutex.Kmutex
	telemetry *telemetry
}

// Option configures a Registry.
type Option func(*Registry)

// WithTimeout sets the per-operation deadline. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Registry) { r.timeout = d }
}

// New creates a Registry backed by store.
func New(store Store, log *logger.Logger, opts ...Option) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	r := &Registry{
		store:     store,
		log:       log.WithComponent("registry"),
		timeout:   DefaultTimeout,
		writers:   kmutex.New(),
		telemetry: newTelemetry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetService returns the location of id in network.
// It fails with a NotFoundError when the record or the field is absent, or
// when the stored location is empty.
func (r *Registry) GetService(ctx context.Context, id, network string) (string, error) {
	if err := validation.New().ServiceID("service_id", id).Network("network", network).Err(); err != nil {
		return "", err
	}

	var location string
	err := r.do(ctx, "get_service", func(ctx context.Context, conn Conn) error {
		loc, err := conn.Get(ctx, id, network)
		if err != nil {
			return err
		}
		if loc == "" {
			return notFound(id)
		}
		location = loc
		return nil
	}, attribute.String("service.id", id), attribute.String("service.network", network))
	return location, err
}

// ListServiceNetworks returns every network of id with its location.
func (r *Registry) ListServiceNetworks(ctx context.Context, id string) (map[string]string, error) {
	if err := validation.New().ServiceID("service_id", id).Err(); err != nil {
		return nil, err
	}

	var networks map[string]string
	err := r.do(ctx, "list_service_networks", func(ctx context.Context, conn Conn) error {
		all, err := conn.GetAll(ctx, id)
		if err != nil {
			return err
		}
		if len(all) == 0 {
			return notFound(id)
		}
		networks = all
		return nil
	}, attribute.String("service.id", id))
	return networks, err
}

// ListServices resolves several ids in one network. It fails on the first id
// with no location, reporting that id; no partial result is returned.
func (r *Registry) ListServices(ctx context.Context, ids []string, network string) (map[string]string, error) {
	v := validation.New().Network("network", network)
	for _, id := range ids {
		v.ServiceID("service_ids", id)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	result := make(map[string]string, len(ids))
	err := r.do(ctx, "list_services", func(ctx context.Context, conn Conn) error {
		for _, id := range ids {
			loc, err := conn.Get(ctx, id, network)
			if err != nil {
				return err
			}
			if loc == "" {
				return notFound(id)
			}
			result[id] = loc
		}
		return nil
	}, attribute.Int("service.count", len(ids)), attribute.String("service.network", network))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListAllServices returns the location in network of every registered id.
// Ids with no location in that network map to "".
func (r *Registry) ListAllServices(ctx context.Context, network string) (map[string]string, error) {
	if err := validation.New().Network("network", network).Err(); err != nil {
		return nil, err
	}

	var result map[string]string
	err := r.do(ctx, "list_all_services", func(ctx context.Context, conn Conn) error {
		ids, err := conn.Keys(ctx, "*")
		if err != nil {
			return err
		}
		result = make(map[string]string, len(ids))
		for _, id := range ids {
			loc, err := conn.Get(ctx, id, network)
			if err != nil {
				return err
			}
			result[id] = loc
		}
		return nil
	}, attribute.String("service.network", network))
	return result, err
}

// SetService upserts one network location of id, creating the record if needed.
func (r *Registry) SetService(ctx context.Context, id, location, network string) error {
	if err := validation.New().
		ServiceID("service_id", id).
		Network("network", network).
		Location("location", location).
		Err(); err != nil {
		return err
	}

	r.writers.Lock(id)
	defer r.writers.Unlock(id)

	err := r.do(ctx, "set_service", func(ctx context.Context, conn Conn) error {
		return conn.Set(ctx, id, network, location)
	}, attribute.String("service.id", id), attribute.String("service.network", network))
	if err == nil {
		r.log.Info("Service location set", logger.Fields(
			logger.FieldServiceID, id,
			logger.FieldNetwork, network,
			logger.FieldLocation, location,
		))
	}
	return err
}

// SetServiceNetworks replaces the whole record of id with networks in one
// atomic step. Networks absent from the map are dropped; an empty map
// removes the record.
func (r *Registry) SetServiceNetworks(ctx context.Context, id string, networks map[string]string) error {
	v := validation.New().ServiceID("service_id", id)
	for network, location := range networks {
		v.Network("networks", network).Location("networks."+network, location)
	}
	if err := v.Err(); err != nil {
		return err
	}

	r.writers.Lock(id)
	defer r.writers.Unlock(id)

	err := r.do(ctx, "set_service_networks", func(ctx context.Context, conn Conn) error {
		return conn.Replace(ctx, id, networks)
	}, attribute.String("service.id", id), attribute.Int("service.networks", len(networks)))
	if err == nil {
		r.log.Info("Service record replaced", logger.Fields(
			logger.FieldServiceID, id,
			"networks", len(networks),
		))
	}
	return err
}

// DeleteService removes the whole record of id. Deleting an unknown id is
// not an error.
func (r *Registry) DeleteService(ctx context.Context, id string) error {
	if err := validation.New().ServiceID("service_id", id).Err(); err != nil {
		return err
	}

	r.writers.Lock(id)
	defer r.writers.Unlock(id)

	err := r.do(ctx, "delete_service", func(ctx context.Context, conn Conn) error {
		return conn.Delete(ctx, id)
	}, attribute.String("service.id", id))
	if err == nil {
		r.log.Info("Service deleted", logger.Fields(logger.FieldServiceID, id))
	}
	return err
}

// DeleteServiceNetwork removes one network of id.
func (r *Registry) DeleteServiceNetwork(ctx context.Context, id, network string) error {
	if err := validation.New().ServiceID("service_id", id).Network("network", network).Err(); err != nil {
		return err
	}

	r.writers.Lock(id)
	defer r.writers.Unlock(id)

	err := r.do(ctx, "delete_service_network", func(ctx context.Context, conn Conn) error {
		return conn.DeleteField(ctx, id, network)
	}, attribute.String("service.id", id), attribute.String("service.network", network))
	if err == nil {
		r.log.Info("Service network deleted", logger.Fields(
			logger.FieldServiceID, id,
			logger.FieldNetwork, network,
		))
	}
	return err
}

// IsEmpty reports whether no record exists.
func (r *Registry) IsEmpty(ctx context.Context) (bool, error) {
	empty := true
	err := r.do(ctx, "is_empty", func(ctx context.Context, conn Conn) error {
		ids, err := conn.Keys(ctx, "*")
		if err != nil {
			return err
		}
		empty = len(ids) == 0
		return nil
	})
	return empty, err
}

// AuthLocation returns the login service location in network, or "" when
// login is not registered there.
func (r *Registry) AuthLocation(ctx context.Context, network string) (string, error) {
	loc, err := r.GetService(ctx, AuthServiceID, network)
	if stderrors.Is(err, ErrServiceNotFound) {
		return "", nil
	}
	return loc, err
}

// do runs fn with one pooled connection under the operation deadline and
// records the outcome. The connection is released on every path.
func (r *Registry) do(ctx context.Context, op string, fn func(context.Context, Conn) error, attrs ...attribute.KeyValue) (err error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	ctx, span := r.telemetry.start(ctx, op, attrs...)
	started := time.Now()
	defer func() { r.telemetry.finish(ctx, span, op, started, err) }()

	conn, err := r.store.Acquire(ctx)
	if err != nil {
		return r.backendError(ctx, op, err)
	}
	defer func() {
		if rerr := conn.Release(); rerr != nil {
			r.log.Warn("Connection release failed", logger.Fields(
				logger.FieldOperation, op,
				logger.FieldError, rerr.Error(),
			))
		}
	}()

	if err := fn(ctx, conn); err != nil {
		if stderrors.Is(err, ErrServiceNotFound) || errors.IsAppError(err) {
			return err
		}
		return r.backendError(ctx, op, err)
	}
	return nil
}

func (r *Registry) backendError(ctx context.Context, op string, err error) error {
	r.log.WithContext(ctx).Error("Store operation failed", logger.Fields(
		logger.FieldOperation, op,
		logger.FieldError, err.Error(),
	))
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Timeout(op).WithCause(err)
	}
	return errors.StoreError(err)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case stderrors.Is(err, ErrServiceNotFound):
		return outcomeNotFound
	}
	if appErr, ok := errors.AsAppError(err); ok && appErr.HTTPStatus < 500 {
		return outcomeInvalid
	}
	return outcomeError
}
