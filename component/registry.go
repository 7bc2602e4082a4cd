package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/discovery/logger"
)

// stopTimeout bounds each component's Stop independently of the others.
const stopTimeout = 10 * time.Second

// Registry owns the service's components. They start in registration order
// and stop in reverse, so a component may rely on everything registered
// before it. StartAll can be called again after more registrations; it only
// starts the newcomers.
type Registry struct {
	mu      sync.RWMutex
	order   []Component
	byName  map[string]Component
	started map[string]bool
	log     *logger.Logger
}

// NewRegistry creates an empty Registry. A nil log discards output.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		byName:  map[string]Component{},
		started: map[string]bool{},
		log:     log.WithComponent("components"),
	}
}

// Register appends c. Names must be unique.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("component %s already registered", name)
	}
	r.order = append(r.order, c)
	r.byName[name] = c
	r.log.Debug("Component registered", logger.Fields(logger.FieldComponent, name))
	return nil
}

// StartAll starts every component that is not running yet. The first
// failure aborts the pass; whatever did start remains running for StopAll.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := 0
	for _, c := range r.order {
		if !r.started[c.Name()] {
			pending++
		}
	}
	if pending == 0 {
		return nil
	}
	r.log.Info("Starting components", logger.Fields("pending", pending, "registered", len(r.order)))

	for _, c := range r.order {
		name := c.Name()
		if r.started[name] {
			continue
		}
		began := time.Now()
		if err := c.Start(ctx); err != nil {
			r.log.Error("Component start failed", logger.Fields(
				logger.FieldComponent, name,
				logger.FieldError, err.Error(),
			))
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		r.started[name] = true
		r.log.Debug("Component started", logger.Fields(
			logger.FieldComponent, name,
			"took", time.Since(began).String(),
		))
	}
	return nil
}

// StopAll stops running components, newest first, and joins their errors.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.order) - 1; i >= 0; i-- {
		c := r.order[i]
		name := c.Name()
		if !r.started[name] {
			continue
		}
		delete(r.started, name)

		if err := stopOne(ctx, c); err != nil {
			r.log.Error("Component stop failed", logger.Fields(
				logger.FieldComponent, name,
				logger.FieldError, err.Error(),
			))
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
			continue
		}
		r.log.Info("Component stopped", logger.Fields(logger.FieldComponent, name))
	}
	return errors.Join(errs...)
}

func stopOne(ctx context.Context, c Component) error {
	ctx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	return c.Stop(ctx)
}

// HealthAll asks every registered component for its health, in
// registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, len(r.order))
	for i, c := range r.order {
		out[i] = c.Health(ctx)
	}
	return out
}

// Get returns the component registered as name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// Running reports whether name has been started and not stopped since.
func (r *Registry) Running(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.started[name]
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Component(nil), r.order...)
}
