package registry

import (
	"context"

	"github.com/kbukum/discovery/logger"
)

// Loader seeds an empty store from a definitions file at startup.
type Loader struct {
	registry *Registry
	path     string
	log      *logger.Logger
}

// NewLoader creates a Loader. An empty path disables seeding.
func NewLoader(reg *Registry, path string, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{registry: reg, path: path, log: log.WithComponent("bootstrap-loader")}
}

// Started applies the definitions file when one is configured and the store
// holds no records. It returns true when definitions were applied.
func (l *Loader) Started(ctx context.Context) (bool, error) {
	if l.path == "" {
		l.log.Debug("No definitions file configured")
		return false, nil
	}

	empty, err := l.registry.IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		l.log.Info("Store already populated, skipping definitions", logger.Fields("path", l.path))
		return false, nil
	}

	defs, err := ReadDefinitions(l.path)
	if err != nil {
		return false, err
	}
	if err := l.registry.SetupServices(ctx, defs); err != nil {
		return false, err
	}

	l.log.Info("Service definitions applied", logger.Fields(
		"path", l.path,
		"services", len(defs.Services),
	))
	return true, nil
}
