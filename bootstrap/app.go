package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/discovery/component"
	"github.com/kbukum/discovery/logger"
	"github.com/kbukum/discovery/version"
)

// App drives a service through startup, serving and shutdown. C is the
// service's config type.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.RegisterComponent(store)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    return a.RegisterComponent(server.NewComponent(srv))
//	})
//	err = app.Run(ctx)
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	grace       time.Duration
	onConfigure []ConfigureFunc[C]
	onStart     []Hook
	onReady     []Hook
	onStop      []Hook
}

// NewApp defaults and validates cfg, then builds the logger from its
// logging section unless WithLogger was given.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	s := settings{grace: defaultGracefulTimeout}
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		s.log = logger.New(&base.Logging, base.Name)
		logger.SetGlobalLogger(s.log)
	}

	ver := base.Version
	if ver == "" {
		ver = version.Get().String()
	}

	return &App[C]{
		Name:       base.Name,
		Version:    ver,
		Cfg:        cfg,
		Components: component.NewRegistry(s.log),
		Logger:     s.log,
		Summary:    NewSummary(base.Name, ver, s.summaryOut),
		grace:      s.grace,
	}, nil
}

// RegisterComponent adds c to the lifecycle.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck fails listing every component that is not healthy, e.g.
// "unhealthy components: [redis=unhealthy(ping failed)]".
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var bad []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.OK() {
			continue
		}
		entry := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			entry += "(" + h.Message + ")"
		}
		bad = append(bad, entry)
	}
	if len(bad) == 0 {
		return nil
	}
	return fmt.Errorf("unhealthy components: [%s]", strings.Join(bad, " "))
}

// Run starts the app, waits for SIGINT, SIGTERM or the end of ctx, then
// shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.stop()
}

// Start runs startup without blocking. On failure everything that did
// start is stopped again before the error is returned.
func (a *App[C]) Start(ctx context.Context) error {
	err := a.startup(ctx)
	if err == nil {
		return nil
	}
	if stopErr := a.stop(); stopErr != nil {
		a.Logger.Error("Cleanup after failed startup", logger.ErrorFields("stop", stopErr))
	}
	return err
}

func (a *App[C]) startup(ctx context.Context) error {
	began := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"initialization", a.Components.StartAll},
		{"onStart hook", func(ctx context.Context) error { return runHooks(ctx, a.onStart) }},
		{"configuration", a.configure},
		{"serving components", a.Components.StartAll},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("%s failed: %w", step.name, err)
		}
	}

	// advisory only
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(began))
	a.Summary.Display(ctx, a.Components)
	return nil
}

func (a *App[C]) configure(ctx context.Context) error {
	for i, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
		a.Logger.Debug("Configure callback done", logger.Fields("index", i))
	}
	return nil
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx is done. It returns the
// signal, or nil for a canceled context.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	select {
	case sig := <-ch:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown stops an app that was started with Start.
func (a *App[C]) Shutdown(context.Context) error {
	return a.stop()
}

// stop runs OnStop hooks, then stops components newest first, all within
// the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.grace.String()))
	ctx, cancel := context.WithTimeout(context.Background(), a.grace)
	defer cancel()

	hookErr := runHooks(ctx, a.onStop)
	if hookErr != nil {
		a.Logger.Error("OnStop hook error", logger.Fields(logger.FieldError, hookErr.Error()))
	}
	stopErr := a.Components.StopAll(ctx)
	if stopErr != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, stopErr.Error()))
	}

	a.Logger.Info("Application shutdown complete")
	return errors.Join(hookErr, stopErr)
}
