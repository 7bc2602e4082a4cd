// Command discovery serves the service registry over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbukum/discovery/api"
	"github.com/kbukum/discovery/auth"
	"github.com/kbukum/discovery/bootstrap"
	"github.com/kbukum/discovery/config"
	"github.com/kbukum/discovery/logger"
	"github.com/kbukum/discovery/observability"
	"github.com/kbukum/discovery/registry"
	"github.com/kbukum/discovery/server"
	"github.com/kbukum/discovery/version"
)

const serviceName = "discovery"

func main() {
	flags := pflag.NewFlagSet(serviceName, pflag.ExitOnError)
	configFile := flags.StringP("config", "c", "", "path to the YAML config file")
	envFile := flags.String("env-file", "", "path to a .env file")
	showVersion := flags.BoolP("version", "v", false, "print the version and exit")
	_ = flags.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println(version.Get().String())
		return
	}

	if err := run(context.Background(), *configFile, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile, envFile string) error {
	cfg, err := loadConfig(configFile, envFile)
	if err != nil {
		return err
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	shutdownTelemetry, err := observability.Setup(ctx, cfg.Observability, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: app.Version,
		Environment:    cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			app.Logger.Warn("Telemetry shutdown failed", logger.ErrorFields("telemetry_shutdown", err))
		}
	}()

	if _, err := newService(app); err != nil {
		return err
	}
	return app.Run(ctx)
}

func loadConfig(configFile, envFile string) (*Config, error) {
	cfg := newConfig()
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// service holds what the configure phase builds.
type service struct {
	backend  storeBackend
	registry *registry.Registry
	server   *server.Server
}

// newService registers the store component and the configure callback.
func newService(app *bootstrap.App[*Config]) (*service, error) {
	backend, err := newStoreBackend(app.Cfg, app.Logger)
	if err != nil {
		return nil, err
	}
	if backend.component != nil {
		if err := app.RegisterComponent(backend.component); err != nil {
			return nil, err
		}
	}
	svc := &service{backend: backend}
	app.OnConfigure(svc.configure)
	return svc, nil
}

// configure runs once the store is connected: it seeds the registry, mounts
// the API and registers the HTTP server so it starts with every route in
// place.
func (s *service) configure(ctx context.Context, app *bootstrap.App[*Config]) error {
	cfg := app.Cfg

	s.registry = registry.New(s.backend.store(), app.Logger, registry.WithTimeout(cfg.Discovery.Timeout))

	seeded, err := registry.NewLoader(s.registry, cfg.Discovery.ServicesInitFile, app.Logger).Started(ctx)
	if err != nil {
		return fmt.Errorf("service definitions: %w", err)
	}

	gate, err := auth.NewGate(cfg.Auth)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	s.server = server.New(cfg.Server, app.Logger)
	s.server.ApplyDefaults(cfg.Name, app.Components.HealthAll)
	telemetry, err := observability.HTTPMiddleware()
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	s.server.Use(telemetry)

	api.NewHandler(s.registry, cfg.Discovery.APIVersion, gate, app.Logger).RegisterRoutes(s.server.GinEngine())

	app.Summary.Track("store", cfg.Store.Provider)
	app.Summary.Track("auth", cfg.Auth.Describe())
	app.Summary.Track("api version", cfg.Discovery.APIVersion)
	if seeded {
		app.Summary.Track("definitions", cfg.Discovery.ServicesInitFile)
	}
	for _, network := range registry.Networks {
		loc, err := s.registry.AuthLocation(ctx, network)
		if err != nil {
			app.Logger.Warn("Auth location lookup failed", logger.ErrorFields("auth_location", err))
			continue
		}
		app.Summary.Track(registry.AuthServiceID+" ("+network+")", loc)
	}

	return app.RegisterComponent(server.NewComponent(s.server))
}
