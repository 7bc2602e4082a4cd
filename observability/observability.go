package observability

import (
	"context"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
)

// ShutdownFunc flushes and stops the installed providers.
type ShutdownFunc func(ctx context.Context) error

// Setup installs the providers enabled in cfg. With both disabled the
// global no-op providers stay in place and the shutdown func does nothing.
func Setup(ctx context.Context, cfg Config, res Resource) (ShutdownFunc, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var shutdowns []ShutdownFunc
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.Tracing.Enabled {
		tp, err := InitTracer(ctx, cfg.Tracing, res)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}
	if cfg.Metrics.Enabled {
		mp, err := InitMeter(ctx, cfg.Metrics, res)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}
	return shutdown, nil
}

// HTTPMiddleware builds Middleware with instruments on the global meter
// provider. Call it after Setup.
func HTTPMiddleware() (func(http.Handler) http.Handler, error) {
	metrics, err := NewHTTPMetrics(otel.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}
	return Middleware(metrics), nil
}
