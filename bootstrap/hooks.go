package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a callback run at a fixed point of the lifecycle.
type Hook func(ctx context.Context) error

// ConfigureFunc wires the application once its infrastructure is up. It
// may register more components; they are started right after.
type ConfigureFunc[C Config] func(ctx context.Context, app *App[C]) error

// OnStart hooks run after the first batch of components started.
func (a *App[C]) OnStart(hooks ...Hook) { a.onStart = append(a.onStart, hooks...) }

// OnReady hooks run after every component started, just before the summary.
func (a *App[C]) OnReady(hooks ...Hook) { a.onReady = append(a.onReady, hooks...) }

// OnStop hooks run at shutdown, before any component is stopped.
func (a *App[C]) OnStop(hooks ...Hook) { a.onStop = append(a.onStop, hooks...) }

// OnConfigure adds a configure callback.
func (a *App[C]) OnConfigure(fn ConfigureFunc[C]) { a.onConfigure = append(a.onConfigure, fn) }

func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
