package server

import (
	"context"
	"fmt"

	"github.com/kbukum/discovery/component"
)

const componentName = "http-server"

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// Component adapts a Server to the component lifecycle.
type Component struct {
	server *Server
}

// NewComponent returns a component backed by s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

func (c *Component) Name() string { return componentName }

func (c *Component) Start(ctx context.Context) error {
	return c.server.Start(ctx)
}

func (c *Component) Stop(ctx context.Context) error {
	return c.server.Stop(ctx)
}

// Health reports healthy once the listener is bound.
func (c *Component) Health(_ context.Context) component.Health {
	c.server.mu.Lock()
	bound := c.server.listener != nil
	c.server.mu.Unlock()
	if bound {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "HTTP server not started",
	}
}

// Describe reports the bound address and the request limits.
func (c *Component) Describe() component.Description {
	cfg := c.server.config
	details := c.server.Addr()
	if cfg.MaxBodySize != "" {
		details += " max_body=" + cfg.MaxBodySize
	}
	if cfg.RateLimit.Enabled() {
		details += fmt.Sprintf(" rate=%g/s burst=%d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	return component.Description{Name: "HTTP API", Type: "server", Details: details}
}

// Routes lists the engine's routes for the startup summary.
func (c *Component) Routes() []component.Route {
	return summarizeRoutes(c.server.engine.Routes())
}
