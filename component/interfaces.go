package component

import "context"

// HealthStatus is the coarse state reported by /health.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is one component's entry in a health report.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// OK reports whether h is healthy.
func (h Health) OK() bool { return h.Status == StatusHealthy }

// Component is a piece of infrastructure the service owns for its whole
// lifetime, such as the location store or the HTTP listener. Names must be
// unique within a Registry.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is how a component appears in the startup summary, e.g.
// {Name: "redis", Type: "store", Details: "localhost:6379 db=15 pool=500"}.
// An empty Name falls back to Component.Name; Port is 0 when there is none.
type Description struct {
	Name    string
	Type    string
	Details string
	Port    int
}

// Describable components are listed in the startup summary.
type Describable interface {
	Describe() Description
}

// Route is a single served route as listed in the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is implemented by components that serve HTTP routes.
type RouteProvider interface {
	Routes() []Route
}
