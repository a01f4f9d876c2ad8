package component

import "context"

// HealthStatus is what /health reports per component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a piece of infrastructure the process starts before serving
// and stops on shutdown: the database, Redis, exporters, the HTTP server.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	// Stop must be safe to call on a component whose Start failed.
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is one line of the startup summary. An empty Name falls back
// to Component.Name; Port is 0 for components that do not listen.
type Description struct {
	Name    string
	Type    string
	Details string
	Port    int
}

// Describable components appear in the startup summary.
type Describable interface {
	Describe() Description
}
