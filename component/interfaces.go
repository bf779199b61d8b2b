package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Overall folds component health into one status: any unhealthy component
// makes the whole unhealthy, otherwise any degraded one degrades it.
func Overall(healths []Health) HealthStatus {
	status := StatusHealthy
	for _, h := range healths {
		switch h.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

// Component represents a lifecycle-managed process resource.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description holds summary information logged at startup.
type Description struct {
	// Name is the human-readable display name. If empty, the component's
	// Name() is used.
	Name string
	// Type categorizes the component, e.g. "telemetry".
	Type string
	// Details is a one-line configuration summary.
	Details string
}

// Describable is optionally implemented by components to self-report what
// they are and how they're configured.
type Describable interface {
	Describe() Description
}
