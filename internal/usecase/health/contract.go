package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// DependencyChecker checks an external provider's availability.
type DependencyChecker interface {
	HealthCheck(ctx context.Context) error
}
