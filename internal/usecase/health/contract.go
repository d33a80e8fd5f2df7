package health

import "context"

// Pinger checks backend availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks summary provider availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
