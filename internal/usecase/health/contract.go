package health

import "context"

// StoragePinger checks restaurant storage availability.
type StoragePinger interface {
	Ping(ctx context.Context) error
}

// ClassifierChecker checks image classifier availability.
type ClassifierChecker interface {
	HealthCheck(ctx context.Context) error
}
