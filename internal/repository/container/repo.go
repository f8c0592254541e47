// Package container loads restaurant containers from the configured storage
// backend. Every source returns containers ordered by id.
package container

import (
	"context"

	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
)

// Source lists all stored containers.
type Source interface {
	List(ctx context.Context) ([]restaurant.Container, error)
}
