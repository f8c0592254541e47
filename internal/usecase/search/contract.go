package search

import (
	"context"

	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
	"github.com/kailas-cloud/platefinder/internal/domain/search/tags"
)

// ContainerSource lists stored restaurant containers in a stable order.
type ContainerSource interface {
	List(ctx context.Context) ([]restaurant.Container, error)
}

// Classifier labels the image stored at path.
type Classifier interface {
	Classify(ctx context.Context, path string) ([]tags.Concept, error)
}
