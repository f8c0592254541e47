package platefinder

import (
	"context"

	"github.com/kailas-cloud/platefinder/internal/domain/search/tags"
)

// Classifier labels the image stored at imagePath.
// Implementations may also provide HealthCheck(ctx) error; Health then
// reports on them.
type Classifier interface {
	Classify(ctx context.Context, imagePath string) ([]Concept, error)
}

// Concept is one label reported by a Classifier with its confidence in [0,1].
// Only concepts above 0.5 become search tags.
type Concept struct {
	Label      string
	Confidence float64
}

// classifierAdapter wraps a public Classifier into the search use case contract.
type classifierAdapter struct {
	inner Classifier
}

func (a *classifierAdapter) Classify(ctx context.Context, path string) ([]tags.Concept, error) {
	concepts, err := a.inner.Classify(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make([]tags.Concept, len(concepts))
	for i, c := range concepts {
		out[i] = tags.Concept{Label: c.Label, Confidence: c.Confidence}
	}
	return out, nil
}

func (a *classifierAdapter) HealthCheck(ctx context.Context) error {
	if hc, ok := a.inner.(interface {
		HealthCheck(ctx context.Context) error
	}); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
