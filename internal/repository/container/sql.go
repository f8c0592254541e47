package container

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/platefinder/internal/db/sqldb"
	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
)

// sqlStore is the consumer interface for SQL backends (ISP).
type sqlStore interface {
	ListDocuments(ctx context.Context) ([]sqldb.Document, error)
}

// SQLRepo reads containers stored as JSON documents in a SQL table.
type SQLRepo struct {
	store sqlStore
}

// NewSQL creates a SQL backed repository.
func NewSQL(s sqlStore) *SQLRepo {
	return &SQLRepo{store: s}
}

// List returns all containers ordered by id.
func (r *SQLRepo) List(ctx context.Context) ([]restaurant.Container, error) {
	docs, err := r.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	out := make([]restaurant.Container, 0, len(docs))
	for _, d := range docs {
		c, err := decodeContainer(d.ID, []byte(d.Body))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
