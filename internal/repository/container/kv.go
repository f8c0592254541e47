package container

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
)

// kvStore is the consumer interface for key-value backends (ISP).
type kvStore interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
}

// KVRepo reads containers stored as JSON strings under
// "<prefix>container:<id>".
type KVRepo struct {
	store  kvStore
	prefix string
}

// NewKV creates a key-value backed repository.
func NewKV(s kvStore, keyPrefix string) *KVRepo {
	return &KVRepo{store: s, prefix: keyPrefix}
}

// List scans container keys and fetches them in key order.
func (r *KVRepo) List(ctx context.Context) ([]restaurant.Container, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix()+"*")
	if err != nil {
		return nil, fmt.Errorf("scan containers: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	values, err := r.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch containers: %w", err)
	}

	out := make([]restaurant.Container, 0, len(keys))
	for i, data := range values {
		if data == nil {
			// deleted between SCAN and GET
			continue
		}
		c, err := decodeContainer(r.containerID(keys[i]), data)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *KVRepo) keyPrefix() string {
	return r.prefix + "container:"
}

func (r *KVRepo) containerID(key string) string {
	return strings.TrimPrefix(key, r.keyPrefix())
}
