package container

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
)

// FileRepo serves an immutable snapshot loaded from a JSON or YAML file.
type FileRepo struct {
	containers []restaurant.Container
}

// LoadFile reads a dataset file holding a list of containers. YAML is a
// superset of JSON, so both formats go through the YAML decoder. Containers
// without an id get their zero-padded position in the file, which keeps file
// order under the id sort.
func LoadFile(path string) (*FileRepo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return ParseDataset(data)
}

// ParseDataset decodes a dataset held in memory.
func ParseDataset(data []byte) (*FileRepo, error) {
	var raw []any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	width := len(strconv.Itoa(len(raw)))
	containers := make([]restaurant.Container, 0, len(raw))
	for i, doc := range raw {
		// re-encode so field decoding shares the stored-document path
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("dataset entry %d: %w", i, err)
		}
		c, err := decodeContainer(fmt.Sprintf("%0*d", width, i), b)
		if err != nil {
			return nil, err
		}
		containers = append(containers, c)
	}

	sort.SliceStable(containers, func(a, b int) bool {
		return containers[a].ID < containers[b].ID
	})
	return &FileRepo{containers: containers}, nil
}

// List returns the snapshot. The slice is shared; callers must not modify it.
func (r *FileRepo) List(_ context.Context) ([]restaurant.Container, error) {
	return r.containers, nil
}

// Ping always succeeds; the snapshot lives in memory.
func (r *FileRepo) Ping(_ context.Context) error {
	return nil
}
