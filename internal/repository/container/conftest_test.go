package container

import (
	"context"

	"github.com/kailas-cloud/platefinder/internal/db/sqldb"
)

// mockKVStore implements kvStore for tests.
type mockKVStore struct {
	scanFn func(ctx context.Context, pattern string) ([]string, error)
	mgetFn func(ctx context.Context, keys []string) ([][]byte, error)
}

func (m *mockKVStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockKVStore) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if m.mgetFn != nil {
		return m.mgetFn(ctx, keys)
	}
	return make([][]byte, len(keys)), nil
}

// mockSQLStore implements sqlStore for tests.
type mockSQLStore struct {
	listFn func(ctx context.Context) ([]sqldb.Document, error)
}

func (m *mockSQLStore) ListDocuments(ctx context.Context) ([]sqldb.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

const tacoDoc = `{
  "restaurants": [
    {"restaurant": {
      "id": "16774318",
      "name": "Taco Town",
      "cuisines": "Mexican, Tex-Mex",
      "location": {"latitude": "40.7128", "longitude": "-74.0060", "address": "1 Main St", "locality": "SoHo", "city": "New York"},
      "user_rating": {"aggregate_rating": "4.5", "rating_text": "Excellent", "votes": "120"},
      "price_range": 2,
      "featured_image": "https://img.example/taco.jpg",
      "thumb": "https://img.example/taco_thumb.jpg",
      "url": "https://example.com/taco",
      "menu_url": "https://example.com/taco/menu",
      "currency": "$",
      "average_cost_for_two": 30
    }},
    {"restaurant": {
      "id": 17,
      "name": "Nowhere Diner",
      "cuisines": "American",
      "location": {"latitude": "n/a", "longitude": "0"},
      "price_range": "1"
    }}
  ]
}`
