package platefinder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Origin is (0,0); 0.01 degrees of latitude is about 1.11km.
const dataset = `[
  {"id": "c2", "restaurants": [
    {"restaurant": {"id": "3", "name": "Burrito Barn", "cuisines": "Mexican",
      "location": {"latitude": "0.03", "longitude": "0"}, "price_range": 1}},
    {"restaurant": {"id": "4", "name": "Casa Nowhere", "cuisines": "Mexican", "price_range": 2}},
    {"restaurant": {"id": "5", "name": "Slice Shop", "cuisines": "Pizza, Fast Food",
      "location": {"latitude": 0.01, "longitude": 0}, "price_range": 4,
      "user_rating": {"aggregate_rating": 4.9}}}
  ]},
  {"id": "c1", "restaurants": [
    {"restaurant": {"id": "1", "name": "Taco Town", "cuisines": "Mexican, Tex-Mex",
      "location": {"latitude": 0.1, "longitude": 0}, "price_range": 2}},
    {"restaurant": {"id": "2", "name": "Pizza Palace", "cuisines": "Italian, Pizza",
      "location": {"latitude": 0.02, "longitude": 0, "city": "Null Island"}, "price_range": 3,
      "user_rating": {"aggregate_rating": "4.2", "votes": "7"}, "currency": "$"}}
  ]}
]`

type stubClassifier struct {
	concepts []Concept
	err      error
	healthy  error
	calls    int
}

func (c *stubClassifier) Classify(_ context.Context, _ string) ([]Concept, error) {
	c.calls++
	return c.concepts, c.err
}

func (c *stubClassifier) HealthCheck(_ context.Context) error { return c.healthy }

func datasetFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "restaurants.json")
	if err := os.WriteFile(path, []byte(dataset), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithDatasetFile(datasetFile(t))}, opts...)
	c, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func restaurantIDs(p Page) string {
	ids := make([]string, len(p.Restaurants))
	for i, r := range p.Restaurants {
		ids[i] = r.ID
	}
	return strings.Join(ids, ",")
}

func TestNew_NoStorage(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no storage configured")
	}
}

func TestNew_MissingDataset(t *testing.T) {
	_, err := New(context.Background(), WithDatasetFile(filepath.Join(t.TempDir(), "missing.json")))
	if err == nil {
		t.Fatal("expected error for missing dataset")
	}
}

func TestClient_Ping(t *testing.T) {
	c := newTestClient(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestClient_ByCuisine(t *testing.T) {
	c := newTestClient(t)
	res, err := c.ByCuisine(context.Background(), CuisineQuery{Cuisine: "mexican"})
	if err != nil {
		t.Fatalf("ByCuisine: %v", err)
	}
	if got := restaurantIDs(res); got != "1,3,4" {
		t.Errorf("ids = %s, want 1,3,4", got)
	}
	if res.TotalResults != 3 || res.CurrentPage != 1 || res.TotalPages != 1 {
		t.Errorf("page = %+v", res)
	}
	for _, r := range res.Restaurants {
		if r.DistanceKm != nil {
			t.Errorf("restaurant %s: unexpected distance without origin", r.ID)
		}
	}
}

func TestClient_ByCuisine_Near(t *testing.T) {
	c := newTestClient(t)
	res, err := c.ByCuisine(context.Background(), CuisineQuery{
		Cuisine: "pizza",
		Near:    &Point{Lat: 0, Lon: 0},
	})
	if err != nil {
		t.Fatalf("ByCuisine: %v", err)
	}
	if got := restaurantIDs(res); got != "5,2" {
		t.Fatalf("ids = %s, want 5,2", got)
	}
	d := res.Restaurants[0].DistanceKm
	if d == nil || *d < 1.1 || *d > 1.12 {
		t.Errorf("DistanceKm = %v, want ~1.11", d)
	}
}

func TestClient_ByCuisine_Errors(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if _, err := c.ByCuisine(ctx, CuisineQuery{Cuisine: "sushi"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown cuisine: err = %v, want ErrNotFound", err)
	}
	_, err := c.ByCuisine(ctx, CuisineQuery{Cuisine: "pizza", Near: &Point{Lat: 91, Lon: 0}})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("bad origin: err = %v, want ErrInvalidArgument", err)
	}
	_, err = c.ByCuisine(ctx, CuisineQuery{Cuisine: "mexican", Near: &Point{}, MaxDistanceKm: 0.5})
	if !errors.Is(err, ErrNotFound) || !strings.Contains(err.Error(), "0.5km") {
		t.Errorf("out of range: err = %v", err)
	}
}

func TestClient_GetAndList(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	r, err := c.Get(ctx, "2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r.Name != "Pizza Palace" || r.Currency != "$" || r.PriceRange != 3 {
		t.Errorf("restaurant = %+v", r)
	}
	if r.Location == nil || r.Location.Lat != 0.02 || r.Location.City != "Null Island" {
		t.Errorf("Location = %+v", r.Location)
	}
	if r.Rating == nil || r.Rating.Aggregate != 4.2 || r.Rating.Votes != 7 {
		t.Errorf("Rating = %+v", r.Rating)
	}

	if _, err := c.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: err = %v", err)
	}

	p, err := c.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := restaurantIDs(p); got != "1,2" {
		t.Errorf("ids = %s, want 1,2", got)
	}
	if p.TotalResults != 5 || p.TotalPages != 3 {
		t.Errorf("page = %+v", p)
	}
}

func TestClient_ByImage(t *testing.T) {
	clf := &stubClassifier{concepts: []Concept{
		{Label: "pizza", Confidence: 0.93},
		{Label: "table", Confidence: 0.2},
	}}
	c := newTestClient(t, WithClassifier(clf))

	res, err := c.ByImage(context.Background(), ImageQuery{
		ImagePath:  "photo.jpg",
		PriceRange: &[2]int{1, 3},
	})
	if err != nil {
		t.Fatalf("ByImage: %v", err)
	}
	if !res.Matched {
		t.Fatal("expected a match")
	}
	if len(res.Tags) != 1 || res.Tags[0] != "pizza" {
		t.Errorf("Tags = %v", res.Tags)
	}
	if got := restaurantIDs(res.Page); got != "2" {
		t.Errorf("ids = %s, want 2", got)
	}
}

func TestClient_ByImage_NoMatch(t *testing.T) {
	clf := &stubClassifier{concepts: []Concept{{Label: "sushi", Confidence: 0.8}}}
	c := newTestClient(t, WithClassifier(clf))

	res, err := c.ByImage(context.Background(), ImageQuery{ImagePath: "photo.jpg"})
	if err != nil {
		t.Fatalf("ByImage: %v", err)
	}
	if res.Matched || len(res.Page.Restaurants) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestClient_ByImage_Errors(t *testing.T) {
	ctx := context.Background()

	noClf := newTestClient(t)
	if _, err := noClf.ByImage(ctx, ImageQuery{ImagePath: "photo.jpg"}); !errors.Is(err, ErrExternalService) {
		t.Errorf("no classifier: err = %v, want ErrExternalService", err)
	}

	clf := &stubClassifier{err: errors.New("quota")}
	c := newTestClient(t, WithClassifier(clf))
	if _, err := c.ByImage(ctx, ImageQuery{ImagePath: "photo.jpg"}); !errors.Is(err, ErrExternalService) {
		t.Errorf("classifier failure: err = %v, want ErrExternalService", err)
	}

	calls := clf.calls
	bad := []ImageQuery{
		{},
		{ImagePath: "photo.jpg", PriceRange: &[2]int{4, 1}},
		{ImagePath: "photo.jpg", MinRating: ptr(6.0)},
	}
	for _, q := range bad {
		if _, err := c.ByImage(ctx, q); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("query %+v: err = %v, want ErrInvalidArgument", q, err)
		}
	}
	if clf.calls != calls {
		t.Error("classifier must not run for invalid filters")
	}
}

func TestClient_Health(t *testing.T) {
	ctx := context.Background()

	if h := newTestClient(t).Health(ctx); h.Status != "ok" || h.Checks["storage"] != "ok" {
		t.Errorf("Health() = %+v", h)
	}

	clf := &stubClassifier{healthy: errors.New("down")}
	h := newTestClient(t, WithClassifier(clf)).Health(ctx)
	if h.Status != "degraded" || h.Checks["classifier"] != "error" {
		t.Errorf("Health() = %+v", h)
	}
}

func TestClient_Observability(t *testing.T) {
	reg := prometheus.NewRegistry()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := newTestClient(t, WithPrometheus(reg), WithLogger(logger))
	ctx := context.Background()

	_, _ = c.Get(ctx, "1")
	_, _ = c.Get(ctx, "missing")
	_, _ = c.ByCuisine(ctx, CuisineQuery{Cuisine: "pizza", Near: &Point{Lat: 91}})
	_, _ = c.ByImage(ctx, ImageQuery{ImagePath: "photo.jpg"})

	counts := []struct {
		op, status string
	}{
		{opGet, statusOK},
		{opGet, statusNotFound},
		{opByCuisine, statusInvalid},
		{opByImage, statusError},
	}
	for _, tt := range counts {
		if got := testutil.ToFloat64(c.obs.metrics.operations.WithLabelValues(tt.op, tt.status)); got != 1 {
			t.Errorf("%s/%s count = %v, want 1", tt.op, tt.status, got)
		}
	}

	logs := buf.String()
	if strings.Count(logs, "operation failed") != 1 || !strings.Contains(logs, "op=by_image") {
		t.Errorf("only the classifier failure should log as failed, got %q", logs)
	}
	if !strings.Contains(logs, "status=not_found") {
		t.Errorf("expected not_found outcome in logs, got %q", logs)
	}

	// a second client on the same registry reuses the collectors
	if _, err := New(ctx, WithDatasetFile(datasetFile(t)), WithPrometheus(reg)); err != nil {
		t.Fatalf("New with shared registry: %v", err)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, statusOK},
		{fmt.Errorf("get: %w", ErrNotFound), statusNotFound},
		{ErrInvalidArgument, statusInvalid},
		{ErrExternalService, statusError},
		{errors.New("boom"), statusError},
	}
	for _, tt := range tests {
		if got := outcome(tt.err); got != tt.want {
			t.Errorf("outcome(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestObserver_Nil(t *testing.T) {
	var o *observer
	o.observe("noop", time.Now(), nil)
}

func ptr[T any](v T) *T { return &v }
