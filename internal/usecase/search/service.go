package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/platefinder/internal/domain"
	"github.com/kailas-cloud/platefinder/internal/domain/geo"
	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
	"github.com/kailas-cloud/platefinder/internal/domain/search/cuisine"
	"github.com/kailas-cloud/platefinder/internal/domain/search/filter"
	"github.com/kailas-cloud/platefinder/internal/domain/search/page"
	"github.com/kailas-cloud/platefinder/internal/domain/search/proximity"
	"github.com/kailas-cloud/platefinder/internal/domain/search/tags"
	"github.com/kailas-cloud/platefinder/internal/logger"
	"github.com/kailas-cloud/platefinder/internal/metrics"
)

// Not-found messages returned to clients.
const (
	MsgNoCuisineMatch = "No restaurants found for the given cuisine"
	MsgNoneWithin     = "No restaurants found within %gkm of your location"
	MsgNotFound       = "Restaurant not found"
	MsgNoRestaurants  = "No restaurants found"
)

// Config holds pagination and radius defaults.
type Config struct {
	CuisinePageSize      int
	ImagePageSize        int
	MaxPageSize          int
	DefaultMaxDistanceKm float64
}

// Service runs the restaurant retrieval pipelines.
type Service struct {
	source     ContainerSource
	classifier Classifier
	cfg        Config
}

// New creates a search service. classifier may be nil when image search is
// disabled; ByImage then fails with ErrExternalService.
func New(source ContainerSource, classifier Classifier, cfg Config) *Service {
	if cfg.CuisinePageSize <= 0 {
		cfg.CuisinePageSize = 6
	}
	if cfg.ImagePageSize <= 0 {
		cfg.ImagePageSize = 10
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	if cfg.DefaultMaxDistanceKm <= 0 {
		cfg.DefaultMaxDistanceKm = proximity.DefaultMaxDistanceKm
	}
	return &Service{source: source, classifier: classifier, cfg: cfg}
}

// CuisineQuery is a parsed cuisine search request. Zero Page, Limit and
// MaxDistanceKm mean "use the default".
type CuisineQuery struct {
	Cuisine       string
	Origin        *geo.Point
	MaxDistanceKm float64
	Page          int
	Limit         int
}

// ByCuisine matches the cuisine keyword, applies the optional proximity
// filter and returns the requested page. An empty page is a NotFoundError
// whose message depends on whether an origin was given.
func (s *Service) ByCuisine(ctx context.Context, q CuisineQuery) (page.Page[restaurant.Enriched], error) {
	if strings.TrimSpace(q.Cuisine) == "" {
		return page.Page[restaurant.Enriched]{}, domain.NewInvalidArgument("cuisine", "is required")
	}

	containers, err := s.containers(ctx)
	if err != nil {
		return page.Page[restaurant.Enriched]{}, err
	}

	matched, err := cuisine.Match(containers, q.Cuisine)
	if err != nil {
		return page.Page[restaurant.Enriched]{}, err
	}

	maxDistance := q.MaxDistanceKm
	if maxDistance <= 0 {
		maxDistance = s.cfg.DefaultMaxDistanceKm
	}
	ranked := proximity.Apply(matched, q.Origin, maxDistance)
	metrics.SearchResults.WithLabelValues(metrics.EndpointCuisine).Observe(float64(len(ranked)))

	logger.FromContext(ctx).Debug("Cuisine search",
		zap.String("cuisine", q.Cuisine),
		zap.Bool("origin", q.Origin != nil),
		zap.Int("matched", len(matched)),
		zap.Int("in_range", len(ranked)),
	)

	p, err := page.Paginate(ranked, q.Page, s.limit(q.Limit, s.cfg.CuisinePageSize))
	if errors.Is(err, page.ErrEmpty) {
		if q.Origin != nil {
			return p, domain.NewNotFound(fmt.Sprintf(MsgNoneWithin, maxDistance))
		}
		return p, domain.NewNotFound(MsgNoCuisineMatch)
	}
	if err != nil {
		return p, fmt.Errorf("paginate: %w", err)
	}
	return p, nil
}

// ImageQuery is a parsed image search request.
type ImageQuery struct {
	ImagePath string
	Filters   filter.SearchFilters
	Page      int
	Limit     int
}

// ImageResult is the outcome of an image search. Matched is false when no
// restaurant matched; Page is then empty.
type ImageResult struct {
	Tags    []string
	Matched bool
	Page    page.Page[restaurant.Restaurant]
}

// ByImage classifies the image, turns confident labels into a tag
// predicate, narrows it by the structured filters and returns the requested
// page. Zero labels is a valid search with no match and skips storage.
func (s *Service) ByImage(ctx context.Context, q ImageQuery) (ImageResult, error) {
	if s.classifier == nil {
		return ImageResult{}, fmt.Errorf("image classifier not configured: %w", domain.ErrExternalService)
	}

	concepts, err := s.classifier.Classify(ctx, q.ImagePath)
	if err != nil {
		if errors.Is(err, domain.ErrExternalService) {
			return ImageResult{}, fmt.Errorf("classify image: %w", err)
		}
		return ImageResult{}, fmt.Errorf("classify image: %w: %w", domain.ErrExternalService, err)
	}

	labels := tags.Extract(concepts)
	metrics.SearchTags.Observe(float64(len(labels)))
	res := ImageResult{Tags: labels}

	log := logger.FromContext(ctx)
	if len(labels) == 0 {
		log.Debug("Image search without confident labels", zap.Int("concepts", len(concepts)))
		return res, nil
	}

	expr, err := filter.Combine(q.Filters, tags.Expand(labels))
	if err != nil {
		return ImageResult{}, fmt.Errorf("build predicate: %w: %w", domain.ErrInternal, err)
	}

	containers, err := s.containers(ctx)
	if err != nil {
		return ImageResult{}, err
	}

	var matched []restaurant.Restaurant
	for _, r := range restaurant.Flatten(containers) {
		if expr.Matches(&r) {
			matched = append(matched, r)
		}
	}
	metrics.SearchResults.WithLabelValues(metrics.EndpointImage).Observe(float64(len(matched)))

	log.Debug("Image search",
		zap.Strings("tags", labels),
		zap.Stringer("predicate", expr),
		zap.Int("matched", len(matched)),
	)

	p, err := page.Paginate(matched, q.Page, s.limit(q.Limit, s.cfg.ImagePageSize))
	if errors.Is(err, page.ErrEmpty) {
		return res, nil
	}
	if err != nil {
		return ImageResult{}, fmt.Errorf("paginate: %w", err)
	}
	res.Matched = true
	res.Page = p
	return res, nil
}

// List returns a page over all restaurants in storage order.
func (s *Service) List(ctx context.Context, number, limit int) (page.Page[restaurant.Restaurant], error) {
	containers, err := s.containers(ctx)
	if err != nil {
		return page.Page[restaurant.Restaurant]{}, err
	}

	all := restaurant.Flatten(containers)
	metrics.SearchResults.WithLabelValues(metrics.EndpointList).Observe(float64(len(all)))

	p, err := page.Paginate(all, number, s.limit(limit, s.cfg.CuisinePageSize))
	if errors.Is(err, page.ErrEmpty) {
		return p, domain.NewNotFound(MsgNoRestaurants)
	}
	if err != nil {
		return p, fmt.Errorf("paginate: %w", err)
	}
	return p, nil
}

// Get returns the first restaurant with the given id.
func (s *Service) Get(ctx context.Context, id string) (restaurant.Restaurant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return restaurant.Restaurant{}, domain.NewInvalidArgument("id", "is required")
	}

	containers, err := s.containers(ctx)
	if err != nil {
		return restaurant.Restaurant{}, err
	}
	for i := range containers {
		for j := range containers[i].Restaurants {
			if containers[i].Restaurants[j].ID() == id {
				return containers[i].Restaurants[j], nil
			}
		}
	}
	return restaurant.Restaurant{}, domain.NewNotFound(MsgNotFound)
}

func (s *Service) containers(ctx context.Context) ([]restaurant.Container, error) {
	containers, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load containers: %w: %w", domain.ErrExternalService, err)
	}
	return containers, nil
}

// limit resolves the page size: unset means def, larger than the cap is clamped.
func (s *Service) limit(requested, def int) int {
	switch {
	case requested <= 0:
		return def
	case requested > s.cfg.MaxPageSize:
		return s.cfg.MaxPageSize
	default:
		return requested
	}
}
