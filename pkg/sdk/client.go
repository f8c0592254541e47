package platefinder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/platefinder/internal/app"
	"github.com/kailas-cloud/platefinder/internal/domain"
	"github.com/kailas-cloud/platefinder/internal/domain/geo"
	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
	"github.com/kailas-cloud/platefinder/internal/domain/search/filter"
	"github.com/kailas-cloud/platefinder/internal/domain/search/page"
	healthuc "github.com/kailas-cloud/platefinder/internal/usecase/health"
	searchuc "github.com/kailas-cloud/platefinder/internal/usecase/search"
)

// Внутренние интерфейсы для подмены в тестах.
type searchUseCase interface {
	ByCuisine(ctx context.Context, q searchuc.CuisineQuery) (page.Page[restaurant.Enriched], error)
	ByImage(ctx context.Context, q searchuc.ImageQuery) (searchuc.ImageResult, error)
	List(ctx context.Context, number, limit int) (page.Page[restaurant.Restaurant], error)
	Get(ctx context.Context, id string) (restaurant.Restaurant, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Client is the platefinder SDK entry point.
type Client struct {
	storage   *app.Storage
	pinger    pinger
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the configured storage.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cc := &clientConfig{}
	for _, o := range opts {
		o.apply(cc)
	}

	if cc.cfg.Storage.Driver == "" {
		return nil, errors.New(
			"platefinder: storage required (use WithValkey, WithRedis, WithPostgres, WithSQLite or WithDatasetFile)")
	}
	cc.cfg.ApplyDefaults()

	obs, err := newObserver(cc.logger, cc.metricsReg)
	if err != nil {
		return nil, err
	}

	storage, err := app.OpenStorage(ctx, cc.cfg.Storage, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("platefinder: %w", err)
	}

	return wireClient(storage, cc, obs), nil
}

func wireClient(storage *app.Storage, cc *clientConfig, obs *observer) *Client {
	// classifier: nil если не задан (ByImage вернёт ErrExternalService)
	var clf searchuc.Classifier
	var checker healthuc.ClassifierChecker
	switch {
	case cc.classifier != nil:
		a := &classifierAdapter{inner: cc.classifier}
		clf, checker = a, a
	case cc.cfg.Classifier.APIKey != "":
		c := app.NewClassifier(cc.cfg.Classifier, zap.NewNop())
		clf, checker = c, c
	}

	searchSvc := searchuc.New(storage.Source, clf, searchuc.Config{
		CuisinePageSize:      cc.cfg.Search.CuisinePageSize,
		ImagePageSize:        cc.cfg.Search.ImagePageSize,
		MaxPageSize:          cc.cfg.Search.MaxPageSize,
		DefaultMaxDistanceKm: cc.cfg.Search.DefaultMaxDistanceKm,
	})

	return &Client{
		storage:   storage,
		pinger:    storage.Pinger,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(storage.Pinger, checker),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.storage != nil {
		c.storage.Close()
	}
}

// Ping checks storage connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(opPing, start, err) }()

	if err = c.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// ByCuisine returns restaurants whose cuisines contain q.Cuisine. With
// q.Near set, only restaurants within the radius are kept, nearest first.
// An empty page is an ErrNotFound error.
func (c *Client) ByCuisine(ctx context.Context, q CuisineQuery) (res Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opByCuisine, start, err) }()

	query := searchuc.CuisineQuery{
		Cuisine:       q.Cuisine,
		MaxDistanceKm: q.MaxDistanceKm,
		Page:          q.Page,
		Limit:         q.Limit,
	}
	if q.Near != nil {
		if !geo.ValidateCoordinates(q.Near.Lat, q.Near.Lon) {
			return Page{}, domain.NewInvalidArgument("near", "coordinates out of range")
		}
		query.Origin = &geo.Point{Latitude: q.Near.Lat, Longitude: q.Near.Lon}
	}

	p, err := c.searchSvc.ByCuisine(ctx, query)
	if err != nil {
		return Page{}, err
	}
	return enrichedPage(p), nil
}

// ByImage classifies the image and returns restaurants whose name or
// cuisines contain one of its labels, narrowed by the price and rating
// filters.
func (c *Client) ByImage(ctx context.Context, q ImageQuery) (res ImageResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opByImage, start, err) }()

	filters, err := imageFilters(q)
	if err != nil {
		return ImageResult{}, err
	}

	out, err := c.searchSvc.ByImage(ctx, searchuc.ImageQuery{
		ImagePath: q.ImagePath,
		Filters:   filters,
		Page:      q.Page,
		Limit:     q.Limit,
	})
	if err != nil {
		return ImageResult{}, err
	}

	res = ImageResult{Tags: out.Tags, Matched: out.Matched}
	if out.Matched {
		res.Page = restaurantPage(out.Page)
	}
	return res, nil
}

func imageFilters(q ImageQuery) (filter.SearchFilters, error) {
	if q.ImagePath == "" {
		return filter.SearchFilters{}, domain.NewInvalidArgument("image", "path is required")
	}
	if pr := q.PriceRange; pr != nil && pr[0] > pr[1] {
		return filter.SearchFilters{}, domain.NewInvalidArgument("priceRange", "low bound exceeds high bound")
	}
	if r := q.MinRating; r != nil && (*r < 0 || *r > filter.MaxRating) {
		return filter.SearchFilters{}, domain.NewInvalidArgument("rating",
			fmt.Sprintf("must be between 0 and %g", filter.MaxRating))
	}
	return filter.NewSearchFilters(q.PriceRange, q.MinRating), nil
}

// List returns a page over all restaurants in storage order.
func (c *Client) List(ctx context.Context, pageNumber, limit int) (res Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opList, start, err) }()

	p, err := c.searchSvc.List(ctx, pageNumber, limit)
	if err != nil {
		return Page{}, err
	}
	return restaurantPage(p), nil
}

// Get returns the restaurant with the given id.
func (c *Client) Get(ctx context.Context, id string) (res Restaurant, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opGet, start, err) }()

	r, err := c.searchSvc.Get(ctx, id)
	if err != nil {
		return Restaurant{}, err
	}
	return fromDomain(&r), nil
}
