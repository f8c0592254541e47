package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/kailas-cloud/platefinder/internal/app"
	"github.com/kailas-cloud/platefinder/internal/config"
	"github.com/kailas-cloud/platefinder/internal/domain/geo"
	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
	"github.com/kailas-cloud/platefinder/internal/domain/search/tags"
	logpkg "github.com/kailas-cloud/platefinder/internal/logger"
	searchuc "github.com/kailas-cloud/platefinder/internal/usecase/search"
)

var pingCommand = cli.Command{
	Name:   "ping",
	Usage:  "check storage connectivity and count stored restaurants",
	Action: ping,
}

var searchCommand = cli.Command{
	Name:      "search",
	Usage:     "run a cuisine search against the configured storage",
	ArgsUsage: "<cuisine>",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "lat", Usage: "origin latitude"},
		cli.StringFlag{Name: "lon", Usage: "origin longitude"},
		cli.Float64Flag{Name: "max-distance", Usage: "radius in km (default from config)"},
		cli.IntFlag{Name: "page", Value: 1, Usage: "page number"},
		cli.IntFlag{Name: "limit", Usage: "page size (default from config)"},
	},
	Action: search,
}

var classifyCommand = cli.Command{
	Name:      "classify",
	Usage:     "label an image and print the concepts and derived search tags",
	ArgsUsage: "<image>",
	Action:    classify,
}

var distanceCommand = cli.Command{
	Name:      "distance",
	Usage:     "great-circle distance in km between two points",
	ArgsUsage: "<lat1> <lon1> <lat2> <lon2>",
	// negative coordinates must not be read as flags
	SkipArgReorder: true,
	Action:         distance,
}

func loadConfig(c *cli.Context) (config.Config, error) {
	if path := c.GlobalString("config"); path != "" {
		if err := config.LoadDotEnv(".env"); err != nil {
			return config.Config{}, err
		}
		return config.LoadFile(path)
	}
	return config.Load(c.GlobalString("env"))
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	level := "warn"
	if c.GlobalBool("debug") {
		level = "debug"
	}
	return logpkg.NewLogger("local", level)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func openStorage(c *cli.Context) (*app.Storage, config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, cfg, nil, err
	}
	logger, err := newLogger(c)
	if err != nil {
		return nil, cfg, nil, err
	}
	storage, err := app.OpenStorage(context.Background(), cfg.Storage, logger)
	if err != nil {
		return nil, cfg, nil, err
	}
	return storage, cfg, logger, nil
}

func ping(c *cli.Context) error {
	storage, cfg, _, err := openStorage(c)
	if err != nil {
		return err
	}
	defer storage.Close()

	ctx := context.Background()
	if err := storage.Pinger.Ping(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", cfg.Storage.Driver, err)
	}
	containers, err := storage.Source.List(ctx)
	if err != nil {
		return fmt.Errorf("list containers: %w", err)
	}

	return writeJSON(c.App.Writer, map[string]any{
		"driver":      cfg.Storage.Driver,
		"containers":  len(containers),
		"restaurants": len(restaurant.Flatten(containers)),
	})
}

type searchHit struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Cuisines   string   `json:"cuisines"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// searchOrigin mirrors the API: each given coordinate must be numeric, a
// lone --lat or --lon means no origin, and a full pair must be in range.
func searchOrigin(c *cli.Context) (*geo.Point, error) {
	var coords [2]*float64
	for i, name := range []string{"lat", "lon"} {
		if !c.IsSet(name) {
			continue
		}
		v, ok := geo.ToFloat(c.String(name))
		if !ok {
			return nil, fmt.Errorf("--%s must be numeric", name)
		}
		coords[i] = &v
	}
	if coords[0] == nil || coords[1] == nil {
		return nil, nil
	}
	if !geo.ValidateCoordinates(*coords[0], *coords[1]) {
		return nil, errors.New("--lat/--lon out of range")
	}
	return &geo.Point{Latitude: *coords[0], Longitude: *coords[1]}, nil
}

func search(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("usage: platefinderctl search <cuisine>", 2)
	}
	origin, err := searchOrigin(c)
	if err != nil {
		return err
	}

	storage, cfg, logger, err := openStorage(c)
	if err != nil {
		return err
	}
	defer storage.Close()

	svc := searchuc.New(storage.Source, nil, searchuc.Config{
		CuisinePageSize:      cfg.Search.CuisinePageSize,
		ImagePageSize:        cfg.Search.ImagePageSize,
		MaxPageSize:          cfg.Search.MaxPageSize,
		DefaultMaxDistanceKm: cfg.Search.DefaultMaxDistanceKm,
	})
	ctx := logpkg.ContextWithLogger(context.Background(), logger)
	p, err := svc.ByCuisine(ctx, searchuc.CuisineQuery{
		Cuisine:       c.Args().First(),
		Origin:        origin,
		MaxDistanceKm: c.Float64("max-distance"),
		Page:          c.Int("page"),
		Limit:         c.Int("limit"),
	})
	if err != nil {
		return err
	}

	hits := make([]searchHit, len(p.Items))
	for i := range p.Items {
		hits[i] = searchHit{
			ID:         p.Items[i].ID(),
			Name:       p.Items[i].Name(),
			Cuisines:   p.Items[i].Cuisines(),
			DistanceKm: p.Items[i].DistanceKm(),
		}
	}
	return writeJSON(c.App.Writer, map[string]any{
		"total_results": p.TotalResults,
		"current_page":  p.CurrentPage,
		"total_pages":   p.TotalPages,
		"data":          hits,
	})
}

func classify(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("usage: platefinderctl classify <image>", 2)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	classifier := app.NewClassifier(cfg.Classifier, logger)
	if classifier == nil {
		return errors.New("classifier.api_key is not configured")
	}

	concepts, err := classifier.Classify(context.Background(), c.Args().First())
	if err != nil {
		return err
	}
	labels := tags.Extract(concepts)
	if labels == nil {
		labels = []string{}
	}
	return writeJSON(c.App.Writer, map[string]any{
		"concepts": concepts,
		"tags":     labels,
	})
}

func distance(c *cli.Context) error {
	if c.NArg() != 4 {
		return cli.NewExitError("usage: platefinderctl distance <lat1> <lon1> <lat2> <lon2>", 2)
	}
	args := c.Args()
	km, ok := geo.Distance(args.Get(0), args.Get(1), args.Get(2), args.Get(3))
	if !ok {
		return cli.NewExitError("all coordinates must be numeric", 2)
	}
	_, err := fmt.Fprintln(c.App.Writer, strconv.FormatFloat(km, 'f', 3, 64))
	return err
}
