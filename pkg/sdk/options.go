package platefinder

import (
	"log/slog"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/platefinder/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	cfg        config.Config
	classifier Classifier

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to read containers from a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Storage.Driver = config.DriverValkey
		c.cfg.Storage.Addrs = []string{addr}
		c.cfg.Storage.Password = password
	})
}

// WithRedis configures the client to read containers from a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Storage.Driver = config.DriverRedis
		c.cfg.Storage.Addrs = []string{addr}
		c.cfg.Storage.Password = password
	})
}

// WithKeyPrefix sets the key prefix of container documents in Valkey/Redis.
// Default: "platefinder:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Storage.KeyPrefix = prefix
	})
}

// WithPostgres reads containers from a PostgreSQL database.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Storage.Driver = config.DriverPostgres
		c.cfg.Storage.DSN = dsn
	})
}

// WithSQLite reads containers from a SQLite database file.
func WithSQLite(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Storage.Driver = config.DriverSQLite
		c.cfg.Storage.DSN = dsn
	})
}

// WithDatasetFile loads containers once from a JSON dataset file.
func WithDatasetFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Storage.Driver = config.DriverFile
		c.cfg.Storage.Path = path
	})
}

// WithReadinessTimeout bounds the initial storage readiness check.
// Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Storage.ReadinessTimeout = int(math.Ceil(d.Seconds()))
	})
}

// WithClassifier sets the image classifier used by ByImage.
// Takes precedence over WithOpenAI.
func WithClassifier(clf Classifier) Option {
	return optionFunc(func(c *clientConfig) {
		c.classifier = clf
	})
}

// WithOpenAI enables the built-in classifier against an OpenAI-compatible
// vision model. Empty baseURL and model select the defaults.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Classifier.APIKey = apiKey
		c.cfg.Classifier.BaseURL = baseURL
		c.cfg.Classifier.Model = model
	})
}

// WithPageSizes overrides the default page sizes of cuisine and image search.
// Defaults: 6 and 10.
func WithPageSizes(cuisine, image int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.CuisinePageSize = cuisine
		c.cfg.Search.ImagePageSize = image
	})
}

// WithMaxPageSize caps caller-supplied limits. Default: 100.
func WithMaxPageSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.MaxPageSize = size
	})
}

// WithDefaultMaxDistance sets the radius used when a query gives none.
// Default: 50 km.
func WithDefaultMaxDistance(km float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.DefaultMaxDistanceKm = km
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
