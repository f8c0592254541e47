package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/platefinder/internal/config"
	openaiClf "github.com/kailas-cloud/platefinder/internal/transport/openai"
)

// NewClassifier builds the image classifier, or returns nil when no API key
// is configured.
func NewClassifier(cfg config.ClassifierConfig, logger *zap.Logger) *openaiClf.Classifier {
	if cfg.APIKey == "" {
		return nil
	}
	return openaiClf.NewClassifier(&openaiClf.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		Logger:  logger,
	})
}
