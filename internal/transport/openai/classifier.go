package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/platefinder/internal/domain"
	"github.com/kailas-cloud/platefinder/internal/domain/search/tags"
	"github.com/kailas-cloud/platefinder/internal/metrics"
)

const systemPrompt = `You label food photographs for a restaurant search engine.
Identify the dishes, ingredients and cuisines visible in the image.
Reply with JSON only, in exactly this shape:
{"concepts":[{"name":"<lowercase label>","value":<confidence between 0 and 1>}]}
Use short labels such as "pizza", "sushi", "italian" or "salad".
List at most 20 concepts, most confident first. Return {"concepts":[]} if the image shows no food.`

// Classifier labels food images with a vision-capable chat model on an
// OpenAI-compatible API.
type Classifier struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds the classifier settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClassifier creates an image classifier.
func NewClassifier(cfg *Config) *Classifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Classifier{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

type conceptsPayload struct {
	Concepts *[]tags.Concept `json:"concepts"`
}

// Classify sends the image at path to the model and returns its concepts.
// Every failure, including an unreadable or malformed reply, wraps
// domain.ErrExternalService.
func (c *Classifier) Classify(ctx context.Context, path string) ([]tags.Concept, error) {
	dataURL, err := encodeDataURL(path)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: "Label this image."},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		c.fail("api_error")
		return nil, parseAPIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		c.fail("empty_response")
		return nil, fmt.Errorf("empty classifier response: %w", domain.ErrExternalService)
	}

	concepts, err := parseConcepts(resp.Choices[0].Message.Content)
	if err != nil {
		c.fail("malformed_response")
		c.logger.Warn("Malformed classifier reply",
			zap.String("model", c.model),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.ClassifierRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.ClassifierRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())
	metrics.ClassifierConceptsTotal.WithLabelValues(c.model).Add(float64(len(concepts)))

	c.logger.Debug("Image classified",
		zap.String("model", c.model),
		zap.Int("concepts", len(concepts)),
		zap.Duration("duration", duration),
	)
	return concepts, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Classifier) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (c *Classifier) fail(errorType string) {
	metrics.ClassifierRequestsTotal.WithLabelValues(c.model, "error").Inc()
	metrics.ClassifierErrorsTotal.WithLabelValues(c.model, errorType).Inc()
}

// parseConcepts decodes the model reply. Models sometimes wrap JSON in a
// markdown fence even in JSON mode, so a fence is stripped first.
func parseConcepts(content string) ([]tags.Concept, error) {
	content = stripFence(content)

	var payload conceptsPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("decode classifier reply: %v: %w", err, domain.ErrExternalService)
	}
	if payload.Concepts == nil {
		return nil, fmt.Errorf("classifier reply has no concepts: %w", domain.ErrExternalService)
	}
	for _, cpt := range *payload.Concepts {
		if cpt.Confidence < 0 || cpt.Confidence > 1 {
			return nil, fmt.Errorf("concept %q confidence %v out of range: %w",
				cpt.Label, cpt.Confidence, domain.ErrExternalService)
		}
	}
	return *payload.Concepts, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// encodeDataURL reads an image file into a base64 data URL.
func encodeDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mime := mimetype.Detect(data).String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrExternalService.
func parseAPIError(err error) error {
	wrap := domain.ErrExternalService

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("classifier API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("classifier API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("classifier API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("classifier request timed out: %w", wrap)
	}

	return fmt.Errorf("classifier request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
