package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/platefinder/internal/domain"
	"github.com/kailas-cloud/platefinder/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterClassifierMetrics()
	os.Exit(m.Run())
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dish.png")
	if err := os.WriteFile(path, pngBytes, 0o600); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

// chatRequest is the subset of the chat completion request the tests inspect.
type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

func chatServer(t *testing.T, content string, inspect func(chatRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if inspect != nil {
			inspect(req)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-vision",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
}

func newTestClassifier(url string) *Classifier {
	return NewClassifier(&Config{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "test-vision",
		Timeout: 5 * time.Second,
		Logger:  zap.NewNop(),
	})
}

func TestClassifier_Classify(t *testing.T) {
	server := chatServer(t,
		`{"concepts":[{"name":"pizza","value":0.93},{"name":"cheese","value":0.41}]}`,
		func(req chatRequest) {
			if req.Model != "test-vision" {
				t.Errorf("model = %q", req.Model)
			}
			if req.ResponseFormat.Type != "json_object" {
				t.Errorf("response_format = %q", req.ResponseFormat.Type)
			}
			if len(req.Messages) != 2 {
				t.Errorf("expected 2 messages, got %d", len(req.Messages))
				return
			}
			if !strings.Contains(string(req.Messages[1].Content), "data:image/png;base64,") {
				t.Error("user message must carry the image as a data URL")
			}
		})
	defer server.Close()

	concepts, err := newTestClassifier(server.URL).Classify(context.Background(), writeImage(t))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(concepts) != 2 {
		t.Fatalf("expected 2 concepts, got %d", len(concepts))
	}
	if concepts[0].Label != "pizza" || concepts[0].Confidence != 0.93 {
		t.Errorf("unexpected first concept: %+v", concepts[0])
	}
}

func TestClassifier_EmptyConceptListIsValid(t *testing.T) {
	server := chatServer(t, `{"concepts":[]}`, nil)
	defer server.Close()

	concepts, err := newTestClassifier(server.URL).Classify(context.Background(), writeImage(t))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(concepts) != 0 {
		t.Errorf("expected no concepts, got %d", len(concepts))
	}
}

func TestClassifier_MalformedReplies(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"not json", "I see a pizza"},
		{"missing concepts", `{"labels":["pizza"]}`},
		{"bad confidence", `{"concepts":[{"name":"pizza","value":7}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := chatServer(t, tt.content, nil)
			defer server.Close()

			_, err := newTestClassifier(server.URL).Classify(context.Background(), writeImage(t))
			if !errors.Is(err, domain.ErrExternalService) {
				t.Errorf("expected ErrExternalService, got %v", err)
			}
		})
	}
}

func TestClassifier_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), writeImage(t))
	if !errors.Is(err, domain.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status code in error, got %v", err)
	}
}

func TestClassifier_MissingFile(t *testing.T) {
	c := newTestClassifier("http://127.0.0.1:0")
	if _, err := c.Classify(context.Background(), filepath.Join(t.TempDir(), "gone.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestClassifier_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer server.Close()

	if err := newTestClassifier(server.URL).HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestParseConcepts_Fenced(t *testing.T) {
	concepts, err := parseConcepts("```json\n{\"concepts\":[{\"name\":\"ramen\",\"value\":0.8}]}\n```")
	if err != nil {
		t.Fatalf("parseConcepts: %v", err)
	}
	if len(concepts) != 1 || concepts[0].Label != "ramen" {
		t.Errorf("unexpected concepts: %+v", concepts)
	}
}

func TestExtractDetail(t *testing.T) {
	if got := extractDetail([]byte(`{"detail":"quota exceeded"}`)); got != "quota exceeded" {
		t.Errorf("extractDetail = %q", got)
	}
	if got := extractDetail([]byte(`not json`)); got != "" {
		t.Errorf("extractDetail = %q", got)
	}
}
