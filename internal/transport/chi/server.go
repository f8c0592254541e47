package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/platefinder/internal/domain"
	"github.com/kailas-cloud/platefinder/internal/upload"
	healthuc "github.com/kailas-cloud/platefinder/internal/usecase/health"
	searchuc "github.com/kailas-cloud/platefinder/internal/usecase/search"
)

// Error codes returned in errorResponse.Code.
const (
	codeInvalidArgument = "invalid_argument"
	codeNotFound        = "not_found"
	codeExternalService = "external_service_error"
	codeInternal        = "internal_error"
)

// imageField is the multipart field carrying the uploaded photo.
const imageField = "image"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the restaurant search API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	uploads       *upload.Spooler
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	uploads *upload.Spooler,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:  search,
		health:  health,
		uploads: uploads,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		notFoundHandler,
		invalidArgumentHandler,
		sentinelHandler(domain.ErrExternalService, http.StatusInternalServerError, codeExternalService),
	}
	return s
}

// Routes registers the API endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/restaurants-by-cuisine", s.RestaurantsByCuisine)
	r.Get("/restaurants", s.ListRestaurants)
	r.Get("/restaurant/{id}", s.GetRestaurant)
	r.Post("/api/analyze-image", s.AnalyzeImage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// HealthCheck handles GET /health. A degraded classifier keeps the service
// available for cuisine search, so only an unhealthy report returns 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidArgument,
		domain.ErrNotFound,
		domain.ErrExternalService,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return domain.ErrInternal.Error()
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, safeDomainMessage(err))
		return true
	}
}

// notFoundHandler answers 404 with the context-specific message carried by
// NotFoundError.
func notFoundHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrNotFound) {
		return false
	}
	msg := domain.ErrNotFound.Error()
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		msg = nf.Error()
	}
	writeError(w, http.StatusNotFound, codeNotFound, msg)
	return true
}

// invalidArgumentHandler answers 400 naming the offending parameter.
func invalidArgumentHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidArgument) {
		return false
	}
	msg := domain.ErrInvalidArgument.Error()
	var ia *domain.InvalidArgumentError
	if errors.As(err, &ia) {
		msg = ia.Error()
	}
	writeError(w, http.StatusBadRequest, codeInvalidArgument, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}
