package platefinder

import "github.com/kailas-cloud/platefinder/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound        = domain.ErrNotFound
	ErrInvalidArgument = domain.ErrInvalidArgument
	ErrExternalService = domain.ErrExternalService
)
