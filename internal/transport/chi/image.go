package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/platefinder/internal/domain"
	"github.com/kailas-cloud/platefinder/internal/domain/search/filter"
	"github.com/kailas-cloud/platefinder/internal/upload"
	searchuc "github.com/kailas-cloud/platefinder/internal/usecase/search"
)

// Client-facing messages of the image search endpoint.
const (
	msgNoImage        = "No image uploaded."
	msgImageTooLarge  = "Image exceeds the size limit."
	msgNotAnImage     = "Uploaded file is not an image."
	msgInvalidFilters = "Invalid filter parameters"
	msgImageFailed    = "Image processing failed."
	msgNoImageMatch   = "No restaurants found matching the image"
)

// AnalyzeImage handles POST /api/analyze-image.
func (s *Server) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	log := s.requestLogger(r)

	params, err := bindImageParams(r)
	if err != nil {
		writeImageError(w, http.StatusBadRequest, msgInvalidFilters, err)
		return
	}
	filters, err := filter.ParseSearchFilters(deref(params.PriceRange), deref(params.Rating))
	if err != nil {
		writeImageError(w, http.StatusBadRequest, msgInvalidFilters, err)
		return
	}

	file, err := s.uploads.Spool(r, imageField)
	if err != nil {
		s.writeUploadError(w, r, err)
		return
	}
	defer func() {
		if err := file.Release(); err != nil {
			log.Warn("Failed to remove uploaded image", zap.String("path", file.Path), zap.Error(err))
		}
	}()
	log.Debug("Image uploaded", zap.String("mime", file.MIME), zap.Int64("size", file.Size))

	res, err := s.search.ByImage(r.Context(), searchuc.ImageQuery{
		ImagePath: file.Path,
		Filters:   filters,
		Page:      deref(params.Page),
		Limit:     deref(params.Limit),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeImageError(w, http.StatusBadRequest, msgInvalidFilters, err)
			return
		}
		log.Error("Image search failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, imageErrorResponse{
			Success: false,
			Message: msgImageFailed,
			Error:   safeDomainMessage(err),
		})
		return
	}

	searchTags := res.Tags
	if searchTags == nil {
		searchTags = []string{}
	}

	if !res.Matched {
		writeJSON(w, http.StatusOK, imageMessageResponse{
			Success:    false,
			SearchTags: searchTags,
			Message:    msgNoImageMatch,
		})
		return
	}

	result := make([]restaurantDetail, len(res.Page.Items))
	for i := range res.Page.Items {
		result[i] = detailToDTO(&res.Page.Items[i])
	}
	writeJSON(w, http.StatusOK, imageMatchResponse{
		Success:     true,
		SearchTags:  searchTags,
		Result:      result,
		TotalPages:  res.Page.TotalPages,
		CurrentPage: res.Page.CurrentPage,
	})
}

func (s *Server) writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, upload.ErrMissing):
		writeImageError(w, http.StatusBadRequest, msgNoImage, nil)
	case errors.Is(err, upload.ErrTooLarge):
		writeImageError(w, http.StatusRequestEntityTooLarge, msgImageTooLarge, nil)
	case errors.Is(err, upload.ErrNotImage):
		writeImageError(w, http.StatusBadRequest, msgNotAnImage, nil)
	default:
		s.requestLogger(r).Error("Failed to spool upload", zap.Error(err))
		writeImageError(w, http.StatusInternalServerError, msgImageFailed, domain.ErrInternal)
	}
}

// writeImageError writes the image endpoint's error envelope. Only
// validation messages and sentinel text reach the client.
func writeImageError(w http.ResponseWriter, status int, message string, cause error) {
	resp := imageErrorResponse{Success: false, Message: message}
	if cause != nil {
		var ia *domain.InvalidArgumentError
		if errors.As(cause, &ia) {
			resp.Error = ia.Error()
		} else {
			resp.Error = safeDomainMessage(cause)
		}
	}
	writeJSON(w, status, resp)
}
