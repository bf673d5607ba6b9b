package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/dermacare-server-go/internal/config"
	"github.com/park285/dermacare-server-go/internal/handler/shared"
	"github.com/park285/dermacare-server-go/internal/httperror"
	"github.com/park285/dermacare-server-go/internal/metrics"
	"github.com/park285/dermacare-server-go/internal/places"
)

const (
	missingCoordinatesMessage = "Latitude and longitude are required"
	clinicsFailureMessage     = "Failed to fetch clinics from Google Places API"
)

// ClinicSearcher 는 좌표 주변 병원을 조회한다.
type ClinicSearcher interface {
	Nearby(ctx context.Context, query places.Query) ([]places.Record, error)
}

// ClinicsResponse 는 병원 검색 응답이다. 순서는 제공자 순서를 따른다.
type ClinicsResponse struct {
	Results []places.Record `json:"results"`
}

// ClinicsHandler 는 주변 피부과 검색 API 핸들러다.
type ClinicsHandler struct {
	searcher      ClinicSearcher
	metrics       *metrics.Store
	defaultRadius int
	logger        *slog.Logger
}

// NewClinicsHandler 는 ClinicsHandler 를 생성한다.
func NewClinicsHandler(cfg *config.Config, searcher ClinicSearcher, metricsStore *metrics.Store, logger *slog.Logger) *ClinicsHandler {
	radius := places.DefaultRadius
	if cfg != nil && cfg.Places.DefaultRadius > 0 {
		radius = cfg.Places.DefaultRadius
	}
	return &ClinicsHandler{
		searcher:      searcher,
		metrics:       metricsStore,
		defaultRadius: radius,
		logger:        logger,
	}
}

// RegisterRoutes 는 병원 검색 라우트를 등록한다.
func (h *ClinicsHandler) RegisterRoutes(routes gin.IRoutes) {
	routes.GET("/clinics", h.handleSearch)
}

func (h *ClinicsHandler) handleSearch(c *gin.Context) {
	query, ok := h.parseQuery(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	records, err := h.searcher.Nearby(ctx, query)
	if err != nil {
		shared.LogFailure(c, h.logger, "clinic_search_failed", err)
		shared.Abort(c, httperror.NewUpstreamError(clinicsFailureMessage, err))
		return
	}

	kept := places.FilterRelevant(records)
	if h.metrics != nil {
		h.metrics.RecordFiltered(len(kept), len(records)-len(kept))
	}
	if h.logger != nil {
		fields := []any{"radius", query.Radius, "received", len(records), "kept", len(kept)}
		if nearest, meters, found := places.Nearest(query.Origin(), kept); found {
			fields = append(fields, "nearest", nearest.Name(), "nearest_meters", int(meters))
		}
		h.logger.InfoContext(ctx, "clinic_search_done", fields...)
	}

	c.JSON(http.StatusOK, ClinicsResponse{Results: kept})
}

func (h *ClinicsHandler) parseQuery(c *gin.Context) (places.Query, bool) {
	lat, latPresent, latErr := shared.QueryFloat(c, "lat")
	lng, lngPresent, lngErr := shared.QueryFloat(c, "lng")
	switch {
	case !latPresent:
		shared.Abort(c, httperror.NewMissingField("lat", missingCoordinatesMessage))
		return places.Query{}, false
	case !lngPresent:
		shared.Abort(c, httperror.NewMissingField("lng", missingCoordinatesMessage))
		return places.Query{}, false
	case latErr != nil:
		shared.Abort(c, httperror.NewInvalidInput(latErr.Error()))
		return places.Query{}, false
	case lngErr != nil:
		shared.Abort(c, httperror.NewInvalidInput(lngErr.Error()))
		return places.Query{}, false
	}

	radius, err := shared.QueryInt(c, "radius", h.defaultRadius)
	if err != nil {
		shared.Abort(c, httperror.NewInvalidInput(err.Error()))
		return places.Query{}, false
	}

	query := places.Query{Latitude: lat, Longitude: lng, Radius: radius}
	if err := query.Validate(); err != nil {
		shared.Abort(c, httperror.NewInvalidInput(err.Error()))
		return places.Query{}, false
	}
	return query, true
}
