package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"forecast-api/internal/models"
	"forecast-api/internal/repository"
	"forecast-api/pkg/logging"
	"forecast-api/pkg/metrics"
)

// DeleteMode selects what DELETE does to the collection.
type DeleteMode string

const (
	// DeleteLegacy reports an outcome without removing anything.
	DeleteLegacy DeleteMode = "legacy"
	// DeleteRemove removes the record.
	DeleteRemove DeleteMode = "remove"
)

// ForecastService handles forecast operations
type ForecastService struct {
	repo       repository.ForecastRepository
	deleteMode DeleteMode
	logger     *logging.StructuredLogger
	metrics    *metrics.Collector
}

// NewForecastService creates a new forecast service
func NewForecastService(repo repository.ForecastRepository, deleteMode DeleteMode, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *ForecastService {
	if deleteMode == "" {
		deleteMode = DeleteLegacy
	}
	s := &ForecastService{
		repo:       repo,
		deleteMode: deleteMode,
		logger:     logger,
		metrics:    metricsCollector,
	}
	s.metrics.SetStoreRecords(repo.Count(context.Background()))
	return s
}

// DeleteMode reports the configured delete behaviour
func (s *ForecastService) DeleteMode() DeleteMode {
	return s.deleteMode
}

// ListForecasts returns every forecast in insertion order
func (s *ForecastService) ListForecasts(ctx context.Context) []models.WeatherForecast {
	forecasts := s.repo.List(ctx)
	s.metrics.RecordStoreOperation("list", "ok")
	return forecasts
}

// CountForecasts returns the number of stored forecasts
func (s *ForecastService) CountForecasts(ctx context.Context) int {
	return s.repo.Count(ctx)
}

// GetForecast returns the forecast with the given identity
func (s *ForecastService) GetForecast(ctx context.Context, id int) (models.WeatherForecast, error) {
	forecast, ok := s.repo.GetByID(ctx, id)
	if !ok {
		s.metrics.RecordStoreOperation("get", "not_found")
		return models.WeatherForecast{}, notFound(id)
	}
	s.metrics.RecordStoreOperation("get", "ok")
	return forecast, nil
}

// CreateForecast stores a new forecast dated today
func (s *ForecastService) CreateForecast(ctx context.Context, req models.PostModel) models.WeatherForecast {
	forecast := s.repo.Create(ctx, req.TemperatureC, req.Summary)

	s.metrics.RecordStoreOperation("create", "ok")
	s.metrics.SetStoreRecords(s.repo.Count(ctx))

	s.logger.Info(ctx, "[FORECAST_CREATED] Forecast created", logging.Fields{
		"id":            forecast.ID,
		"temperature_c": forecast.TemperatureC,
	})

	return forecast
}

// ReplaceForecast overwrites the forecast with the given identity
func (s *ForecastService) ReplaceForecast(ctx context.Context, id int, replacement models.WeatherForecast) error {
	if !s.repo.Replace(ctx, id, replacement) {
		s.metrics.RecordStoreOperation("replace", "not_found")
		return notFound(id)
	}
	s.metrics.RecordStoreOperation("replace", "ok")

	s.logger.Info(ctx, "[FORECAST_REPLACED] Forecast replaced", logging.Fields{
		"id": id,
	})
	return nil
}

// PatchForecastBySummary updates the temperature of the first forecast whose
// summary matches. The identity from the route plays no part in the match.
func (s *ForecastService) PatchForecastBySummary(ctx context.Context, id int, summary string, req models.PatchModel) error {
	if !s.repo.PatchBySummary(ctx, summary, req.TemperatureC) {
		s.metrics.RecordStoreOperation("patch_by_summary", "not_found")
		return &repository.NotFoundError{Resource: "weather_forecast", ID: summary}
	}
	s.metrics.RecordStoreOperation("patch_by_summary", "ok")

	s.logger.Info(ctx, "[FORECAST_PATCHED] Forecast patched by summary", logging.Fields{
		"route_id":      id,
		"summary":       summary,
		"temperature_c": req.TemperatureC,
	})
	return nil
}

// PatchForecast updates the temperature of the forecast with the given identity
func (s *ForecastService) PatchForecast(ctx context.Context, id int, req models.PatchModel) error {
	if !s.repo.PatchByID(ctx, id, req.TemperatureC) {
		s.metrics.RecordStoreOperation("patch_by_id", "not_found")
		return notFound(id)
	}
	s.metrics.RecordStoreOperation("patch_by_id", "ok")

	s.logger.Info(ctx, "[FORECAST_PATCHED] Forecast patched", logging.Fields{
		"id":            id,
		"temperature_c": req.TemperatureC,
	})
	return nil
}

// DeleteForecast applies the configured delete mode
func (s *ForecastService) DeleteForecast(ctx context.Context, id int) models.DeleteOutcome {
	var outcome models.DeleteOutcome
	switch s.deleteMode {
	case DeleteRemove:
		outcome = s.repo.Remove(ctx, id)
		s.metrics.SetStoreRecords(s.repo.Count(ctx))
	default:
		outcome = s.repo.DeleteIntent(ctx, id)
	}

	s.metrics.RecordStoreOperation("delete", outcome.String())
	s.logger.Info(ctx, "[FORECAST_DELETE] Delete requested", logging.Fields{
		"id":      id,
		"mode":    string(s.deleteMode),
		"outcome": outcome.String(),
	})
	return outcome
}

func notFound(id int) error {
	return &repository.NotFoundError{Resource: "weather_forecast", ID: strconv.Itoa(id)}
}

// ParseDeleteMode validates a configured delete mode name.
func ParseDeleteMode(s string) (DeleteMode, error) {
	switch DeleteMode(strings.ToLower(s)) {
	case "", DeleteLegacy:
		return DeleteLegacy, nil
	case DeleteRemove:
		return DeleteRemove, nil
	default:
		return "", fmt.Errorf("unknown delete mode %q", s)
	}
}
