package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"forecast-api/internal/models"
	"forecast-api/pkg/logging"
)

// ForecastRepository provides access to the forecast collection
type ForecastRepository interface {
	List(ctx context.Context) []models.WeatherForecast
	GetByID(ctx context.Context, id int) (models.WeatherForecast, bool)
	Create(ctx context.Context, temperatureC int, summary *string) models.WeatherForecast
	Replace(ctx context.Context, id int, replacement models.WeatherForecast) bool
	PatchBySummary(ctx context.Context, summary string, temperatureC int) bool
	PatchByID(ctx context.Context, id int, temperatureC int) bool
	DeleteIntent(ctx context.Context, id int) models.DeleteOutcome
	Remove(ctx context.Context, id int) models.DeleteOutcome
	Count(ctx context.Context) int
}

// IdentityStrategy selects how Create assigns identities.
type IdentityStrategy string

const (
	// IdentityLength assigns len(collection)+1. Identities collide if a
	// record is ever removed, so it is only safe with DeleteIntent.
	IdentityLength IdentityStrategy = "length"
	// IdentitySequence assigns from a counter that never goes backwards.
	IdentitySequence IdentityStrategy = "sequence"
)

// ParseIdentityStrategy validates a configured strategy name.
func ParseIdentityStrategy(s string) (IdentityStrategy, error) {
	switch IdentityStrategy(strings.ToLower(s)) {
	case "", IdentityLength:
		return IdentityLength, nil
	case IdentitySequence:
		return IdentitySequence, nil
	default:
		return "", fmt.Errorf("unknown identity strategy %q", s)
	}
}

// Options configures a forecast repository
type Options struct {
	IdentityStrategy IdentityStrategy
	// Now supplies the clock used for record dates. Defaults to time.Now.
	Now func() time.Time
	// Seed overrides the default seed records when non-nil.
	Seed []models.WeatherForecast
}

// legacyDeleteSummary is the fixed value DeleteIntent inspects.
const legacyDeleteSummary = models.SummaryCold

// forecastRepository implements ForecastRepository over an in-memory slice.
// All access goes through mu.
type forecastRepository struct {
	mu        sync.RWMutex
	forecasts []models.WeatherForecast
	nextID    int
	strategy  IdentityStrategy
	now       func() time.Time
	logger    *logging.StructuredLogger
}

// NewForecastRepository creates a repository holding the seed records
func NewForecastRepository(opts Options, logger *logging.StructuredLogger) ForecastRepository {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	strategy := opts.IdentityStrategy
	if strategy == "" {
		strategy = IdentityLength
	}

	seed := opts.Seed
	if seed == nil {
		seed = SeedForecasts(models.DateOf(now()))
	}

	r := &forecastRepository{
		forecasts: make([]models.WeatherForecast, 0, len(seed)),
		strategy:  strategy,
		now:       now,
		logger:    logger,
	}
	for _, f := range seed {
		r.forecasts = append(r.forecasts, f.Clone())
		if f.ID >= r.nextID {
			r.nextID = f.ID + 1
		}
	}
	if r.nextID == 0 {
		r.nextID = 1
	}

	return r
}

// SeedForecasts returns the five records every new repository starts with.
func SeedForecasts(date models.Date) []models.WeatherForecast {
	temps := []int{25, 15, 5, 35, 45}
	seed := make([]models.WeatherForecast, len(temps))
	for i, temp := range temps {
		summary := models.WeatherForecastSummary(i).String()
		seed[i] = models.WeatherForecast{
			Date:         date,
			TemperatureC: temp,
			Summary:      &summary,
			ID:           i + 1,
		}
	}
	return seed
}

// List returns a copy of all records in insertion order
func (r *forecastRepository) List(ctx context.Context) []models.WeatherForecast {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.WeatherForecast, len(r.forecasts))
	for i, f := range r.forecasts {
		out[i] = f.Clone()
	}
	return out
}

// GetByID returns the first record with the given identity
func (r *forecastRepository) GetByID(ctx context.Context, id int) (models.WeatherForecast, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.forecasts[i].Clone(), true
	}
	return models.WeatherForecast{}, false
}

// Create appends a new record dated today
func (r *forecastRepository) Create(ctx context.Context, temperatureC int, summary *string) models.WeatherForecast {
	r.mu.Lock()
	defer r.mu.Unlock()

	var id int
	switch r.strategy {
	case IdentitySequence:
		id = r.nextID
	default:
		id = len(r.forecasts) + 1
	}
	if id >= r.nextID {
		r.nextID = id + 1
	}

	f := models.WeatherForecast{
		Date:         models.DateOf(r.now()),
		TemperatureC: temperatureC,
		Summary:      summary,
		ID:           id,
	}.Clone()
	r.forecasts = append(r.forecasts, f)

	r.logger.Debug(ctx, "[REPO_CREATE] Forecast created", logging.Fields{
		"id":       id,
		"strategy": string(r.strategy),
		"count":    len(r.forecasts),
	})

	return f.Clone()
}

// Replace overwrites the record with the given identity.
// The stored identity is kept whatever replacement.ID says.
func (r *forecastRepository) Replace(ctx context.Context, id int, replacement models.WeatherForecast) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}

	if replacement.ID != id {
		r.logger.Debug(ctx, "[REPO_REPLACE] Ignoring identity in replacement body", logging.Fields{
			"id":          id,
			"supplied_id": replacement.ID,
		})
	}

	replacement = replacement.Clone()
	replacement.ID = id
	r.forecasts[i] = replacement
	return true
}

// PatchBySummary sets the Celsius temperature of the first record whose
// summary matches case-insensitively.
func (r *forecastRepository) PatchBySummary(ctx context.Context, summary string, temperatureC int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, f := range r.forecasts {
		if f.Summary != nil && strings.EqualFold(*f.Summary, summary) {
			r.forecasts[i].TemperatureC = temperatureC
			return true
		}
	}
	return false
}

// PatchByID sets the Celsius temperature of the record with the given identity
func (r *forecastRepository) PatchByID(ctx context.Context, id int, temperatureC int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.forecasts[i].TemperatureC = temperatureC
	return true
}

// DeleteIntent never modifies the collection. Its outcome depends only on a
// fixed summary value, not on id.
func (r *forecastRepository) DeleteIntent(ctx context.Context, id int) models.DeleteOutcome {
	switch legacyDeleteSummary {
	case models.SummaryBurning:
		return models.OutcomeBadRequest
	case models.SummaryCold:
		return models.OutcomeNotFound
	}
	return models.OutcomeNoContent
}

// Remove deletes the record with the given identity, preserving the order of the rest
func (r *forecastRepository) Remove(ctx context.Context, id int) models.DeleteOutcome {
	if id <= 0 {
		return models.OutcomeBadRequest
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.OutcomeNotFound
	}
	r.forecasts = append(r.forecasts[:i], r.forecasts[i+1:]...)

	r.logger.Debug(ctx, "[REPO_REMOVE] Forecast removed", logging.Fields{
		"id":    id,
		"count": len(r.forecasts),
	})

	return models.OutcomeNoContent
}

// Count returns the number of records
func (r *forecastRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.forecasts)
}

// indexOf must be called with mu held.
func (r *forecastRepository) indexOf(id int) int {
	for i, f := range r.forecasts {
		if f.ID == id {
			return i
		}
	}
	return -1
}
