package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"forecast-api/internal/models"
	"forecast-api/internal/repository"
	"forecast-api/pkg/logging"
	"forecast-api/pkg/metrics"
)

type fixture struct {
	service *ForecastService
	metrics *metrics.Collector
	logs    *bytes.Buffer
}

func newFixture(t *testing.T, strategy repository.IdentityStrategy, mode DeleteMode) fixture {
	t.Helper()

	logs := &bytes.Buffer{}
	logger := logging.NewStructuredLogger("forecast-api-test", "test", logging.InfoLevel)
	logger.SetOutput(logs)

	collector := metrics.NewCollector("forecast_api", prometheus.NewRegistry())
	repo := repository.NewForecastRepository(repository.Options{
		IdentityStrategy: strategy,
		Now:              func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) },
	}, logger)

	return fixture{
		service: NewForecastService(repo, mode, logger, collector),
		metrics: collector,
		logs:    logs,
	}
}

func TestForecastService_GetForecast(t *testing.T) {
	f := newFixture(t, repository.IdentityLength, DeleteLegacy)
	ctx := context.Background()

	got, err := f.service.GetForecast(ctx, 2)
	if err != nil {
		t.Fatalf("GetForecast(2) error = %v", err)
	}
	if got.SummaryText() != "Cold" {
		t.Errorf("GetForecast(2) summary = %q, want Cold", got.SummaryText())
	}

	_, err = f.service.GetForecast(ctx, 9)
	var nf *repository.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("GetForecast(9) error = %v, want *NotFoundError", err)
	}
	if nf.ID != "9" {
		t.Errorf("NotFoundError.ID = %q, want 9", nf.ID)
	}

	if got := testutil.ToFloat64(f.metrics.StoreOperationsTotal.WithLabelValues("get", "not_found")); got != 1 {
		t.Errorf("get/not_found counter = %v, want 1", got)
	}
}

func TestForecastService_CreateUpdatesGauge(t *testing.T) {
	f := newFixture(t, repository.IdentityLength, DeleteLegacy)
	ctx := context.Background()

	if got := testutil.ToFloat64(f.metrics.StoreRecords); got != 5 {
		t.Fatalf("store_records gauge = %v, want 5", got)
	}

	summary := "Mild"
	created := f.service.CreateForecast(ctx, models.PostModel{TemperatureC: 50, Summary: &summary})
	if created.ID != 6 {
		t.Errorf("CreateForecast() id = %d, want 6", created.ID)
	}
	if got := testutil.ToFloat64(f.metrics.StoreRecords); got != 6 {
		t.Errorf("store_records gauge = %v, want 6", got)
	}
	if !strings.Contains(f.logs.String(), "[FORECAST_CREATED]") {
		t.Error("expected a creation log line")
	}
}

func TestForecastService_Patch(t *testing.T) {
	f := newFixture(t, repository.IdentityLength, DeleteLegacy)
	ctx := context.Background()

	if err := f.service.PatchForecastBySummary(ctx, 42, "hot", models.PatchModel{TemperatureC: 99}); err != nil {
		t.Fatalf("PatchForecastBySummary() error = %v", err)
	}
	hot, _ := f.service.GetForecast(ctx, 1)
	if hot.TemperatureC != 99 {
		t.Errorf("Hot temperature = %d, want 99", hot.TemperatureC)
	}

	err := f.service.PatchForecastBySummary(ctx, 1, "nonexistent", models.PatchModel{TemperatureC: 99})
	var nf *repository.NotFoundError
	if !errors.As(err, &nf) || nf.ID != "nonexistent" {
		t.Errorf("PatchForecastBySummary(nonexistent) error = %v", err)
	}

	if err := f.service.PatchForecast(ctx, 5, models.PatchModel{TemperatureC: 1}); err != nil {
		t.Errorf("PatchForecast(5) error = %v", err)
	}
	if err := f.service.PatchForecast(ctx, 50, models.PatchModel{TemperatureC: 1}); err == nil {
		t.Error("PatchForecast(50) should fail")
	}
}

func TestForecastService_ReplaceForecast(t *testing.T) {
	f := newFixture(t, repository.IdentityLength, DeleteLegacy)
	ctx := context.Background()

	if err := f.service.ReplaceForecast(ctx, 1, models.WeatherForecast{TemperatureC: 3}); err != nil {
		t.Fatalf("ReplaceForecast(1) error = %v", err)
	}
	if err := f.service.ReplaceForecast(ctx, 77, models.WeatherForecast{}); err == nil {
		t.Error("ReplaceForecast(77) should fail")
	}
}

func TestForecastService_DeleteModes(t *testing.T) {
	ctx := context.Background()

	legacy := newFixture(t, repository.IdentityLength, DeleteLegacy)
	if got := legacy.service.DeleteForecast(ctx, 1); got != models.OutcomeNotFound {
		t.Errorf("legacy DeleteForecast(1) = %v, want NotFound", got)
	}
	if got := legacy.service.CountForecasts(ctx); got != 5 {
		t.Errorf("legacy delete removed a record: count %d", got)
	}

	remove := newFixture(t, repository.IdentitySequence, DeleteRemove)
	if got := remove.service.DeleteForecast(ctx, 1); got != models.OutcomeNoContent {
		t.Errorf("remove DeleteForecast(1) = %v, want NoContentSuccess", got)
	}
	if got := remove.service.DeleteForecast(ctx, 1); got != models.OutcomeNotFound {
		t.Errorf("second remove DeleteForecast(1) = %v, want NotFound", got)
	}
	if got := testutil.ToFloat64(remove.metrics.StoreRecords); got != 4 {
		t.Errorf("store_records gauge = %v, want 4", got)
	}
}

func TestParseDeleteMode(t *testing.T) {
	tests := []struct {
		in      string
		want    DeleteMode
		wantErr bool
	}{
		{"", DeleteLegacy, false},
		{"legacy", DeleteLegacy, false},
		{"Remove", DeleteRemove, false},
		{"purge", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDeleteMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseDeleteMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}
