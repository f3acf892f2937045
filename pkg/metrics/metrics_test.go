package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Recorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("forecast_api", reg)

	c.RecordAPIRequest("/WeatherForecast", "GET", "200")
	c.RecordAPIRequest("/WeatherForecast", "GET", "200")
	c.RecordAPIError("not_found", "/WeatherForecast/{id}")
	c.RecordStoreOperation("create", "ok")
	c.SetStoreRecords(6)
	c.RecordConfigReload("success")

	if got := testutil.ToFloat64(c.APIRequestsTotal.WithLabelValues("/WeatherForecast", "GET", "200")); got != 2 {
		t.Errorf("api_requests_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.APIErrorsTotal.WithLabelValues("not_found", "/WeatherForecast/{id}")); got != 1 {
		t.Errorf("api_errors_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.StoreOperationsTotal.WithLabelValues("create", "ok")); got != 1 {
		t.Errorf("store_operations_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.StoreRecords); got != 6 {
		t.Errorf("store_records = %v, want 6", got)
	}
	if got := testutil.ToFloat64(c.ConfigReloadsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("config_reloads_total = %v, want 1", got)
	}
}

func TestCollector_SeparateRegistries(t *testing.T) {
	// Two collectors on distinct registries must not collide.
	NewCollector("forecast_api", prometheus.NewRegistry())
	NewCollector("forecast_api", prometheus.NewRegistry())
}

func TestTimer_ObserveDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("forecast_api", reg)

	timer := c.NewTimer(c.APIRequestDuration.WithLabelValues("/health"))
	if d := timer.ObserveDuration(); d < 0 {
		t.Errorf("negative duration %v", d)
	}

	if got := testutil.CollectAndCount(c.APIRequestDuration); got != 1 {
		t.Errorf("histogram series = %d, want 1", got)
	}
}
