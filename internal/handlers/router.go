package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"forecast-api/internal/services"
	"forecast-api/pkg/logging"
	"forecast-api/pkg/metrics"
)

// RouterOptions toggles the optional surfaces of the API.
type RouterOptions struct {
	DocsEnabled bool
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
}

// NewRouter wires every handler and middleware onto a fresh mux router.
func NewRouter(
	service *services.ForecastService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
	opts RouterOptions,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestID, Instrument(logger, metricsCollector))

	NewForecastHandler(service, logger, metricsCollector).RegisterRoutes(router)
	NewWalletHandler(logger, metricsCollector).RegisterRoutes(router)

	if opts.DocsEnabled {
		NewDocsHandler(logger, metricsCollector).RegisterRoutes(router)
	}
	if opts.MetricsHandler != nil {
		router.Handle("/metrics", opts.MetricsHandler).Methods(http.MethodGet)
	}

	return router
}
