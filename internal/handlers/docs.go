package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"forecast-api/internal/docs"
	"forecast-api/pkg/logging"
	"forecast-api/pkg/metrics"
)

// OpenAPIPath is where the generated document is served.
const OpenAPIPath = "/swagger/v1/swagger.json"

// DocsHandler serves the OpenAPI document and the Swagger UI
type DocsHandler struct {
	responder
	document map[string]interface{}
}

// NewDocsHandler renders the document once with the default filters.
func NewDocsHandler(logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *DocsHandler {
	return &DocsHandler{
		responder: responder{logger: logger, metrics: metricsCollector},
		document:  docs.Build(docs.DefaultInfo(), docs.Operations(), docs.DefaultFilters()...),
	}
}

// OpenAPISpec handles GET /swagger/v1/swagger.json
func (h *DocsHandler) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, r, h.document, http.StatusOK)
}

// RegisterRoutes registers the documentation routes
func (h *DocsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc(OpenAPIPath, h.OpenAPISpec).Methods(http.MethodGet)
	router.HandleFunc("/swagger", h.SwaggerUI).Methods(http.MethodGet)
	router.Handle(customCSSPath, http.HandlerFunc(h.CustomCSS)).Methods(http.MethodGet)
}
