package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"forecast-api/internal/models"
	"forecast-api/internal/repository"
	"forecast-api/internal/services"
	"forecast-api/pkg/logging"
	"forecast-api/pkg/metrics"
)

// Route names used to build hypermedia links.
const (
	routeGetForecast    = "getForecast"
	routePutForecast    = "putForecast"
	routeDeleteForecast = "deleteForecast"
	routeGetCode        = "getCode"
)

// temperatureScript is served by GET /WeatherForecast/code.
const temperatureScript = `
    function calculateTemperatureF(temperatureC) {
        return 32 + (temperatureC / 0.5556);
    }`

// ForecastHandler handles the /WeatherForecast endpoints
type ForecastHandler struct {
	responder
	service *services.ForecastService
	log     *logging.ContextLogger
	router  *mux.Router
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(
	service *services.ForecastService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *ForecastHandler {
	return &ForecastHandler{
		responder: responder{logger: logger, metrics: metricsCollector},
		service:   service,
		log:       logger.WithFields(logging.Fields{"component": "forecast_handler"}),
	}
}

// ListForecasts handles GET /WeatherForecast
func (h *ForecastHandler) ListForecasts(w http.ResponseWriter, r *http.Request) {
	forecasts := h.service.ListForecasts(r.Context())

	w.Header().Set("Cache-Control", "public,max-age=60")
	h.sendJSON(w, r, forecasts, http.StatusOK)
}

// HeadForecasts handles HEAD /WeatherForecast
func (h *ForecastHandler) HeadForecasts(w http.ResponseWriter, r *http.Request) {
	count := h.service.CountForecasts(r.Context())
	if count == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(count))
	w.WriteHeader(http.StatusNoContent)
}

// GetForecast handles GET /WeatherForecast/{id}
func (h *ForecastHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	forecast, err := h.service.GetForecast(r.Context(), id)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store,no-cache")
	w.Header().Set("Pragma", "no-cache")
	h.sendJSON(w, r, models.WeatherForecastResource{
		WeatherForecast: forecast,
		Links:           h.links(r, forecast.ID),
	}, http.StatusOK)
}

// CreateForecast handles POST /WeatherForecast
func (h *ForecastHandler) CreateForecast(w http.ResponseWriter, r *http.Request) {
	var req models.PostModel
	if err := decodeBody(r, &req); err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	forecast := h.service.CreateForecast(r.Context(), req)

	w.Header().Set("Location", h.url(r, routeGetForecast, forecast.ID))
	h.sendJSON(w, r, forecast, http.StatusCreated)
}

// ReplaceForecast handles PUT /WeatherForecast/{id}
func (h *ForecastHandler) ReplaceForecast(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req models.PutModel
	if err := decodeBody(r, &req); err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	if err := h.service.ReplaceForecast(r.Context(), id, *req.WeatherForecast); err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PatchForecastBySummary handles PATCH /WeatherForecast/{id}/{summary}
func (h *ForecastHandler) PatchForecastBySummary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req models.PatchModel
	if err := decodeBody(r, &req); err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	if err := h.service.PatchForecastBySummary(r.Context(), id, mux.Vars(r)["summary"], req); err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PatchForecast handles PATCH /WeatherForecast/{id}
func (h *ForecastHandler) PatchForecast(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req models.PatchModel
	if err := decodeBody(r, &req); err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	if err := h.service.PatchForecast(r.Context(), id, req); err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteForecast handles DELETE /WeatherForecast/{id}
func (h *ForecastHandler) DeleteForecast(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	switch h.service.DeleteForecast(r.Context(), id) {
	case models.OutcomeBadRequest:
		h.sendError(w, r, "bad_request", "forecast cannot be deleted", http.StatusBadRequest)
	case models.OutcomeNotFound:
		h.sendError(w, r, "not_found", "forecast not found", http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetCode handles GET /WeatherForecast/code
func (h *ForecastHandler) GetCode(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(temperatureScript)); err != nil {
		h.log.Error(r.Context(), "[API_WRITE_ERROR] Failed to write script", logging.Fields{}, err)
	}
}

// HealthCheck handles GET /health
func (h *ForecastHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"records":   h.service.CountForecasts(ctx),
	}

	h.log.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, r, status, http.StatusOK)
}

// pathID parses the {id} route variable, answering 400 when it is not an integer.
func (h *ForecastHandler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		h.sendError(w, r, "invalid_id", "id must be an integer, got "+strconv.Quote(raw), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// sendServiceError maps typed errors to status codes.
func (h *ForecastHandler) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *repository.NotFoundError
	var invalid *models.ValidationError

	switch {
	case errors.As(err, &notFound):
		h.sendError(w, r, "not_found", err.Error(), http.StatusNotFound)
	case errors.As(err, &invalid):
		h.sendError(w, r, "validation_error", err.Error(), http.StatusBadRequest)
	default:
		h.log.Error(r.Context(), "[API_ERROR] Unhandled service error", logging.Fields{
			"path": r.URL.Path,
		}, err)
		h.sendError(w, r, "internal_error", "internal server error", http.StatusInternalServerError)
	}
}

func (h *ForecastHandler) links(r *http.Request, id int) []models.Link {
	return []models.Link{
		{Href: h.url(r, routeGetForecast, id), Rel: "self", Method: http.MethodGet},
		{Href: h.url(r, routePutForecast, id), Rel: "update", Method: http.MethodPut},
		{Href: h.url(r, routeDeleteForecast, id), Rel: "delete", Method: http.MethodDelete},
		{Href: h.url(r, routeGetCode, 0), Rel: "code", Method: http.MethodGet},
	}
}

// url builds a path from a named route. id is ignored for routes without one.
func (h *ForecastHandler) url(r *http.Request, name string, id int) string {
	route := h.router.Get(name)
	if route == nil {
		return ""
	}

	var pairs []string
	if name != routeGetCode {
		pairs = []string{"id", strconv.Itoa(id)}
	}
	u, err := route.URL(pairs...)
	if err != nil {
		h.log.Warn(r.Context(), "[API_LINK_ERROR] Failed to build link", logging.Fields{
			"route": name,
			"error": err.Error(),
		})
		return ""
	}
	return u.Path
}

// RegisterRoutes registers all forecast API routes
func (h *ForecastHandler) RegisterRoutes(router *mux.Router) {
	h.router = router

	router.HandleFunc("/WeatherForecast", h.ListForecasts).Methods(http.MethodGet)
	router.HandleFunc("/WeatherForecast", h.HeadForecasts).Methods(http.MethodHead)
	router.HandleFunc("/WeatherForecast", h.CreateForecast).Methods(http.MethodPost)

	// code must be matched before {id}
	router.HandleFunc("/WeatherForecast/code", h.GetCode).Methods(http.MethodGet).Name(routeGetCode)

	router.HandleFunc("/WeatherForecast/{id}", h.GetForecast).Methods(http.MethodGet).Name(routeGetForecast)
	router.HandleFunc("/WeatherForecast/{id}", h.ReplaceForecast).Methods(http.MethodPut).Name(routePutForecast)
	router.HandleFunc("/WeatherForecast/{id}", h.PatchForecast).Methods(http.MethodPatch)
	router.HandleFunc("/WeatherForecast/{id}", h.DeleteForecast).Methods(http.MethodDelete).Name(routeDeleteForecast)
	// A non-integer id does not match this route, so it answers 404.
	router.HandleFunc("/WeatherForecast/{id:-?[0-9]+}/{summary}", h.PatchForecastBySummary).Methods(http.MethodPatch)

	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
}
