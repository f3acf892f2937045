package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"forecast-api/internal/models"
	"forecast-api/pkg/logging"
	"forecast-api/pkg/metrics"
)

var validate = validator.New()

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// responder carries what every handler needs to write responses.
type responder struct {
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// sendJSON sends a JSON response
func (h responder) sendJSON(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error(r.Context(), "[API_ENCODE_ERROR] Failed to encode response", logging.Fields{
			"status": statusCode,
		}, err)
	}
}

// sendError sends an error response and counts it
func (h responder) sendError(w http.ResponseWriter, r *http.Request, errorType, message string, statusCode int) {
	h.metrics.RecordAPIError(errorType, routeTemplate(r))

	h.sendJSON(w, r, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}, statusCode)
}

// decodeBody decodes a JSON body into dst and validates its shape, then runs
// dst's own Validate method when it has one.
// All failures are returned as *models.ValidationError.
func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			return vErr
		}
		if errors.Is(err, io.EOF) {
			return &models.ValidationError{Field: "body", Message: "request body is required"}
		}
		return &models.ValidationError{Field: "body", Message: fmt.Sprintf("malformed JSON: %v", err)}
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return &models.ValidationError{Field: "body", Message: strings.Join(msgs, "; ")}
		}
		return &models.ValidationError{Field: "body", Message: err.Error()}
	}

	if v, ok := dst.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}
