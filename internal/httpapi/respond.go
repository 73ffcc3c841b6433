package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/viewtube/backend/internal/logging"
)

// Envelope is the uniform success body: success is true for status < 400.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorEnvelope is the uniform error body.
type ErrorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// HandlerFunc is an HTTP handler that reports failures by returning an
// error instead of writing its own error response.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Wrap is the single error boundary: it converts a returned error into the
// error envelope and logs it with the request-scoped logger.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		apiErr := FromError(err)
		logger := logging.FromContext(r.Context())
		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", "status", apiErr.Status, "error", err)
		} else {
			logger.Warn("request rejected", "status", apiErr.Status, "error", err)
		}

		RenderError(r.Context(), w, apiErr)
	}
}

// RenderError writes the error envelope for failures that happen outside the
// Wrap boundary, such as middleware rejecting a request before any handler
// runs.
func RenderError(ctx context.Context, w http.ResponseWriter, apiErr *Error) {
	details := apiErr.Details
	if details == nil {
		details = []string{}
	}
	writeJSON(ctx, w, apiErr.Status, ErrorEnvelope{
		StatusCode: apiErr.Status,
		Message:    apiErr.Message,
		Success:    false,
		Errors:     details,
	})
}

// Respond writes the success envelope with the provided status and payload.
func Respond(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	writeJSON(ctx, w, status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
	}
}
