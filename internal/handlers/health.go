package handlers

import (
	"net/http"

	"github.com/viewtube/backend/internal/httpapi"
)

// Health reports process liveness.
func Health(w http.ResponseWriter, r *http.Request) error {
	httpapi.Respond(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"}, "service healthy")
	return nil
}
