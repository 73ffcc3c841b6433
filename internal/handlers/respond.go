package handlers

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/viewtube/backend/internal/auth"
	"github.com/viewtube/backend/internal/httpapi"
	"github.com/viewtube/backend/internal/models"
)

// requireUser fetches the authenticated user attached by the auth
// middleware. Routes behind Require always have one; the error branch only
// fires on wiring mistakes.
func requireUser(ctx context.Context) (models.User, error) {
	user, ok := auth.CurrentUser(ctx)
	if !ok {
		return models.User{}, httpapi.Unauthorized("unauthorized access")
	}
	return user, nil
}

// decodeJSON decodes the request body into v, mapping malformed payloads to
// a 400.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return httpapi.Validation("invalid request body")
	}
	return nil
}

// formFile returns the first uploaded file for the field, or nil.
func formFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
