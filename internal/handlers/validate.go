package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/viewtube/backend/internal/httpapi"
)

var validate = validator.New()

// checkStruct runs tag validation over a request payload and converts
// failures into a 400 with field-level details. Struct names never leak.
func checkStruct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return httpapi.Validation("invalid request body")
	}

	details := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field()[:1]) + e.Field()[1:]
		switch e.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", field))
		case "email":
			details = append(details, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			details = append(details, fmt.Sprintf("%s must be at least %s characters", field, e.Param()))
		case "max":
			details = append(details, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		default:
			details = append(details, fmt.Sprintf("%s is invalid", field))
		}
	}

	return httpapi.Validation("all fields are required").WithDetails(details...)
}
