package utils

import (
	"errors"
	"log/slog"
	"net/http"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// ParseAndValidate decodes a typed request body and runs its validate tags.
// On failure the response has been written and false is returned.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate, logger *slog.Logger) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		logger.Warn("Invalid request body", slog.String("error", err.Error()))
		response.Error(w, appErrors.BadRequestError("Invalid request body").WithError(err))
		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {
		logger.Warn("Validation failed", slog.String("error", err.Error()))

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.ValidationError(w, validationErrs)
			return false
		}

		response.Error(w, appErrors.BadRequestError("Invalid input data"))
		return false
	}

	return true
}

// ParseAttributes decodes a JSON object body into raw entity attributes.
// Validation is left to the entity store.
func ParseAttributes(r *http.Request, w http.ResponseWriter, logger *slog.Logger) (models.Attributes, bool) {

	var attrs models.Attributes

	if err := DecodeJSONBody(r, &attrs); err != nil {
		logger.Warn("Invalid request body", slog.String("error", err.Error()))
		response.Error(w, appErrors.BadRequestError("Request body must be a JSON object").WithError(err))
		return nil, false
	}

	if attrs == nil {
		response.Error(w, appErrors.BadRequestError("Request body must be a JSON object"))
		return nil, false
	}

	return attrs, true
}
