package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ryadom/ryadom/internal/apperrors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, err error) {
	respondWithJSON(w, apperrors.HTTPStatus(err), ErrorResponse{
		Error: ErrorDetail{
			Code:    apperrors.Code(err),
			Message: apperrors.ClientMessage(err),
		},
	})
}

// decodeJSON decodes a request body into a declared shape. Unknown fields
// are rejected at the boundary, and struct validation tags are enforced
// before any work happens.
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return apperrors.Validation("Invalid request body")
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			fields := make([]string, 0, len(validationErrs))
			for _, fieldErr := range validationErrs {
				fields = append(fields, fieldErr.Field())
			}
			return apperrors.Validation(fmt.Sprintf("Invalid or missing fields: %s", strings.Join(fields, ", ")))
		}
		return apperrors.Validation("Invalid request body")
	}

	return nil
}
