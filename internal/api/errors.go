package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/karent-api/internal/api/shared"
	"github.com/phrazzld/karent-api/internal/service"
)

// HTTPStatus maps a service outcome to an HTTP status code. An empty
// listing or lookup (NoContent) is reported as 404 so the body still
// reaches the client.
func HTTPStatus(s service.Status) int {
	switch s {
	case service.StatusOK:
		return http.StatusOK
	case service.StatusCreated:
		return http.StatusCreated
	case service.StatusBadRequest:
		return http.StatusBadRequest
	case service.StatusNotFound, service.StatusNoContent:
		return http.StatusNotFound
	case service.StatusConflict:
		return http.StatusConflict
	case service.StatusUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondResult writes a service result as an Envelope. Internal errors are
// logged with their cause; only the result's safe message reaches the client.
func respondResult[T any](w http.ResponseWriter, r *http.Request, res service.Result[T]) {
	status := HTTPStatus(res.Status)
	switch {
	case res.Succeeded():
		shared.RespondWithEnvelope(w, r, status, res.Message, res.Data)
	case status >= http.StatusInternalServerError:
		shared.RespondWithErrorAndLog(w, r, status, res.Message, res.Err)
	default:
		shared.RespondWithError(w, r, status, res.Message)
	}
}

// respondBadRequest reports a request body that could not be decoded or
// failed its struct tags.
func respondBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	message := "Invalid request format"
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		message = SanitizeValidationError(err)
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, message, err)
}

// SanitizeValidationError turns a validator error into a short message that
// names the offending field without echoing its value.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}

	errMsg := err.Error()
	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				if len(fieldParts) >= 5 && fieldParts[3] != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fieldParts[3]))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte", "gt":
		return "too short"
	case "max", "lte", "lt":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
