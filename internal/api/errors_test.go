package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/karent-api/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		status service.Status
		want   int
	}{
		{service.StatusOK, http.StatusOK},
		{service.StatusCreated, http.StatusCreated},
		{service.StatusBadRequest, http.StatusBadRequest},
		{service.StatusNotFound, http.StatusNotFound},
		{service.StatusNoContent, http.StatusNotFound},
		{service.StatusConflict, http.StatusConflict},
		{service.StatusUnauthorized, http.StatusUnauthorized},
		{service.StatusInternalError, http.StatusInternalServerError},
		{service.Status(0), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.status.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.status))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	type payload struct {
		Email string `validate:"required"`
		Name  string `validate:"max=3"`
	}
	v := validator.New()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "required",
			err:  v.Struct(payload{Name: "ok"}),
			want: "Invalid Email: required field",
		},
		{
			name: "max",
			err:  v.Struct(payload{Email: "a@b.c", Name: "toolong"}),
			want: "Invalid Name: too long",
		},
		{
			name: "validator message text",
			err: errors.New("Key: 'LoginRequest.Email' Error:Field validation for 'Email' " +
				"failed on the 'email' tag"),
			want: "Invalid Email: invalid email format",
		},
		{
			name: "anything else",
			err:  errors.New("password=hunter2 rejected"),
			want: "Validation error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeValidationError(tc.err))
		})
	}
}
