package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registration(email, userType string) map[string]any {
	return map[string]any{
		"name":                   "  Rina  ",
		"email":                  email,
		"phone_number":           "+6281234567890",
		"driving_license_number": "123456789012345",
		"password":               "rinapass1",
		"user_type":              userType,
	}
}

func TestRegister(t *testing.T) {
	t.Run("anonymous caller always creates a customer", func(t *testing.T) {
		a := newTestAPI(t)

		rec := a.do(t, http.MethodPost, "/api/user", "", registration("rina@example.com", "admin"))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var user domain.User
		decodeData(t, rec, &user)
		assert.Equal(t, domain.UserTypeCustomer, user.UserType)
		assert.Equal(t, "Rina", user.Name)
		assert.Equal(t, "User data successfully inserted", decodeEnvelope(t, rec).Message)
		assert.NotContains(t, rec.Body.String(), "rinapass1")
		assert.NotContains(t, rec.Body.String(), "hashed:")
		assert.Nil(t, user.CreatedBy, "self-registration has no actor")

		// the new account can log in
		rec = a.do(t, http.MethodPost, "/api/user/login", "", map[string]string{
			"email": "rina@example.com", "password": "rinapass1",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("password keeps surrounding spaces", func(t *testing.T) {
		a := newTestAPI(t)
		body := registration("spacey@example.com", "customer")
		body["password"] = "  spacey-pass  "

		rec := a.do(t, http.MethodPost, "/api/user", "", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = a.do(t, http.MethodPost, "/api/user/login", "", map[string]string{
			"email": "spacey@example.com", "password": "  spacey-pass  ",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = a.do(t, http.MethodPost, "/api/user/login", "", map[string]string{
			"email": "spacey@example.com", "password": "spacey-pass",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin may create admins", func(t *testing.T) {
		a := newTestAPI(t)

		rec := a.do(t, http.MethodPost, "/api/user", a.admin(t), registration("ops@karent.id", "Admin"))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var user domain.User
		decodeData(t, rec, &user)
		assert.Equal(t, domain.UserTypeAdmin, user.UserType)
		require.NotNil(t, user.CreatedBy)
		assert.Equal(t, a.adminID, *user.CreatedBy)
	})

	tests := []struct {
		name        string
		body        map[string]any
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "duplicate email",
			body:        registration("budi@example.com", "customer"),
			wantStatus:  http.StatusConflict,
			wantMessage: "Duplicate User exists.",
		},
		{
			name: "short password",
			body: func() map[string]any {
				b := registration("new@example.com", "customer")
				b["password"] = "short"
				return b
			}(),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Password must be at least 8 characters long.",
		},
		{
			name: "phone too long for column",
			body: func() map[string]any {
				b := registration("new@example.com", "customer")
				b["phone_number"] = "+628123456789012345678"
				return b
			}(),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid PhoneNumber: too long",
		},
		{
			name: "invalid email",
			body: func() map[string]any {
				b := registration("not-an-email", "customer")
				return b
			}(),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Valid email is required.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAPI(t)
			rec := a.do(t, http.MethodPost, "/api/user", "", tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantMessage, decodeEnvelope(t, rec).Message)
		})
	}
}

func TestUserRoutes_AdminOnlyReads(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/user", a.budi(t), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/user", a.admin(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []domain.User
	decodeData(t, rec, &users)
	assert.Len(t, users, 3)
	assert.NotContains(t, rec.Body.String(), "hashed:")
	assert.Equal(t, "3 User data(s) successfully fetched", decodeEnvelope(t, rec).Message)

	decodeData(t, a.do(t, http.MethodGet, "/api/user/filter/siti", a.admin(t), nil), &users)
	require.Len(t, users, 1)
	assert.Equal(t, a.sitiID, users[0].ID)

	rec = a.do(t, http.MethodGet, fmt.Sprintf("/api/user/%d", a.budiID), a.admin(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var user domain.User
	decodeData(t, rec, &user)
	assert.Equal(t, "Budi", user.Name)
}

func TestUserRoutes_Update(t *testing.T) {
	a := newTestAPI(t)

	update := func(id int64, userType string) map[string]any {
		return map[string]any{
			"id": id, "name": "Budi Santoso", "email": "budi@example.com", "user_type": userType,
		}
	}

	t.Run("customer cannot update someone else", func(t *testing.T) {
		rec := a.do(t, http.MethodPut, "/api/user", a.budi(t), update(a.sitiID, "customer"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("customer cannot promote themselves", func(t *testing.T) {
		rec := a.do(t, http.MethodPut, "/api/user", a.budi(t), update(a.budiID, "admin"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var user domain.User
		decodeData(t, rec, &user)
		assert.Equal(t, "Budi Santoso", user.Name)
		assert.Equal(t, domain.UserTypeCustomer, user.UserType)
		require.NotNil(t, user.ModifiedBy)
		assert.Equal(t, a.budiID, *user.ModifiedBy)
	})

	t.Run("password change takes effect", func(t *testing.T) {
		body := update(a.budiID, "customer")
		body["password"] = "brandnewpass"
		rec := a.do(t, http.MethodPut, "/api/user", a.budi(t), body)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = a.do(t, http.MethodPost, "/api/user/login", "", map[string]string{
			"email": "budi@example.com", "password": "brandnewpass",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin can change user type", func(t *testing.T) {
		body := update(a.sitiID, "admin")
		body["email"] = "siti@example.com"
		rec := a.do(t, http.MethodPut, "/api/user", a.admin(t), body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var user domain.User
		decodeData(t, rec, &user)
		assert.Equal(t, domain.UserTypeAdmin, user.UserType)
	})
}

func TestUserRoutes_Delete(t *testing.T) {
	a := newTestAPI(t)
	carID := a.createCar(t, "Toyota", "Avanza", 2022)
	a.createRental(t, a.budiID, carID, "2025-01-10", "2025-01-12")

	rec := a.do(t, http.MethodDelete, fmt.Sprintf("/api/user/%d", a.sitiID), a.budi(t), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, http.MethodDelete, fmt.Sprintf("/api/user/%d", a.budiID), a.admin(t), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User is currently in use and cannot be deleted.", decodeEnvelope(t, rec).Message)

	rec = a.do(t, http.MethodDelete, fmt.Sprintf("/api/user/%d", a.sitiID), a.admin(t), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodDelete, fmt.Sprintf("/api/user/%d", a.sitiID), a.admin(t), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
