package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ryadom/ryadom/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const createAliceBody = `{
	"name": "Alice",
	"surname": "Ivanova",
	"email": "alice@example.com",
	"password": "password123",
	"is_spbsu_student": true,
	"university": "SPbSU",
	"course": 2
}`

func TestUserHandlers_CreateUser(t *testing.T) {
	router, _, _ := usersRouter(t)

	rec := postJSON(t, router, "/users/", createAliceBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.IsSpbsuStudent)
	// The hash never leaves the service.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUserHandlers_CreateUserValidation(t *testing.T) {
	router, _, _ := usersRouter(t)

	rec := postJSON(t, router, "/users/", `{"name":"Alice","email":"alice@example.com","password":"short"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Error.Code)

	rec = postJSON(t, router, "/users/", `{"name":"Alice","password":"password123"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandlers_CreateUserDuplicateEmail(t *testing.T) {
	router, _, _ := usersRouter(t)

	rec := postJSON(t, router, "/users/", createAliceBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/users/", createAliceBody)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Message, "already exists")
}

func TestUserHandlers_GetUser(t *testing.T) {
	router, users, _ := usersRouter(t)
	users.add(t, "user-1", "alice@example.com", "password123")

	req := httptest.NewRequest(http.MethodGet, "/users/user-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "user-1", user.ID)
}

func TestUserHandlers_GetUserNotFound(t *testing.T) {
	router, _, _ := usersRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/users/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Error.Code)
}

func TestUserHandlers_ListUsersEmpty(t *testing.T) {
	router, _, _ := usersRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/users/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":[]}`, rec.Body.String())
}

func TestUserHandlers_UpdateUser(t *testing.T) {
	router, users, _ := usersRouter(t)
	users.add(t, "user-1", "alice@example.com", "password123")

	body := `{"name":"Alisa","email":"alisa@example.com","faculty":"Mathematics"}`
	req := httptest.NewRequest(http.MethodPut, "/users/user-1", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "Alisa", user.Name)
	assert.Equal(t, "alisa@example.com", user.Email)
}

func TestUserHandlers_DeleteUser(t *testing.T) {
	router, users, _ := usersRouter(t)
	users.add(t, "user-1", "alice@example.com", "password123")

	req := httptest.NewRequest(http.MethodDelete, "/users/user-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/users/user-1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
