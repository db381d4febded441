package service

import (
	"context"
	"testing"

	"github.com/ryadom/ryadom/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUsersService_CreateUser(t *testing.T) {
	store := newMemUserStore()
	svc := NewUsersService(store, testLogger())

	user, err := svc.CreateUser(context.Background(), UserParams{
		Name:           "Alice",
		Surname:        "Ivanova",
		Email:          "alice@example.com",
		Password:       "password123",
		IsSpbsuStudent: true,
		University:     "SPbSU",
		Course:         2,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))

	stored, err := store.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, stored.Email)
}

func TestUsersService_CreateUserDuplicateEmail(t *testing.T) {
	store := newMemUserStore()
	svc := NewUsersService(store, testLogger())

	_, err := svc.CreateUser(context.Background(), UserParams{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), UserParams{Email: "alice@example.com", Password: "password456"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Contains(t, err.Error(), "already exists")
}

func TestUsersService_GetUserNotFound(t *testing.T) {
	svc := NewUsersService(newMemUserStore(), testLogger())

	_, err := svc.GetUser(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUsersService_UpdateUser(t *testing.T) {
	store := newMemUserStore()
	svc := NewUsersService(store, testLogger())

	created, err := svc.CreateUser(context.Background(), UserParams{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(context.Background(), created.ID, UserParams{
		Name:    "Alisa",
		Email:   "alisa@example.com",
		Faculty: "Mathematics",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alisa", updated.Name)
	assert.Equal(t, "alisa@example.com", updated.Email)
	assert.Equal(t, "Mathematics", updated.Faculty)
	// Empty password means the hash stays untouched.
	assert.Equal(t, created.PasswordHash, updated.PasswordHash)

	_, err = store.GetByEmail(context.Background(), "alice@example.com")
	assert.Error(t, err)
}

func TestUsersService_UpdateUserRehashesPassword(t *testing.T) {
	store := newMemUserStore()
	svc := NewUsersService(store, testLogger())

	created, err := svc.CreateUser(context.Background(), UserParams{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(context.Background(), created.ID, UserParams{
		Email:    "alice@example.com",
		Password: "newpassword1",
	})
	require.NoError(t, err)

	assert.NotEqual(t, created.PasswordHash, updated.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpassword1")))
}

func TestUsersService_UpdateUserNotFound(t *testing.T) {
	svc := NewUsersService(newMemUserStore(), testLogger())

	_, err := svc.UpdateUser(context.Background(), "missing", UserParams{Email: "x@example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUsersService_DeleteUser(t *testing.T) {
	store := newMemUserStore()
	svc := NewUsersService(store, testLogger())

	created, err := svc.CreateUser(context.Background(), UserParams{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	deleted, err := svc.DeleteUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = svc.GetUser(context.Background(), created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUsersService_ListUsers(t *testing.T) {
	store := newMemUserStore()
	svc := NewUsersService(store, testLogger())

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := svc.CreateUser(context.Background(), UserParams{Email: email, Password: "password123"})
		require.NoError(t, err)
	}

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
