package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ryadom/ryadom/internal/apperrors"
	"github.com/ryadom/ryadom/internal/models"
	"github.com/ryadom/ryadom/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UsersService struct {
	users  UserStore
	logger *logrus.Logger
}

func NewUsersService(users UserStore, logger *logrus.Logger) *UsersService {
	return &UsersService{
		users:  users,
		logger: logger,
	}
}

// UserParams carries the writable profile fields plus the plaintext
// password. Only the bcrypt hash ever reaches the store.
type UserParams struct {
	Name           string
	Surname        string
	Email          string
	Password       string
	IsSpbsuStudent bool
	University     string
	Faculty        string
	Speciality     string
	Course         int
	Photo          string
}

func (s *UsersService) CreateUser(ctx context.Context, params UserParams) (*models.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		ID:             uuid.New().String(),
		Name:           params.Name,
		Surname:        params.Surname,
		Email:          params.Email,
		PasswordHash:   string(passwordHash),
		IsSpbsuStudent: params.IsSpbsuStudent,
		University:     params.University,
		Faculty:        params.Faculty,
		Speciality:     params.Speciality,
		Course:         params.Course,
		Photo:          params.Photo,
		CreatedAt:      time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.Validation(fmt.Sprintf("User with email %s already exists", params.Email))
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to create user: %w", err))
	}

	return user, nil
}

func (s *UsersService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("User with id %s not found", id))
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to get user: %w", err))
	}
	return user, nil
}

func (s *UsersService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list users: %w", err))
	}
	return users, nil
}

func (s *UsersService) UpdateUser(ctx context.Context, id string, params UserParams) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	previousEmail := user.Email

	user.Name = params.Name
	user.Surname = params.Surname
	user.Email = params.Email
	user.IsSpbsuStudent = params.IsSpbsuStudent
	user.University = params.University
	user.Faculty = params.Faculty
	user.Speciality = params.Speciality
	user.Course = params.Course
	user.Photo = params.Photo

	if params.Password != "" {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
		}
		user.PasswordHash = string(passwordHash)
	}

	if err := s.users.Update(ctx, user, previousEmail); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound(fmt.Sprintf("User with id %s not found", id))
		case errors.Is(err, repository.ErrConflict):
			return nil, apperrors.Validation(fmt.Sprintf("User with email %s already exists", params.Email))
		default:
			return nil, apperrors.Internal(fmt.Errorf("failed to update user: %w", err))
		}
	}

	return user, nil
}

func (s *UsersService) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.users.Delete(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("User with id %s not found", id))
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to delete user: %w", err))
	}

	return user, nil
}
