package service

import (
	"context"

	"github.com/ryadom/ryadom/internal/models"
)

// Store interfaces consumed by the services. The DynamoDB implementations
// live in internal/repository; tests substitute in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User, previousEmail string) error
	Delete(ctx context.Context, user *models.User) error
}

type RefreshTokenStore interface {
	Store(ctx context.Context, token *models.RefreshToken) error
	Get(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

type MemberStore interface {
	Add(ctx context.Context, member *models.Member) error
	ListByEvent(ctx context.Context, eventID string) ([]models.Member, error)
}

type GeocodeCacheStore interface {
	Get(ctx context.Context, address string) (*models.GeocodeResult, error)
	Set(ctx context.Context, result *models.GeocodeResult) error
}
