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
)

type EventsService struct {
	events  EventStore
	members MemberStore
	logger  *logrus.Logger
}

func NewEventsService(events EventStore, members MemberStore, logger *logrus.Logger) *EventsService {
	return &EventsService{
		events:  events,
		members: members,
		logger:  logger,
	}
}

type EventParams struct {
	URL             string
	Category        string
	Format          string
	Name            string
	Description     string
	Photo           string
	Banner          string
	Location        string
	Address         string
	Date            string
	StartTime       string
	MaxParticipants int
	Color           string
}

func (s *EventsService) CreateEvent(ctx context.Context, params EventParams) (*models.Event, error) {
	format := params.Format
	if format == "" {
		format = "online"
	}

	event := &models.Event{
		ID:              uuid.New().String(),
		URL:             params.URL,
		Category:        params.Category,
		Format:          format,
		Name:            params.Name,
		Description:     params.Description,
		Photo:           params.Photo,
		Banner:          params.Banner,
		Location:        params.Location,
		Address:         params.Address,
		Date:            params.Date,
		StartTime:       params.StartTime,
		MaxParticipants: params.MaxParticipants,
		Color:           params.Color,
		CreatedAt:       time.Now(),
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create event: %w", err))
	}

	return event, nil
}

func (s *EventsService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("Event with id %s not found", id))
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to get event: %w", err))
	}
	return event, nil
}

func (s *EventsService) ListEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list events: %w", err))
	}
	return events, nil
}

func (s *EventsService) UpdateEvent(ctx context.Context, id string, params EventParams) (*models.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	event.URL = params.URL
	event.Category = params.Category
	if params.Format != "" {
		event.Format = params.Format
	}
	event.Name = params.Name
	event.Description = params.Description
	event.Photo = params.Photo
	event.Banner = params.Banner
	event.Location = params.Location
	event.Address = params.Address
	event.Date = params.Date
	event.StartTime = params.StartTime
	event.MaxParticipants = params.MaxParticipants
	event.Color = params.Color

	if err := s.events.Update(ctx, event); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("Event with id %s not found", id))
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to update event: %w", err))
	}

	return event, nil
}

func (s *EventsService) DeleteEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("Event with id %s not found", id))
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to delete event: %w", err))
	}

	return event, nil
}

// AddMember joins a user to an event. The role must be one of the fixed set,
// the event must exist, and the (event, user) pair must be new; the store's
// conditional write settles concurrent duplicates.
func (s *EventsService) AddMember(ctx context.Context, eventID, userID, role string) (*models.Member, error) {
	if !models.IsValidRole(role) {
		return nil, apperrors.Validation(fmt.Sprintf("Invalid role %q", role))
	}

	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	member := &models.Member{
		ID:      uuid.New().String(),
		EventID: eventID,
		UserID:  userID,
		Role:    role,
	}

	if err := s.members.Add(ctx, member); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.Validation("User is already a member of this event")
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to add member: %w", err))
	}

	return member, nil
}

func (s *EventsService) ListMembers(ctx context.Context, eventID string) ([]models.Member, error) {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	members, err := s.members.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list members: %w", err))
	}

	return members, nil
}
