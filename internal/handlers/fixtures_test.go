package handlers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/ryadom/ryadom/internal/config"
	"github.com/ryadom/ryadom/internal/models"
	"github.com/ryadom/ryadom/internal/repository"
	"github.com/ryadom/ryadom/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecretKey = "test-secret-key-with-at-least-32-bytes!"

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		SecretKey:          testSecretKey,
		Algorithm:          "HS256",
		AccessExpiry:       30 * time.Minute,
		RefreshExpiry:      30 * 24 * time.Hour,
		RefreshShortExpiry: 24 * time.Hour,
	}
}

type stubUserStore struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (s *stubUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return repository.ErrConflict
	}
	u := *user
	s.byID[u.ID] = &u
	s.byEmail[u.Email] = &u
	return nil
}

func (s *stubUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (s *stubUserStore) List(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(s.byID))
	for _, user := range s.byID {
		users = append(users, *user)
	}
	return users, nil
}

func (s *stubUserStore) Update(ctx context.Context, user *models.User, previousEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[user.ID]; !ok {
		return repository.ErrNotFound
	}
	if previousEmail != user.Email {
		if _, ok := s.byEmail[user.Email]; ok {
			return repository.ErrConflict
		}
		delete(s.byEmail, previousEmail)
	}
	u := *user
	s.byID[u.ID] = &u
	s.byEmail[u.Email] = &u
	return nil
}

func (s *stubUserStore) Delete(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[user.ID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.byID, user.ID)
	delete(s.byEmail, user.Email)
	return nil
}

func (s *stubUserStore) add(t *testing.T, id, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
	}))
}

type stubRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newStubRefreshTokenStore() *stubRefreshTokenStore {
	return &stubRefreshTokenStore{tokens: make(map[string]*models.RefreshToken)}
}

func (s *stubRefreshTokenStore) Store(ctx context.Context, token *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token.Token]; ok {
		return repository.ErrConflict
	}
	t := *token
	s.tokens[t.Token] = &t
	return nil
}

func (s *stubRefreshTokenStore) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tokens[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t := *stored
	return &t, nil
}

func (s *stubRefreshTokenStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tokens[token]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Revoked = true
	return nil
}

type stubEventStore struct {
	mu     sync.Mutex
	events map[string]*models.Event
}

func newStubEventStore() *stubEventStore {
	return &stubEventStore{events: make(map[string]*models.Event)}
}

func (s *stubEventStore) Create(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := *event
	s.events[e.ID] = &e
	return nil
}

func (s *stubEventStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	e := *event
	return &e, nil
}

func (s *stubEventStore) List(ctx context.Context) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]models.Event, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, *event)
	}
	return events, nil
}

func (s *stubEventStore) Update(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[event.ID]; !ok {
		return repository.ErrNotFound
	}
	e := *event
	s.events[e.ID] = &e
	return nil
}

func (s *stubEventStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

type stubMemberStore struct {
	mu      sync.Mutex
	members map[string]*models.Member
}

func newStubMemberStore() *stubMemberStore {
	return &stubMemberStore{members: make(map[string]*models.Member)}
}

func (s *stubMemberStore) Add(ctx context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := member.EventID + "/" + member.UserID
	if _, ok := s.members[key]; ok {
		return repository.ErrConflict
	}
	m := *member
	s.members[key] = &m
	return nil
}

func (s *stubMemberStore) ListByEvent(ctx context.Context, eventID string) ([]models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var members []models.Member
	for _, member := range s.members {
		if member.EventID == eventID {
			members = append(members, *member)
		}
	}
	return members, nil
}

// usersRouter wires the handlers the way the users service binary does.
func usersRouter(t *testing.T) (*mux.Router, *stubUserStore, *stubRefreshTokenStore) {
	t.Helper()

	users := newStubUserStore()
	refreshTokens := newStubRefreshTokenStore()

	tokenService, err := service.NewTokenService(testJWTConfig(), testLogger())
	require.NoError(t, err)

	sessionService := service.NewSessionService(users, refreshTokens, tokenService, testJWTConfig(), testLogger())
	usersService := service.NewUsersService(users, testLogger())

	authHandlers := NewAuthHandlers(sessionService, testLogger())
	userHandlers := NewUserHandlers(usersService, testLogger())

	router := mux.NewRouter()
	router.HandleFunc("/users/", userHandlers.CreateUser).Methods("POST")
	router.HandleFunc("/users/", userHandlers.ListUsers).Methods("GET")
	router.HandleFunc("/users/{id}", userHandlers.GetUser).Methods("GET")
	router.HandleFunc("/users/{id}", userHandlers.UpdateUser).Methods("PUT")
	router.HandleFunc("/users/{id}", userHandlers.DeleteUser).Methods("DELETE")
	router.HandleFunc("/auth/login", authHandlers.Login).Methods("POST")
	router.HandleFunc("/auth/refresh", authHandlers.Refresh).Methods("POST")
	router.HandleFunc("/auth/logout", authHandlers.Logout).Methods("POST")

	return router, users, refreshTokens
}

// eventsRouter wires the handlers the way the events service binary does.
func eventsRouter(t *testing.T) (*mux.Router, *stubEventStore, *stubMemberStore) {
	t.Helper()

	events := newStubEventStore()
	members := newStubMemberStore()

	eventsService := service.NewEventsService(events, members, testLogger())
	eventHandlers := NewEventHandlers(eventsService, testLogger())

	router := mux.NewRouter()
	router.HandleFunc("/events/", eventHandlers.CreateEvent).Methods("POST")
	router.HandleFunc("/events/", eventHandlers.ListEvents).Methods("GET")
	router.HandleFunc("/events/{id}", eventHandlers.GetEvent).Methods("GET")
	router.HandleFunc("/events/{id}", eventHandlers.UpdateEvent).Methods("PUT")
	router.HandleFunc("/events/{id}", eventHandlers.DeleteEvent).Methods("DELETE")
	router.HandleFunc("/events/{id}/members/", eventHandlers.AddMember).Methods("POST")
	router.HandleFunc("/events/{id}/members/", eventHandlers.ListMembers).Methods("GET")

	return router, events, members
}
