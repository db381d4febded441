package service

import (
	"context"
	"sync"

	"github.com/ryadom/ryadom/internal/models"
	"github.com/ryadom/ryadom/internal/repository"
)

type memUserStore struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (s *memUserStore) Create(ctx context.Context, user *models.User) error {
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

func (s *memUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (s *memUserStore) List(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(s.byID))
	for _, user := range s.byID {
		users = append(users, *user)
	}
	return users, nil
}

func (s *memUserStore) Update(ctx context.Context, user *models.User, previousEmail string) error {
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

func (s *memUserStore) Delete(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[user.ID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.byID, user.ID)
	delete(s.byEmail, user.Email)
	return nil
}

type memRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newMemRefreshTokenStore() *memRefreshTokenStore {
	return &memRefreshTokenStore{tokens: make(map[string]*models.RefreshToken)}
}

func (s *memRefreshTokenStore) Store(ctx context.Context, token *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token.Token]; ok {
		return repository.ErrConflict
	}
	t := *token
	s.tokens[t.Token] = &t
	return nil
}

func (s *memRefreshTokenStore) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tokens[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t := *stored
	return &t, nil
}

func (s *memRefreshTokenStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tokens[token]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Revoked = true
	return nil
}

func (s *memRefreshTokenStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

type memEventStore struct {
	mu     sync.Mutex
	events map[string]*models.Event
}

func newMemEventStore() *memEventStore {
	return &memEventStore{events: make(map[string]*models.Event)}
}

func (s *memEventStore) Create(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[event.ID]; ok {
		return repository.ErrConflict
	}
	e := *event
	s.events[e.ID] = &e
	return nil
}

func (s *memEventStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	e := *event
	return &e, nil
}

func (s *memEventStore) List(ctx context.Context) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]models.Event, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, *event)
	}
	return events, nil
}

func (s *memEventStore) Update(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[event.ID]; !ok {
		return repository.ErrNotFound
	}
	e := *event
	s.events[e.ID] = &e
	return nil
}

func (s *memEventStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

type memMemberStore struct {
	mu      sync.Mutex
	members map[string]*models.Member
}

func newMemMemberStore() *memMemberStore {
	return &memMemberStore{members: make(map[string]*models.Member)}
}

func memberKey(eventID, userID string) string {
	return eventID + "/" + userID
}

func (s *memMemberStore) Add(ctx context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memberKey(member.EventID, member.UserID)
	if _, ok := s.members[key]; ok {
		return repository.ErrConflict
	}
	m := *member
	s.members[key] = &m
	return nil
}

func (s *memMemberStore) ListByEvent(ctx context.Context, eventID string) ([]models.Member, error) {
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

func (s *memMemberStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}

type memGeocodeCache struct {
	mu      sync.Mutex
	entries map[string]*models.GeocodeResult
}

func newMemGeocodeCache() *memGeocodeCache {
	return &memGeocodeCache{entries: make(map[string]*models.GeocodeResult)}
}

func (c *memGeocodeCache) Get(ctx context.Context, address string) (*models.GeocodeResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[address]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r := *result
	return &r, nil
}

func (c *memGeocodeCache) Set(ctx context.Context, result *models.GeocodeResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := *result
	c.entries[r.Address] = &r
	return nil
}
