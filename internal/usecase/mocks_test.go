package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gatherhub/gatherhub/internal/domain"
)

// memStore is a naive in-memory backend shared by the mock
// repositories. Each operation locks individually; nothing serializes a
// check-then-act sequence, so any capacity guarantee observed in the
// tests comes from the ledger, not from here.
type memStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]domain.User
	events map[uint]domain.Event
	regs   map[uint]domain.Registration
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[uint]domain.User{},
		events: map[uint]domain.Event{},
		regs:   map[uint]domain.Registration{},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) addEvent(event domain.Event) domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.id()
	s.events[event.ID] = event
	return event
}

// --- events ---

type mockEventRepo struct {
	s *memStore
}

func (m *mockEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.s.addEvent(event), nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id uint) (domain.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	event, ok := m.s.events[id]
	if !ok {
		return domain.Event{}, domain.NotFoundError{Resource: "event"}
	}
	return event, nil
}

func (m *mockEventRepo) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var result []domain.Event
	for _, event := range m.s.events {
		if !filter.IncludePrivate && !event.IsPublic && event.CreatedBy != filter.ViewerID {
			continue
		}
		if filter.Status != "" && event.Status != filter.Status {
			continue
		}
		if filter.CategoryID != nil && (event.CategoryID == nil || *event.CategoryID != *filter.CategoryID) {
			continue
		}
		result = append(result, event)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.events[event.ID]
	if !ok {
		return domain.Event{}, domain.NotFoundError{Resource: "event"}
	}
	event.CurrentParticipants = stored.CurrentParticipants
	m.s.events[event.ID] = event
	return event, nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.events[id]; !ok {
		return domain.NotFoundError{Resource: "event"}
	}
	for regID, reg := range m.s.regs {
		if reg.EventID == id {
			delete(m.s.regs, regID)
		}
	}
	delete(m.s.events, id)
	return nil
}

func (m *mockEventRepo) Count(ctx context.Context) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.s.events)), nil
}

// --- registrations ---

type mockRegistrationRepo struct {
	s *memStore
}

func (m *mockRegistrationRepo) Admit(ctx context.Context, userID, eventID uint) (domain.Registration, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	event, ok := m.s.events[eventID]
	if !ok {
		return domain.Registration{}, domain.NotFoundError{Resource: "event"}
	}
	for _, reg := range m.s.regs {
		if reg.UserID == userID && reg.EventID == eventID {
			return domain.Registration{}, domain.ErrAlreadyRegistered
		}
	}

	reg := domain.Registration{
		ID:        m.s.id(),
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: time.Now(),
	}
	m.s.regs[reg.ID] = reg

	event.CurrentParticipants++
	m.s.events[eventID] = event

	result := reg
	result.Event = &domain.Event{ID: eventID, CurrentParticipants: event.CurrentParticipants}
	return result, nil
}

func (m *mockRegistrationRepo) Revoke(ctx context.Context, id uint) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	reg, ok := m.s.regs[id]
	if !ok {
		return 0, domain.NotFoundError{Resource: "registration"}
	}
	event, ok := m.s.events[reg.EventID]
	if !ok {
		return 0, domain.ConsistencyError{Detail: "registration references missing event"}
	}
	if event.CurrentParticipants <= 0 {
		return 0, domain.ConsistencyError{Detail: "occupancy underflow"}
	}

	delete(m.s.regs, id)
	event.CurrentParticipants--
	m.s.events[reg.EventID] = event
	return event.CurrentParticipants, nil
}

func (m *mockRegistrationRepo) GetByID(ctx context.Context, id uint) (domain.Registration, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	reg, ok := m.s.regs[id]
	if !ok {
		return domain.Registration{}, domain.NotFoundError{Resource: "registration"}
	}
	return reg, nil
}

func (m *mockRegistrationRepo) FindByUserAndEvent(ctx context.Context, userID, eventID uint) (domain.Registration, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, reg := range m.s.regs {
		if reg.UserID == userID && reg.EventID == eventID {
			return reg, nil
		}
	}
	return domain.Registration{}, domain.NotFoundError{Resource: "registration"}
}

func (m *mockRegistrationRepo) ListAll(ctx context.Context) ([]domain.Registration, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var result []domain.Registration
	for _, reg := range m.s.regs {
		result = append(result, reg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockRegistrationRepo) ListByUser(ctx context.Context, userID uint) ([]domain.Registration, error) {
	all, _ := m.ListAll(ctx)
	var result []domain.Registration
	for _, reg := range all {
		if reg.UserID == userID {
			result = append(result, reg)
		}
	}
	return result, nil
}

func (m *mockRegistrationRepo) ListByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error) {
	all, _ := m.ListAll(ctx)
	var result []domain.Registration
	for _, reg := range all {
		if reg.EventID == eventID {
			result = append(result, reg)
		}
	}
	return result, nil
}

func (m *mockRegistrationRepo) Count(ctx context.Context) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.s.regs)), nil
}

// --- users ---

type mockUserRepo struct {
	s      *memStore
	hashes map[uint]string
}

func newMockUserRepo(s *memStore) *mockUserRepo {
	return &mockUserRepo{s: s, hashes: map[uint]string{}}
}

func (m *mockUserRepo) Create(ctx context.Context, email, passwordHash, role string) (domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, user := range m.s.users {
		if user.Email == email {
			return domain.User{}, domain.ErrDuplicate
		}
	}
	user := domain.User{
		ID:        m.s.id(),
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
	}
	m.s.users[user.ID] = user
	m.hashes[user.ID] = passwordHash
	return user, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, user := range m.s.users {
		if user.Email == email {
			return user, m.hashes[user.ID], nil
		}
	}
	return domain.User{}, "", domain.NotFoundError{Resource: "user"}
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	user, ok := m.s.users[id]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	return user, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.s.users)), nil
}

// --- signal ---

type mockPublisher struct {
	mu      sync.Mutex
	signals []domain.OccupancySignal
}

func (m *mockPublisher) Publish(ctx context.Context, signal domain.OccupancySignal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signals = append(m.signals, signal)
	return nil
}
