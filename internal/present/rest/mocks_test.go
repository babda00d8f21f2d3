package rest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gatherhub/gatherhub/internal/domain"
)

// In-memory repositories backing the HTTP tests. They implement the
// usecase ports just well enough to drive full request flows without a
// database.
type memStore struct {
	mu         sync.Mutex
	nextID     uint
	users      map[uint]domain.User
	hashes     map[uint]string
	events     map[uint]domain.Event
	regs       map[uint]domain.Registration
	categories map[uint]domain.Category
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[uint]domain.User{},
		hashes:     map[uint]string{},
		events:     map[uint]domain.Event{},
		regs:       map[uint]domain.Registration{},
		categories: map[uint]domain.Category{},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

type memUserRepo struct{ s *memStore }

func (m *memUserRepo) Create(ctx context.Context, email, passwordHash, role string) (domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, user := range m.s.users {
		if user.Email == email {
			return domain.User{}, domain.ErrDuplicate
		}
	}
	user := domain.User{ID: m.s.id(), Email: email, Role: role, CreatedAt: time.Now()}
	m.s.users[user.ID] = user
	m.s.hashes[user.ID] = passwordHash
	return user, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, user := range m.s.users {
		if user.Email == email {
			return user, m.s.hashes[user.ID], nil
		}
	}
	return domain.User{}, "", domain.NotFoundError{Resource: "user"}
}

func (m *memUserRepo) GetByID(ctx context.Context, id uint) (domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	user, ok := m.s.users[id]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	return user, nil
}

func (m *memUserRepo) Count(ctx context.Context) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.s.users)), nil
}

type memEventRepo struct{ s *memStore }

func (m *memEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	event.ID = m.s.id()
	event.CreatedAt = time.Now()
	m.s.events[event.ID] = event
	return event, nil
}

func (m *memEventRepo) GetByID(ctx context.Context, id uint) (domain.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	event, ok := m.s.events[id]
	if !ok {
		return domain.Event{}, domain.NotFoundError{Resource: "event"}
	}
	return event, nil
}

func (m *memEventRepo) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
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
		result = append(result, event)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *memEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
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

func (m *memEventRepo) Delete(ctx context.Context, id uint) error {
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

func (m *memEventRepo) Count(ctx context.Context) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.s.events)), nil
}

type memRegistrationRepo struct{ s *memStore }

func (m *memRegistrationRepo) Admit(ctx context.Context, userID, eventID uint) (domain.Registration, error) {
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
	reg := domain.Registration{ID: m.s.id(), UserID: userID, EventID: eventID, CreatedAt: time.Now()}
	m.s.regs[reg.ID] = reg
	event.CurrentParticipants++
	m.s.events[eventID] = event
	return reg, nil
}

func (m *memRegistrationRepo) Revoke(ctx context.Context, id uint) (int, error) {
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

func (m *memRegistrationRepo) GetByID(ctx context.Context, id uint) (domain.Registration, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	reg, ok := m.s.regs[id]
	if !ok {
		return domain.Registration{}, domain.NotFoundError{Resource: "registration"}
	}
	return reg, nil
}

func (m *memRegistrationRepo) FindByUserAndEvent(ctx context.Context, userID, eventID uint) (domain.Registration, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, reg := range m.s.regs {
		if reg.UserID == userID && reg.EventID == eventID {
			return reg, nil
		}
	}
	return domain.Registration{}, domain.NotFoundError{Resource: "registration"}
}

func (m *memRegistrationRepo) ListAll(ctx context.Context) ([]domain.Registration, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var result []domain.Registration
	for _, reg := range m.s.regs {
		result = append(result, reg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *memRegistrationRepo) ListByUser(ctx context.Context, userID uint) ([]domain.Registration, error) {
	all, _ := m.ListAll(ctx)
	var result []domain.Registration
	for _, reg := range all {
		if reg.UserID == userID {
			result = append(result, reg)
		}
	}
	return result, nil
}

func (m *memRegistrationRepo) ListByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error) {
	all, _ := m.ListAll(ctx)
	var result []domain.Registration
	for _, reg := range all {
		if reg.EventID == eventID {
			result = append(result, reg)
		}
	}
	return result, nil
}

func (m *memRegistrationRepo) Count(ctx context.Context) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.s.regs)), nil
}

type memCategoryRepo struct{ s *memStore }

func (m *memCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var result []domain.Category
	for _, c := range m.s.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *memCategoryRepo) GetByID(ctx context.Context, id uint) (domain.Category, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.categories[id]
	if !ok {
		return domain.Category{}, domain.NotFoundError{Resource: "category"}
	}
	return c, nil
}

func (m *memCategoryRepo) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	category.ID = m.s.id()
	m.s.categories[category.ID] = category
	return category, nil
}

func (m *memCategoryRepo) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.categories[category.ID]; !ok {
		return domain.Category{}, domain.NotFoundError{Resource: "category"}
	}
	m.s.categories[category.ID] = category
	return category, nil
}

func (m *memCategoryRepo) Delete(ctx context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.categories[id]; !ok {
		return domain.NotFoundError{Resource: "category"}
	}
	delete(m.s.categories, id)
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, signal domain.OccupancySignal) error {
	return nil
}
