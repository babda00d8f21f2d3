package usecase

import (
	"context"

	"github.com/gatherhub/gatherhub/internal/domain"
)

// UserRepository defines persistence/lookup for accounts.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash, role string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, string, error)
	GetByID(ctx context.Context, id uint) (domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// EventRepository defines storage operations for events.
type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, id uint) (domain.Event, error)
	List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

// CategoryRepository defines storage operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id uint) (domain.Category, error)
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
	Update(ctx context.Context, category domain.Category) (domain.Category, error)
	Delete(ctx context.Context, id uint) error
}

// RegistrationRepository defines storage operations for registrations.
// Admit and Revoke are atomic: the registration row and the event's
// occupancy counter change together or not at all.
type RegistrationRepository interface {
	Admit(ctx context.Context, userID, eventID uint) (domain.Registration, error)
	Revoke(ctx context.Context, id uint) (int, error)
	GetByID(ctx context.Context, id uint) (domain.Registration, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID uint) (domain.Registration, error)
	ListAll(ctx context.Context) ([]domain.Registration, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Registration, error)
	ListByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error)
	Count(ctx context.Context) (int64, error)
}

// OccupancyPublisher broadcasts occupancy changes to realtime listeners.
type OccupancyPublisher interface {
	Publish(ctx context.Context, signal domain.OccupancySignal) error
}
