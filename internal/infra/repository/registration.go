package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gatherhub/gatherhub/internal/domain"
	"github.com/gatherhub/gatherhub/internal/infra/database/models"
)

type RegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Admit creates the registration and increments the event's occupancy
// as one atomic unit. The event row is locked FOR UPDATE for the whole
// check-then-act sequence, so concurrent admissions against the same
// event serialize at the database even without the ledger's in-process
// lock. Returns the new registration with the post-commit occupancy on
// the embedded event.
func (r *RegistrationRepository) Admit(ctx context.Context, userID, eventID uint) (domain.Registration, error) {
	var reg models.Registration
	var occupancy int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", eventID).
			Take(&event).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError{Resource: "event"}
			}
			return err
		}

		if event.CurrentParticipants >= event.MaxParticipants {
			return domain.ErrEventFull
		}

		reg = models.Registration{
			UserID:  userID,
			EventID: eventID,
		}
		if err := tx.Create(&reg).Error; err != nil {
			// The composite unique index on (user, event) backstops the
			// ledger's duplicate check.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyRegistered
			}
			return err
		}

		err = tx.Model(&models.Event{}).
			Where("id = ?", eventID).
			Update("current_participants", gorm.Expr("current_participants + 1")).Error
		if err != nil {
			return err
		}

		occupancy = event.CurrentParticipants + 1
		return nil
	})
	if err != nil {
		return domain.Registration{}, err
	}

	result := toDomainRegistration(reg)
	result.Event = &domain.Event{
		ID:                  eventID,
		CurrentParticipants: occupancy,
	}
	return result, nil
}

// Revoke deletes the registration and decrements the event's occupancy
// atomically. An occupancy already at zero means the increment/decrement
// pairing was broken before this call; that is surfaced as a
// ConsistencyError, not a user error.
func (r *RegistrationRepository) Revoke(ctx context.Context, id uint) (int, error) {
	var occupancy int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reg models.Registration
		err := tx.Where("id = ?", id).Take(&reg).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError{Resource: "registration"}
			}
			return err
		}

		var event models.Event
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", reg.EventID).
			Take(&event).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ConsistencyError{Detail: "registration references missing event"}
			}
			return err
		}

		if event.CurrentParticipants <= 0 {
			return domain.ConsistencyError{Detail: "occupancy underflow"}
		}

		if err := tx.Delete(&models.Registration{}, "id = ?", id).Error; err != nil {
			return err
		}

		err = tx.Model(&models.Event{}).
			Where("id = ?", reg.EventID).
			Update("current_participants", gorm.Expr("current_participants - 1")).Error
		if err != nil {
			return err
		}

		occupancy = event.CurrentParticipants - 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return occupancy, nil
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id uint) (domain.Registration, error) {
	var reg models.Registration
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Registration{}, domain.NotFoundError{Resource: "registration"}
		}
		return domain.Registration{}, err
	}
	return toDomainRegistration(reg), nil
}

func (r *RegistrationRepository) FindByUserAndEvent(ctx context.Context, userID, eventID uint) (domain.Registration, error) {
	var reg models.Registration
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Take(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Registration{}, domain.NotFoundError{Resource: "registration"}
		}
		return domain.Registration{}, err
	}
	return toDomainRegistration(reg), nil
}

func (r *RegistrationRepository) ListAll(ctx context.Context) ([]domain.Registration, error) {
	var regs []models.Registration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("User").
		Order("created_at DESC").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return toDomainRegistrations(regs), nil
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Registration, error) {
	var regs []models.Registration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return toDomainRegistrations(regs), nil
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error) {
	var regs []models.Registration
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return toDomainRegistrations(regs), nil
}

func (r *RegistrationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Registration{}).Count(&count).Error
	return count, err
}

func toDomainRegistration(m models.Registration) domain.Registration {
	reg := domain.Registration{
		ID:        m.ID,
		UserID:    m.UserID,
		EventID:   m.EventID,
		CreatedAt: m.CreatedAt,
	}
	if m.User.ID != 0 {
		user := toDomainUser(m.User)
		reg.User = &user
	}
	if m.Event.ID != 0 {
		event := toDomainEvent(m.Event)
		reg.Event = &event
	}
	return reg
}

func toDomainRegistrations(ms []models.Registration) []domain.Registration {
	result := make([]domain.Registration, 0, len(ms))
	for _, m := range ms {
		result = append(result, toDomainRegistration(m))
	}
	return result
}
