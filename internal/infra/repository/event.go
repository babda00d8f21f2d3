package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gatherhub/gatherhub/internal/domain"
	"github.com/gatherhub/gatherhub/internal/infra/database/models"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	m := models.Event{
		Title:           event.Title,
		Description:     event.Description,
		Date:            event.Date,
		Location:        event.Location,
		MaxParticipants: event.MaxParticipants,
		Status:          event.Status,
		IsPublic:        event.IsPublic,
		CreatedBy:       event.CreatedBy,
		CategoryID:      event.CategoryID,
	}

	err := r.db.WithContext(ctx).Create(&m).Error
	if err != nil {
		return domain.Event{}, err
	}
	return r.GetByID(ctx, m.ID)
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (domain.Event, error) {
	var m models.Event
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Creator").
		Where("id = ?", id).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Event{}, domain.NotFoundError{Resource: "event"}
		}
		return domain.Event{}, err
	}
	return toDomainEvent(m), nil
}

func (r *EventRepository) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Preload("Category").
		Preload("Creator")

	if !filter.IncludePrivate {
		query = query.Where("is_public = ? OR created_by = ?", true, filter.ViewerID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var events []models.Event
	err := query.Order("date ASC").Find(&events).Error
	if err != nil {
		return nil, err
	}

	result := make([]domain.Event, 0, len(events))
	for _, e := range events {
		result = append(result, toDomainEvent(e))
	}
	return result, nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	// Occupancy is owned by the registration ledger; updates here never
	// touch current_participants.
	err := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", event.ID).
		Updates(map[string]any{
			"title":            event.Title,
			"description":      event.Description,
			"date":             event.Date,
			"location":         event.Location,
			"max_participants": event.MaxParticipants,
			"status":           event.Status,
			"is_public":        event.IsPublic,
			"category_id":      event.CategoryID,
			"updated_at":       gorm.Expr("clock_timestamp()"),
		}).Error
	if err != nil {
		return domain.Event{}, err
	}
	return r.GetByID(ctx, event.ID)
}

// Delete removes the event and all its registrations in one transaction
// so no registration can be left referencing a missing event.
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Registration{}, "event_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Event{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.NotFoundError{Resource: "event"}
		}
		return nil
	})
}

func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Event{}).Count(&count).Error
	return count, err
}

func toDomainEvent(m models.Event) domain.Event {
	event := domain.Event{
		ID:                  m.ID,
		Title:               m.Title,
		Description:         m.Description,
		Date:                m.Date,
		Location:            m.Location,
		MaxParticipants:     m.MaxParticipants,
		CurrentParticipants: m.CurrentParticipants,
		Status:              m.Status,
		IsPublic:            m.IsPublic,
		CreatedBy:           m.CreatedBy,
		CategoryID:          m.CategoryID,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
	if m.Category != nil {
		category := toDomainCategory(*m.Category)
		event.Category = &category
	}
	if m.Creator.ID != 0 {
		creator := toDomainUser(m.Creator)
		event.Creator = &creator
	}
	return event
}
