package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gatherhub/gatherhub/internal/domain"
	"github.com/gatherhub/gatherhub/internal/service"
)

// EventInput is the validated input for creating or updating an event.
type EventInput struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Date            time.Time  `json:"date"`
	Location        string     `json:"location"`
	MaxParticipants int        `json:"maxParticipants"`
	Status          string     `json:"status"`
	IsPublic        *bool      `json:"isPublic"`
	CategoryID      *uint      `json:"categoryId"`
}

func (in *EventInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	if in.Location == "" {
		return fmt.Errorf("%w: location is required", domain.ErrInvalidInput)
	}
	if in.MaxParticipants <= 0 {
		return fmt.Errorf("%w: maxParticipants must be positive", domain.ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = domain.StatusScheduled
	}
	if !domain.ValidStatus(in.Status) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, in.Status)
	}
	return nil
}

type EventUsecase struct {
	events        EventRepository
	registrations RegistrationRepository
	policy        *service.AccessPolicy
}

func NewEventUsecase(
	events EventRepository,
	registrations RegistrationRepository,
	policy *service.AccessPolicy,
) *EventUsecase {
	return &EventUsecase{
		events:        events,
		registrations: registrations,
		policy:        policy,
	}
}

// List returns events visible to the requester, filtered. Administrators
// see everything; others see public events plus their own.
func (uc *EventUsecase) List(ctx context.Context, requester domain.Requester, filter domain.EventFilter) ([]domain.Event, error) {
	filter.ViewerID = requester.ID
	filter.IncludePrivate = requester.IsAdmin()
	return uc.events.List(ctx, filter)
}

// Get returns the event and its attendee list, subject to visibility.
func (uc *EventUsecase) Get(ctx context.Context, requester domain.Requester, id uint) (domain.Event, []domain.Registration, error) {
	event, err := uc.events.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, nil, err
	}

	if !uc.policy.CanViewEvent(event, requester) {
		return domain.Event{}, nil, domain.ErrForbidden
	}

	regs, err := uc.registrations.ListByEvent(ctx, id)
	if err != nil {
		return domain.Event{}, nil, err
	}
	return event, regs, nil
}

func (uc *EventUsecase) Create(ctx context.Context, requester domain.Requester, input EventInput) (domain.Event, error) {
	if !uc.policy.CanCreateEvent(requester) {
		return domain.Event{}, domain.ErrForbidden
	}
	if err := input.validate(); err != nil {
		return domain.Event{}, err
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	return uc.events.Create(ctx, domain.Event{
		Title:           input.Title,
		Description:     input.Description,
		Date:            input.Date,
		Location:        input.Location,
		MaxParticipants: input.MaxParticipants,
		Status:          input.Status,
		IsPublic:        isPublic,
		CreatedBy:       requester.ID,
		CategoryID:      input.CategoryID,
	})
}

func (uc *EventUsecase) Update(ctx context.Context, requester domain.Requester, id uint, input EventInput) (domain.Event, error) {
	event, err := uc.events.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if !uc.policy.CanManageEvent(event, requester) {
		return domain.Event{}, domain.ErrForbidden
	}
	if err := input.validate(); err != nil {
		return domain.Event{}, err
	}
	// Shrinking capacity below the live occupancy would break the
	// occupancy bound for everyone already admitted.
	if input.MaxParticipants < event.CurrentParticipants {
		return domain.Event{}, fmt.Errorf(
			"%w: maxParticipants cannot drop below current occupancy (%d)",
			domain.ErrInvalidInput, event.CurrentParticipants,
		)
	}

	event.Title = input.Title
	event.Description = input.Description
	event.Date = input.Date
	event.Location = input.Location
	event.MaxParticipants = input.MaxParticipants
	event.Status = input.Status
	if input.IsPublic != nil {
		event.IsPublic = *input.IsPublic
	}
	event.CategoryID = input.CategoryID

	return uc.events.Update(ctx, event)
}

// Delete removes the event; its registrations go with it atomically.
func (uc *EventUsecase) Delete(ctx context.Context, requester domain.Requester, id uint) error {
	event, err := uc.events.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !uc.policy.CanManageEvent(event, requester) {
		return domain.ErrForbidden
	}
	return uc.events.Delete(ctx, id)
}
