package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gatherhub/gatherhub/internal/domain"
	"github.com/gatherhub/gatherhub/internal/service"
	"github.com/gatherhub/gatherhub/internal/utils"
)

var tracer = otel.Tracer("ledger")

// RegistrationUsecase is the registration ledger: every admit/cancel
// decision against an event's capacity goes through here, serialized
// per event. The repository locks the event row FOR UPDATE as well, so
// the capacity invariant survives even callers that bypass this
// process.
type RegistrationUsecase struct {
	events        EventRepository
	registrations RegistrationRepository
	policy        *service.AccessPolicy
	signal        OccupancyPublisher
	locks         *utils.KeyedMutex
}

func NewRegistrationUsecase(
	events EventRepository,
	registrations RegistrationRepository,
	policy *service.AccessPolicy,
	signal OccupancyPublisher,
) *RegistrationUsecase {
	return &RegistrationUsecase{
		events:        events,
		registrations: registrations,
		policy:        policy,
		signal:        signal,
		locks:         utils.NewKeyedMutex(),
	}
}

// Register admits requester to the event. Preconditions, in order: the
// event exists, it is not at capacity, and the requester has no live
// registration for it. The whole check-then-act sequence runs under the
// event's mutex; a read-then-write without this scope is a race.
func (uc *RegistrationUsecase) Register(ctx context.Context, requester domain.Requester, eventID uint) (domain.Registration, error) {
	ctx, span := tracer.Start(ctx, "Ledger.Register")
	defer span.End()
	span.SetAttributes(attribute.Int("eventId", int(eventID)))

	if !uc.policy.CanRegister(requester) {
		return domain.Registration{}, domain.ErrForbidden
	}

	unlock := uc.locks.Lock(eventID)
	defer unlock()

	event, err := uc.events.GetByID(ctx, eventID)
	if err != nil {
		return domain.Registration{}, err
	}

	if event.IsFull() {
		return domain.Registration{}, domain.ErrEventFull
	}

	_, err = uc.registrations.FindByUserAndEvent(ctx, requester.ID, eventID)
	if err == nil {
		return domain.Registration{}, domain.ErrAlreadyRegistered
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Registration{}, err
	}

	reg, err := uc.registrations.Admit(ctx, requester.ID, eventID)
	if err != nil {
		span.RecordError(err)
		return domain.Registration{}, err
	}

	uc.publish(ctx, domain.OccupancySignal{
		EventID:   eventID,
		Occupancy: event.CurrentParticipants + 1,
		Kind:      domain.SignalKindRegister,
		At:        time.Now().UTC(),
	})

	reg.Event = nil
	return reg, nil
}

// Cancel removes the registration and returns the seat. Only the owner
// or an administrator may cancel. A second cancel of the same id yields
// NotFound.
func (uc *RegistrationUsecase) Cancel(ctx context.Context, requester domain.Requester, registrationID uint) error {
	ctx, span := tracer.Start(ctx, "Ledger.Cancel")
	defer span.End()

	reg, err := uc.registrations.GetByID(ctx, registrationID)
	if err != nil {
		return err
	}

	if !uc.policy.CanCancelRegistration(reg, requester) {
		return domain.ErrForbidden
	}

	unlock := uc.locks.Lock(reg.EventID)
	defer unlock()

	occupancy, err := uc.registrations.Revoke(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrConsistency) {
			// The counter and the registration rows disagree; this is a
			// defect in the atomic scoping, not a user error.
			slog.ErrorContext(
				ctx, "Ledger consistency fault",
				slog.String("error", err.Error()),
				slog.Uint64("registrationId", uint64(registrationID)),
				slog.String("module", "ledger"),
			)
			span.RecordError(err)
		}
		return err
	}

	uc.publish(ctx, domain.OccupancySignal{
		EventID:   reg.EventID,
		Occupancy: occupancy,
		Kind:      domain.SignalKindCancel,
		At:        time.Now().UTC(),
	})

	return nil
}

// List returns all registrations for administrators, the requester's
// own otherwise, newest first.
func (uc *RegistrationUsecase) List(ctx context.Context, requester domain.Requester) ([]domain.Registration, error) {
	if requester.IsAnonymous() {
		return nil, domain.ErrForbidden
	}
	if requester.IsAdmin() {
		return uc.registrations.ListAll(ctx)
	}
	return uc.registrations.ListByUser(ctx, requester.ID)
}

// Occupancy signals are best-effort; a broadcast failure never rolls
// back an accepted ledger operation.
func (uc *RegistrationUsecase) publish(ctx context.Context, signal domain.OccupancySignal) {
	if uc.signal == nil {
		return
	}
	if err := uc.signal.Publish(ctx, signal); err != nil {
		slog.WarnContext(
			ctx, "Failed to publish occupancy signal",
			slog.String("error", err.Error()),
			slog.String("module", "ledger"),
		)
	}
}
