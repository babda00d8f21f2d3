package usecase

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/gatherhub/gatherhub/internal/domain"
	"github.com/gatherhub/gatherhub/internal/service"
)

const statsCacheKey = "stats"

type AdminUsecase struct {
	users         UserRepository
	events        EventRepository
	registrations RegistrationRepository
	policy        *service.AccessPolicy
	cache         *cache.Cache
}

func NewAdminUsecase(
	users UserRepository,
	events EventRepository,
	registrations RegistrationRepository,
	policy *service.AccessPolicy,
) *AdminUsecase {
	return &AdminUsecase{
		users:         users,
		events:        events,
		registrations: registrations,
		policy:        policy,
		cache:         cache.New(30*time.Second, time.Minute),
	}
}

// Stats returns dashboard counters, cached briefly since every admin
// page load requests them.
func (uc *AdminUsecase) Stats(ctx context.Context, requester domain.Requester) (domain.Stats, error) {
	if !uc.policy.CanViewStats(requester) {
		return domain.Stats{}, domain.ErrForbidden
	}

	if cached, ok := uc.cache.Get(statsCacheKey); ok {
		return cached.(domain.Stats), nil
	}

	userCount, err := uc.users.Count(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	eventCount, err := uc.events.Count(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	registrationCount, err := uc.registrations.Count(ctx)
	if err != nil {
		return domain.Stats{}, err
	}

	stats := domain.Stats{
		UserCount:         userCount,
		EventCount:        eventCount,
		RegistrationCount: registrationCount,
	}
	uc.cache.Set(statsCacheKey, stats, cache.DefaultExpiration)
	return stats, nil
}
