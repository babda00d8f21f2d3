package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/gatherhub/gatherhub/internal/domain"
)

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, signal domain.OccupancySignal) error {

	jsonstr, err := json.Marshal(signal)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, domain.OccupancyChannel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Realtime forwards occupancy signals for the event IDs most recently
// received on input to output, until ctx is cancelled or input closes.
func (s *SignalService) Realtime(ctx context.Context, input <-chan []uint, output chan<- domain.OccupancySignal) {
	sub := s.rdb.Subscribe(ctx, domain.OccupancyChannel)
	defer sub.Close()

	messages := sub.Channel()
	watched := map[uint]struct{}{}

	for {
		select {
		case <-ctx.Done():
			return
		case ids, ok := <-input:
			if !ok {
				return
			}
			watched = map[uint]struct{}{}
			for _, id := range ids {
				watched[id] = struct{}{}
			}
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var signal domain.OccupancySignal
			if err := json.Unmarshal([]byte(msg.Payload), &signal); err != nil {
				slog.ErrorContext(
					ctx, "Malformed occupancy signal",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			if _, ok := watched[signal.EventID]; !ok {
				continue
			}
			select {
			case output <- signal:
			case <-ctx.Done():
				return
			}
		}
	}
}
