package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/awakening/pkg/progression"
)

// Subscription delivers cues from the bus to a sink.
type Subscription struct {
	ps     *redis.PubSub
	logger *slog.Logger
}

// Subscribe listens to one session, or to every session when sessionID is
// uuid.Nil. It returns once Redis has confirmed the subscription.
func Subscribe(ctx context.Context, rdb *redis.Client, sessionID uuid.UUID, logger *slog.Logger) (*Subscription, error) {
	var ps *redis.PubSub
	if sessionID == uuid.Nil {
		ps = rdb.PSubscribe(ctx, channelPrefix+"*")
	} else {
		ps = rdb.Subscribe(ctx, ChannelFor(sessionID))
	}

	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to cues: %w", err)
	}

	return &Subscription{ps: ps, logger: logger}, nil
}

// Run hands each received cue to sink until ctx is done or the
// subscription closes. Malformed messages are logged and skipped.
func (s *Subscription) Run(ctx context.Context, sink progression.CueSink) error {
	msgs := s.ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var ev CueEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				s.logger.Warn("Skipping malformed cue", "channel", msg.Channel, "error", err)
				continue
			}
			s.logger.Debug("Cue received", "session_id", ev.SessionID, "kind", ev.Cue.Kind, "seq", ev.Seq)
			sink.Cue(ev.Cue)
		}
	}
}

func (s *Subscription) Close() error {
	return s.ps.Close()
}
