package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/awakening/pkg/progression"
)

const (
	channelPrefix  = "story-cues:"
	publishTimeout = 2 * time.Second
	queueDepth     = 64
)

// ChannelFor returns the pub/sub channel for a play session.
func ChannelFor(sessionID uuid.UUID) string {
	return channelPrefix + sessionID.String()
}

// CueEvent is the wire form of a cue on the bus.
type CueEvent struct {
	SessionID string          `json:"session_id"`
	Seq       uint64          `json:"seq"`
	Cue       progression.Cue `json:"cue"`
}

// Broadcaster publishes cues to Redis Pub/Sub for out-of-process audio.
// Cue only enqueues; Run does the publishing so the game loop never waits
// on the network.
type Broadcaster struct {
	rdb       *redis.Client
	sessionID uuid.UUID
	logger    *slog.Logger
	queue     chan CueEvent
	seq       uint64
}

var _ progression.CueSink = (*Broadcaster)(nil)

func NewBroadcaster(rdb *redis.Client, sessionID uuid.UUID, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		rdb:       rdb,
		sessionID: sessionID,
		logger:    logger,
		queue:     make(chan CueEvent, queueDepth),
	}
}

func (b *Broadcaster) next(c progression.Cue) CueEvent {
	b.seq++
	return CueEvent{SessionID: b.sessionID.String(), Seq: b.seq, Cue: c}
}

// Cue enqueues c for publishing, dropping it if the queue is full.
func (b *Broadcaster) Cue(c progression.Cue) {
	ev := b.next(c)
	select {
	case b.queue <- ev:
	default:
		b.logger.Warn("Cue queue full, dropping cue", "kind", c.Kind, "seq", ev.Seq)
	}
}

// Run publishes queued cues until ctx is done, then flushes what is left.
func (b *Broadcaster) Run(ctx context.Context) {
	for {
		select {
		case ev := <-b.queue:
			b.publishLogged(ctx, ev)
		case <-ctx.Done():
			b.flush()
			return
		}
	}
}

func (b *Broadcaster) flush() {
	for {
		select {
		case ev := <-b.queue:
			b.publishLogged(context.Background(), ev)
		default:
			return
		}
	}
}

func (b *Broadcaster) publishLogged(ctx context.Context, ev CueEvent) {
	if err := b.Publish(ctx, ev); err != nil {
		b.logger.Warn("Dropped cue", "kind", ev.Cue.Kind, "seq", ev.Seq, "error", err)
	}
}

// Publish sends one event synchronously.
func (b *Broadcaster) Publish(ctx context.Context, ev CueEvent) error {
	channel := ChannelFor(b.sessionID)

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal cue: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := b.rdb.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish cue", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish cue: %w", err)
	}

	b.logger.Debug("Cue published",
		"channel", channel,
		"kind", ev.Cue.Kind,
		"seq", ev.Seq,
	)
	return nil
}

// SyncPublisher publishes each cue before Cue returns and counts the ones
// that could not be sent. Batch tools use it where waiting on Redis is
// fine and a dropped cue should show up in the report.
type SyncPublisher struct {
	b      *Broadcaster
	ctx    context.Context
	sent   int
	failed int
}

var _ progression.CueSink = (*SyncPublisher)(nil)

// Synchronous returns a publisher sharing b's session and sequence. Do not
// mix it with Run on the same Broadcaster.
func (b *Broadcaster) Synchronous(ctx context.Context) *SyncPublisher {
	return &SyncPublisher{b: b, ctx: ctx}
}

func (p *SyncPublisher) Cue(c progression.Cue) {
	if err := p.b.Publish(p.ctx, p.b.next(c)); err != nil {
		p.failed++
		return
	}
	p.sent++
}

// Sent is the number of cues published.
func (p *SyncPublisher) Sent() int { return p.sent }

// Failed is the number of cues Redis did not accept.
func (p *SyncPublisher) Failed() int { return p.failed }
