package events

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/awakening/pkg/progression"
	"github.com/jwebster45206/awakening/pkg/story"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	rdb, err := NewClient(context.Background(), "redis://"+mr.Addr(), testLogger())
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create redis client: %v", err)
	}

	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return rdb, mr
}

type syncRecorder struct {
	mu   sync.Mutex
	cues []progression.Cue
}

func (r *syncRecorder) Cue(c progression.Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, c)
}

func (r *syncRecorder) snapshot() []progression.Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]progression.Cue(nil), r.cues...)
}

func TestNewClient_BadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "not a url", testLogger())
	assert.Error(t, err)
}

func TestWaitForConnection_GivesUp(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := WaitForConnection(context.Background(), "redis://"+addr, testLogger(), 2, time.Millisecond)
	assert.ErrorContains(t, err, "after 2 attempts")
}

func TestBroadcaster_PublishesToSessionChannel(t *testing.T) {
	rdb, _ := setupTestRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session := uuid.New()
	sub, err := Subscribe(ctx, rdb, session, testLogger())
	require.NoError(t, err)
	defer sub.Close()

	rec := &syncRecorder{}
	go func() { _ = sub.Run(ctx, rec) }()

	b := NewBroadcaster(rdb, session, testLogger())
	go b.Run(ctx)

	b.Cue(progression.Cue{Kind: progression.CueObjectiveCompleted, Segment: 0, Character: -1, Line: -1})
	b.Cue(progression.Cue{Kind: progression.CueStoryAdvanced, Segment: 1, Character: -1, Line: -1})

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, 3*time.Second, 10*time.Millisecond)
	got := rec.snapshot()
	assert.Equal(t, progression.CueObjectiveCompleted, got[0].Kind)
	assert.Equal(t, progression.Cue{Kind: progression.CueStoryAdvanced, Segment: 1, Character: -1, Line: -1}, got[1])
}

func TestSubscribe_AllSessions(t *testing.T) {
	rdb, _ := setupTestRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := Subscribe(ctx, rdb, uuid.Nil, testLogger())
	require.NoError(t, err)
	defer sub.Close()

	rec := &syncRecorder{}
	go func() { _ = sub.Run(ctx, rec) }()

	for i := 0; i < 2; i++ {
		b := NewBroadcaster(rdb, uuid.New(), testLogger())
		require.NoError(t, b.Publish(ctx, CueEvent{Seq: 1, Cue: progression.Cue{Kind: progression.CueLineSpoken, Line: i}}))
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, 3*time.Second, 10*time.Millisecond)
}

func TestSubscription_SkipsMalformed(t *testing.T) {
	rdb, _ := setupTestRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session := uuid.New()
	sub, err := Subscribe(ctx, rdb, session, testLogger())
	require.NoError(t, err)
	defer sub.Close()

	rec := &syncRecorder{}
	go func() { _ = sub.Run(ctx, rec) }()

	require.NoError(t, rdb.Publish(ctx, ChannelFor(session), "{garbage").Err())
	b := NewBroadcaster(rdb, session, testLogger())
	require.NoError(t, b.Publish(ctx, CueEvent{Cue: progression.Cue{Kind: progression.CueDialogueEnded}}))

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, progression.CueDialogueEnded, rec.snapshot()[0].Kind)
}

func TestBroadcaster_DropsWhenQueueFull(t *testing.T) {
	rdb, _ := setupTestRedis(t)
	b := NewBroadcaster(rdb, uuid.New(), testLogger())

	for i := 0; i < queueDepth+5; i++ {
		b.Cue(progression.Cue{Kind: progression.CueLineSpoken, Line: i})
	}

	assert.Len(t, b.queue, queueDepth)
	assert.Equal(t, uint64(queueDepth+5), b.seq)
}

func TestBroadcaster_PublishFailureNeverReachesCore(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	mr.Close()

	b := NewBroadcaster(rdb, uuid.New(), testLogger())
	sp, err := progression.New(&story.Content{
		Name:     "test",
		Segments: []story.Segment{{Title: "One"}, {Title: "Two"}},
	}, progression.WithCueSink(b))
	require.NoError(t, err)

	sp.CompleteObjective()
	assert.Equal(t, 1, sp.Current())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NotPanics(t, func() { b.Run(ctx) })
	assert.Empty(t, b.queue)
}

func TestSyncPublisher_DeliversPastQueueDepth(t *testing.T) {
	rdb, _ := setupTestRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session := uuid.New()
	sub, err := Subscribe(ctx, rdb, session, testLogger())
	require.NoError(t, err)
	defer sub.Close()

	rec := &syncRecorder{}
	go func() { _ = sub.Run(ctx, rec) }()

	total := 2 * queueDepth
	pub := NewBroadcaster(rdb, session, testLogger()).Synchronous(ctx)
	for i := 0; i < total; i++ {
		pub.Cue(progression.Cue{Kind: progression.CueLineSpoken, Segment: 0, Character: 0, Line: i})
	}

	assert.Equal(t, total, pub.Sent())
	assert.Zero(t, pub.Failed())
	require.Eventually(t, func() bool { return len(rec.snapshot()) == total }, 3*time.Second, 10*time.Millisecond)
	got := rec.snapshot()
	for i, c := range got {
		assert.Equal(t, i, c.Line)
	}
}

func TestSyncPublisher_CountsFailures(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	mr.Close()

	pub := NewBroadcaster(rdb, uuid.New(), testLogger()).Synchronous(context.Background())
	pub.Cue(progression.Cue{Kind: progression.CueStoryAdvanced, Segment: 1, Character: -1, Line: -1})

	assert.Zero(t, pub.Sent())
	assert.Equal(t, 1, pub.Failed())
}
