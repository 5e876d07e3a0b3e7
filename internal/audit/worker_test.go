package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPersistsEvents(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 8)
	worker := NewWorker(store, inbox, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	sink := NewAsyncSink(inbox)
	sink.Emit(ctx, Event{Kind: KindVerificationSucceeded, VoterID: "V1"})
	sink.Emit(ctx, Event{Kind: KindDuplicateBlocked, VoterID: "V1"})

	require.Eventually(t, func() bool {
		events, err := store.ListByVoter(context.Background(), "V1")
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	events, err := store.ListByVoter(context.Background(), "V1")
	require.NoError(t, err)
	assert.Equal(t, KindVerificationSucceeded, events[0].Kind)
	assert.Equal(t, KindDuplicateBlocked, events[1].Kind)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.NotEqual(t, events[0].ID, events[1].ID)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestAsyncSinkDropsWhenFull(t *testing.T) {
	inbox := make(chan Event, 1)
	sink := NewAsyncSink(inbox)

	sink.Emit(context.Background(), Event{Kind: KindVoterRegistered})
	sink.Emit(context.Background(), Event{Kind: KindVoterRegistered}) // must not block

	assert.Len(t, inbox, 1)
}

func TestPublisherStampsEvents(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)

	pub.Emit(context.Background(), Event{Kind: KindVoterRegistered, VoterID: "V9"})

	events, err := pub.List(context.Background(), "V9")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
}
