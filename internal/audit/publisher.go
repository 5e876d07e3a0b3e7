package audit

import (
	"context"

	"github.com/google/uuid"

	"votegate/pkg/requestcontext"
)

// Sink accepts audit events from services. Implementations decide whether
// persistence happens inline (Publisher) or on a background worker
// (AsyncSink).
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) {
	_ = p.store.Append(ctx, stamp(ctx, event))
}

func (p *Publisher) List(ctx context.Context, voterID string) ([]Event, error) {
	return p.store.ListByVoter(ctx, voterID)
}

// AsyncSink hands events to a worker through a buffered channel. Events are
// dropped rather than blocking the request path when the buffer is full.
type AsyncSink struct {
	inbox chan<- Event
}

func NewAsyncSink(inbox chan<- Event) *AsyncSink {
	return &AsyncSink{inbox: inbox}
}

func (s *AsyncSink) Emit(ctx context.Context, event Event) {
	select {
	case s.inbox <- stamp(ctx, event):
	default:
	}
}

// NopSink discards events. Used when auditing is not configured.
type NopSink struct{}

func (NopSink) Emit(context.Context, Event) {}

func stamp(ctx context.Context, event Event) Event {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.Operator == "" {
		event.Operator = requestcontext.Operator(ctx)
	}
	return event
}
