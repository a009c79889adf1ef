package audit

import (
	"context"
	"log/slog"
	"time"

	"smarttalent/pkg/requestcontext"
)

// Publisher hands events to the worker through a buffered channel. A full
// buffer drops the event with a warning rather than blocking the request.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewPublisher creates a publisher with the given buffer size.
func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	return &Publisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Emit queues an event, stamping the actor and time from the request context
// when the event carries none.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.ActorID.IsNil() {
		event.ActorID = requestcontext.UserID(ctx)
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit buffer full, event dropped",
			"action", event.Action, "person_id", event.PersonID)
	}
}

// Inbox exposes the channel the worker consumes.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Worker consumes events from the publisher and persists them.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

// NewWorker creates a worker over the publisher's inbox.
func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run appends events until the context is cancelled. Store failures are
// logged, not fatal.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			appendCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := w.store.Append(appendCtx, event); err != nil {
				w.logger.Error("audit append failed", "action", event.Action, "error", err)
			}
			cancel()
		}
	}
}
