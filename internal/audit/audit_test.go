package audit

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "smarttalent/pkg/domain"
	"smarttalent/pkg/requestcontext"
)

var frozen = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestEmitStampsContextValues(t *testing.T) {
	publisher := NewPublisher(4, discardLogger())
	actorID := id.NewUserID()
	ctx := requestcontext.WithUserID(requestcontext.WithTime(context.Background(), frozen), actorID)

	personID := id.NewPersonID()
	publisher.Emit(ctx, Event{Action: ActionPersonObserved, PersonID: personID, Detail: "falta huella"})

	select {
	case event := <-publisher.Inbox():
		assert.Equal(t, frozen, event.Timestamp)
		assert.Equal(t, actorID, event.ActorID)
		assert.Equal(t, ActionPersonObserved, event.Action)
		assert.Equal(t, personID, event.PersonID)
	default:
		t.Fatal("expected a queued event")
	}
}

func TestEmitKeepsExplicitValues(t *testing.T) {
	publisher := NewPublisher(4, discardLogger())
	explicit := frozen.Add(-time.Hour)
	actorID := id.NewUserID()

	publisher.Emit(context.Background(), Event{
		Timestamp: explicit,
		ActorID:   actorID,
		Action:    ActionStatusChanged,
	})

	event := <-publisher.Inbox()
	assert.Equal(t, explicit, event.Timestamp)
	assert.Equal(t, actorID, event.ActorID)
}

func TestEmitDropsWhenFull(t *testing.T) {
	publisher := NewPublisher(1, discardLogger())
	publisher.Emit(context.Background(), Event{Action: ActionStatusChanged})
	// Buffer is full now; this one must not block.
	done := make(chan struct{})
	go func() {
		publisher.Emit(context.Background(), Event{Action: ActionStatusChanged})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full buffer")
	}
	assert.Len(t, publisher.inbox, 1)
}

func TestWorkerPersistsEvents(t *testing.T) {
	store := NewMemoryStore()
	publisher := NewPublisher(16, discardLogger())
	worker := NewWorker(store, publisher.Inbox(), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	personID := id.NewPersonID()
	recorder := Recorder{Publisher: publisher}
	recorder.Record(requestcontext.WithTime(context.Background(), frozen), "RECRUITER_ASSIGNED", personID, "mlopez")
	recorder.Record(requestcontext.WithTime(context.Background(), frozen), "PERSON_COMPLETED", personID, "")

	require.Eventually(t, func() bool {
		events, err := store.ListByPerson(context.Background(), personID)
		return err == nil && len(events) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	events, err := store.ListByPerson(context.Background(), personID)
	require.NoError(t, err)
	assert.Equal(t, ActionRecruiterAssigned, events[0].Action)
	assert.Equal(t, "mlopez", events[0].Detail)
	assert.Equal(t, ActionPersonCompleted, events[1].Action)
}
