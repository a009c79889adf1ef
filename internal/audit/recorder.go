package audit

import (
	"context"

	id "smarttalent/pkg/domain"
)

// Recorder adapts the publisher to the intake service's auditing hook.
type Recorder struct {
	Publisher *Publisher
}

func (r Recorder) Record(ctx context.Context, action string, personID id.PersonID, detail string) {
	r.Publisher.Emit(ctx, Event{
		Action:   Action(action),
		PersonID: personID,
		Detail:   detail,
	})
}
