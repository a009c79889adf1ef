package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"smarttalent/internal/intake/models"
)

// Enqueuer queues notification tasks. It satisfies the notifier contracts of
// the intake and auth services.
type Enqueuer struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewEnqueuer wraps an asynq client.
func NewEnqueuer(client *asynq.Client, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{client: client, logger: logger}
}

// PersonObserved queues the observation email for a person's requester.
func (e *Enqueuer) PersonObserved(ctx context.Context, person *models.Person) error {
	return e.enqueuePersonEvent(ctx, TaskPersonObserved, person)
}

// PersonCompleted queues the completion email for a person's requester.
func (e *Enqueuer) PersonCompleted(ctx context.Context, person *models.Person) error {
	return e.enqueuePersonEvent(ctx, TaskPersonCompleted, person)
}

func (e *Enqueuer) enqueuePersonEvent(ctx context.Context, taskType string, person *models.Person) error {
	task, err := newTask(taskType, PersonEventPayload{
		PersonID:     person.ID.String(),
		RequestID:    person.RequestID.String(),
		FullName:     person.Fullname,
		Status:       string(person.Status),
		Observations: person.Observations,
	})
	if err != nil {
		return err
	}
	info, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	e.logger.DebugContext(ctx, "notification queued",
		"task", taskType, "task_id", info.ID, "person_id", person.ID)
	return nil
}

// PasswordReset queues the reset-link email.
func (e *Enqueuer) PasswordReset(ctx context.Context, email, username, token string) error {
	task, err := newTask(TaskPasswordReset, PasswordResetPayload{
		Email:    email,
		Username: username,
		Token:    token,
	})
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskPasswordReset, err)
	}
	return nil
}
