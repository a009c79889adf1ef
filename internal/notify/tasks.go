// Package notify turns workflow events into queued email tasks. The HTTP
// process enqueues, a separate worker process delivers.
package notify

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TaskPersonObserved is queued when staff flag a person's file.
	TaskPersonObserved = "notify:person_observed"
	// TaskPersonCompleted is queued when every document of a person reaches a
	// terminal state.
	TaskPersonCompleted = "notify:person_completed"
	// TaskPasswordReset is queued when an account requests a reset link.
	TaskPasswordReset = "notify:password_reset"
)

// PersonEventPayload identifies the person a workflow event concerns.
type PersonEventPayload struct {
	PersonID     string `json:"person_id"`
	RequestID    string `json:"request_id"`
	FullName     string `json:"full_name"`
	Status       string `json:"status"`
	Observations string `json:"observations,omitempty"`
}

// PasswordResetPayload carries what the reset email needs.
type PasswordResetPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

func newTask(taskType string, payload any) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data), nil
}
