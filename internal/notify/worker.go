package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Mailer delivers rendered messages. Production wires an SMTP or provider
// implementation, tests use a recorder.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes messages to the log instead of sending them. Default when
// no provider is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.Logger.InfoContext(ctx, "mail delivery skipped, no provider configured",
		"to", to, "subject", subject)
	return nil
}

// RequesterDirectory resolves the email that should receive updates about a
// person's file.
type RequesterDirectory interface {
	RequesterEmail(ctx context.Context, personID string) (string, error)
}

// Processor handles queued notification tasks in the worker process.
type Processor struct {
	mailer      Mailer
	requesters  RequesterDirectory
	frontendURL string
	logger      *slog.Logger
}

// NewProcessor constructs a worker processor.
func NewProcessor(mailer Mailer, requesters RequesterDirectory, frontendURL string, logger *slog.Logger) *Processor {
	return &Processor{
		mailer:      mailer,
		requesters:  requesters,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// Handler registers the notification handlers.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskPersonObserved, p.handlePersonObserved)
	mux.HandleFunc(TaskPersonCompleted, p.handlePersonCompleted)
	mux.HandleFunc(TaskPasswordReset, p.handlePasswordReset)
	return mux
}

func (p *Processor) handlePersonObserved(ctx context.Context, task *asynq.Task) error {
	var payload PersonEventPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	subject := fmt.Sprintf("Observaciones sobre la verificación de %s", payload.FullName)
	body := fmt.Sprintf(
		"La verificación de %s ha recibido observaciones:\n\n%s\n\nRevise la solicitud en %s",
		payload.FullName, payload.Observations, p.frontendURL)
	return p.deliverPersonEvent(ctx, payload, subject, body)
}

func (p *Processor) handlePersonCompleted(ctx context.Context, task *asynq.Task) error {
	var payload PersonEventPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	subject := fmt.Sprintf("Verificación de %s completada", payload.FullName)
	body := fmt.Sprintf(
		"Todos los documentos de %s han sido procesados.\n\nConsulte los resultados en %s",
		payload.FullName, p.frontendURL)
	return p.deliverPersonEvent(ctx, payload, subject, body)
}

func (p *Processor) deliverPersonEvent(ctx context.Context, payload PersonEventPayload, subject, body string) error {
	email, err := p.requesters.RequesterEmail(ctx, payload.PersonID)
	if err != nil {
		return fmt.Errorf("resolve requester for person %s: %w", payload.PersonID, err)
	}
	if err := p.mailer.Send(ctx, email, subject, body); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	p.logger.InfoContext(ctx, "notification delivered", "person_id", payload.PersonID, "to", email)
	return nil
}

func (p *Processor) handlePasswordReset(ctx context.Context, task *asynq.Task) error {
	var payload PasswordResetPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", p.frontendURL, payload.Token)
	body := fmt.Sprintf(
		"Hola %s,\n\nPara restablecer su contraseña ingrese al siguiente enlace:\n%s\n\nEl enlace expira en una hora.",
		payload.Username, link)
	if err := p.mailer.Send(ctx, payload.Email, "Restablecimiento de contraseña", body); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
