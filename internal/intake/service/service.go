// Package service implements the intake workflows: transactional request
// aggregate creation, bulk document/resource mutation with the person
// completion cascade, recruiter assignment and observation, and the staff
// read models.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"smarttalent/internal/intake/metrics"
	"smarttalent/internal/intake/models"
	id "smarttalent/pkg/domain"
	"smarttalent/pkg/platform/tx"
)

// RequestStore persists intake requests.
type RequestStore interface {
	Create(ctx context.Context, request *models.Request) error
	FindByID(ctx context.Context, requestID id.RequestID) (*models.Request, error)
	// CountTree returns how many persons, documents and resources hang off
	// the request, for the deletion report.
	CountTree(ctx context.Context, requestID id.RequestID) (persons, documents, resources int, err error)
	// DeleteCascade removes the request and its whole tree.
	DeleteCascade(ctx context.Context, requestID id.RequestID) error
}

// PersonStore persists verification subjects.
type PersonStore interface {
	Create(ctx context.Context, person *models.Person) error
	FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error)
	Update(ctx context.Context, person *models.Person) error
	ListByRequest(ctx context.Context, requestID id.RequestID) ([]*models.Person, error)
}

// DocumentStore persists verification documents.
type DocumentStore interface {
	Create(ctx context.Context, document *models.Document) error
	FindByID(ctx context.Context, documentID id.DocumentID) (*models.Document, error)
	Update(ctx context.Context, document *models.Document) error
	ListByPerson(ctx context.Context, personID id.PersonID) ([]*models.Document, error)
}

// ResourceStore persists document resources.
type ResourceStore interface {
	Create(ctx context.Context, resource *models.Resource) error
	FindByID(ctx context.Context, resourceID id.ResourceID) (*models.Resource, error)
	Update(ctx context.Context, resource *models.Resource) error
}

// AssignmentStore persists the person<->recruiter relation.
type AssignmentStore interface {
	Assign(ctx context.Context, personID id.PersonID, userID id.UserID, assignedAt time.Time) error
	ListByPerson(ctx context.Context, personID id.PersonID) ([]models.RecruiterAssignment, error)
}

// PersonQuery serves the denormalized read models. Implementations join the
// owning entity and load the full document/resource tree.
type PersonQuery interface {
	ListPeople(ctx context.Context, filter models.PersonFilter) ([]*models.PersonView, error)
	GetPerson(ctx context.Context, personID id.PersonID) (*models.PersonView, error)
}

// EntityDirectory answers whether an owning entity exists and is active.
// Backed by the entity module through an adapter.
type EntityDirectory interface {
	Exists(ctx context.Context, entityID id.EntityID) (bool, error)
}

// RecruiterInfo is the slice of a user the assignment flow needs.
type RecruiterInfo struct {
	ID       id.UserID
	Username string
	Email    string
}

// RecruiterDirectory resolves users that carry the RECRUITER role. Returns
// sentinel.ErrNotFound when the user is missing or lacks the role; the two
// cases are deliberately indistinguishable to callers.
type RecruiterDirectory interface {
	FindRecruiter(ctx context.Context, userID id.UserID) (*RecruiterInfo, error)
}

// ResourceTypeInfo describes one resource slot a document type declares.
type ResourceTypeInfo struct {
	ID       id.ResourceTypeID
	Name     string
	Required bool
}

// DocumentTypeInfo is the taxonomy shape intake validates incoming documents
// against.
type DocumentTypeInfo struct {
	ID            id.DocumentTypeID
	Name          string
	Active        bool
	ResourceTypes []ResourceTypeInfo
}

// TaxonomyDirectory resolves document types and their associated resource
// types. Backed by the taxonomy module (and its cache) through an adapter.
type TaxonomyDirectory interface {
	GetDocumentType(ctx context.Context, documentTypeID id.DocumentTypeID) (*DocumentTypeInfo, error)
}

// Notifier receives workflow events after the owning transaction commits.
// Delivery is best effort; failures are logged, never surfaced.
type Notifier interface {
	PersonObserved(ctx context.Context, person *models.Person) error
	PersonCompleted(ctx context.Context, person *models.Person) error
}

// Auditor records workflow state changes. Recording is fire-and-forget.
type Auditor interface {
	Record(ctx context.Context, action string, personID id.PersonID, detail string)
}

// Stores bundles the write-side dependencies so the constructor stays
// readable.
type Stores struct {
	Requests    RequestStore
	Persons     PersonStore
	Documents   DocumentStore
	Resources   ResourceStore
	Assignments AssignmentStore
	Query       PersonQuery
}

// Service orchestrates intake operations over the stores and directories.
type Service struct {
	stores     Stores
	entities   EntityDirectory
	recruiters RecruiterDirectory
	taxonomy   TaxonomyDirectory

	txRunner tx.Runner
	notifier Notifier
	auditor  Auditor
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the intake metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTxRunner sets the transaction runner. Production wires the SQL runner;
// unit tests keep the no-op default alongside memory stores.
func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) { s.txRunner = runner }
}

// WithNotifier sets the post-commit event sink.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithAuditor sets the workflow audit recorder.
func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

// New creates the intake service.
func New(stores Stores, entities EntityDirectory, recruiters RecruiterDirectory, taxonomy TaxonomyDirectory, opts ...Option) *Service {
	s := &Service{
		stores:     stores,
		entities:   entities,
		recruiters: recruiters,
		taxonomy:   taxonomy,
		txRunner:   tx.NopRunner{},
		tracer:     otel.Tracer("smarttalent/intake"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func (s *Service) audit(ctx context.Context, action string, personID id.PersonID, detail string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, action, personID, detail)
}

func (s *Service) notifyObserved(ctx context.Context, person *models.Person) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PersonObserved(ctx, person); err != nil {
		s.log().WarnContext(ctx, "observation notification failed",
			"person_id", person.ID, "error", err)
	}
}

func (s *Service) notifyCompleted(ctx context.Context, person *models.Person) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PersonCompleted(ctx, person); err != nil {
		s.log().WarnContext(ctx, "completion notification failed",
			"person_id", person.ID, "error", err)
	}
}
