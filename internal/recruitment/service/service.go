// Package service implements recruitment engagements: a recruitment and its
// job profile are created together, then move through a pipeline of states.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"smarttalent/internal/recruitment/models"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/sentinel"
	"smarttalent/pkg/platform/tx"
	"smarttalent/pkg/requestcontext"
)

// Store persists recruitments and job profiles.
type Store interface {
	Create(ctx context.Context, recruitment *models.Recruitment) error
	CreateProfile(ctx context.Context, profile *models.JobProfile) error
	FindByID(ctx context.Context, recruitmentID id.RecruitmentID) (*models.Recruitment, error)
	Update(ctx context.Context, recruitment *models.Recruitment) error
	List(ctx context.Context, filter models.RecruitmentFilter) ([]*models.Recruitment, error)
}

// EntityDirectory answers whether an owning entity exists and is active.
type EntityDirectory interface {
	Exists(ctx context.Context, entityID id.EntityID) (bool, error)
}

// Service orchestrates recruitment operations.
type Service struct {
	store    Store
	entities EntityDirectory
	txRunner tx.Runner
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTxRunner sets the transaction runner.
func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) { s.txRunner = runner }
}

// New creates the recruitment service.
func New(store Store, entities EntityDirectory, opts ...Option) *Service {
	s := &Service{
		store:    store,
		entities: entities,
		txRunner: tx.NopRunner{},
		tracer:   otel.Tracer("smarttalent/recruitment"),
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

// ProfileInput carries the job profile fields for a new recruitment.
type ProfileInput struct {
	PositionName    string
	Area            string
	WorkLocation    string
	WorkModality    string
	ContractType    string
	SalaryRangeFrom float64
	SalaryRangeTo   float64
	JobFunctions    []string
}

// CreateRecruitmentInput carries a new engagement and its profile.
type CreateRecruitmentInput struct {
	EntityID id.EntityID
	Type     models.RecruitmentType
	Profile  ProfileInput
}

// CreateRecruitment creates a recruitment and its job profile atomically.
// The caller's identity, when present, is recorded on both rows.
func (s *Service) CreateRecruitment(ctx context.Context, input CreateRecruitmentInput) (*models.Recruitment, error) {
	ctx, span := s.tracer.Start(ctx, "recruitment.Create")
	defer span.End()

	now := requestcontext.Now(ctx)
	createdBy := requestcontext.UserID(ctx)

	var recruitment *models.Recruitment
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		ok, err := s.entities.Exists(ctx, input.EntityID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "checking entity")
		}
		if !ok {
			return dErrors.New(dErrors.CodeNotFound, "entity not found")
		}

		recruitment, err = models.NewRecruitment(input.EntityID, input.Type, createdBy, now)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "invalid recruitment")
		}
		if err := s.store.Create(ctx, recruitment); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "creating recruitment")
		}

		profile, err := models.NewJobProfile(recruitment.ID, input.EntityID, input.Profile.PositionName, createdBy, now)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "invalid job profile")
		}
		profile.Area = input.Profile.Area
		profile.WorkLocation = input.Profile.WorkLocation
		profile.WorkModality = input.Profile.WorkModality
		profile.ContractType = input.Profile.ContractType
		profile.SalaryRangeFrom = input.Profile.SalaryRangeFrom
		profile.SalaryRangeTo = input.Profile.SalaryRangeTo
		if len(input.Profile.JobFunctions) > 0 {
			profile.JobFunctions = input.Profile.JobFunctions
		}
		if err := s.store.CreateProfile(ctx, profile); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "creating job profile")
		}

		recruitment.Profile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log().InfoContext(ctx, "recruitment created",
		"recruitment_id", recruitment.ID, "entity_id", recruitment.EntityID, "type", recruitment.Type)
	return recruitment, nil
}

// GetRecruitment returns one recruitment with its profile.
func (s *Service) GetRecruitment(ctx context.Context, recruitmentID id.RecruitmentID) (*models.Recruitment, error) {
	recruitment, err := s.store.FindByID(ctx, recruitmentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "recruitment not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "loading recruitment")
	}
	return recruitment, nil
}

// ListRecruitments returns recruitments matching the filter, newest first.
func (s *Service) ListRecruitments(ctx context.Context, filter models.RecruitmentFilter) ([]*models.Recruitment, error) {
	if filter.State != "" && !models.ValidRecruitmentState(filter.State) {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown recruitment state "+string(filter.State))
	}
	recruitments, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "listing recruitments")
	}
	return recruitments, nil
}

// UpdateRecruitmentState transitions a recruitment to a new pipeline state.
func (s *Service) UpdateRecruitmentState(ctx context.Context, recruitmentID id.RecruitmentID, state models.RecruitmentState) (*models.Recruitment, error) {
	recruitment, err := s.GetRecruitment(ctx, recruitmentID)
	if err != nil {
		return nil, err
	}

	if err := recruitment.ApplyState(state, requestcontext.Now(ctx)); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid state")
	}
	if err := s.store.Update(ctx, recruitment); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "saving recruitment")
	}

	s.log().InfoContext(ctx, "recruitment state updated",
		"recruitment_id", recruitment.ID, "state", recruitment.State)
	return recruitment, nil
}
