// Package service implements requester entity management. Creating an entity
// also provisions its login account, in one transaction.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"smarttalent/internal/entity/models"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/sentinel"
	"smarttalent/pkg/platform/tx"
	"smarttalent/pkg/requestcontext"
)

// Store persists entities.
type Store interface {
	Create(ctx context.Context, entity *models.Entity) error
	FindByID(ctx context.Context, entityID id.EntityID) (*models.Entity, error)
	FindByDocumentNumber(ctx context.Context, documentNumber string) (*models.Entity, error)
	Update(ctx context.Context, entity *models.Entity) error
	List(ctx context.Context, includeInactive bool) ([]*models.Entity, error)
	Exists(ctx context.Context, entityID id.EntityID) (bool, error)
}

// ProvisionedAccount is the login account created alongside an entity.
type ProvisionedAccount struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AccountProvisioner creates the entity's login account. Must run inside the
// caller's transaction so the entity and its account commit together.
type AccountProvisioner interface {
	ProvisionEntityUser(ctx context.Context, entityID id.EntityID, username, email, initialPassword string) (*ProvisionedAccount, error)
}

// Service orchestrates entity operations.
type Service struct {
	store    Store
	accounts AccountProvisioner
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

// New creates the entity service.
func New(store Store, accounts AccountProvisioner, opts ...Option) *Service {
	s := &Service{
		store:    store,
		accounts: accounts,
		txRunner: tx.NopRunner{},
		tracer:   otel.Tracer("smarttalent/entity"),
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

// CreateEntityInput carries the fields for a new entity and its account.
type CreateEntityInput struct {
	Type            models.EntityType
	DocumentNumber  string
	FirstName       string
	PaternalSurname string
	MaternalSurname string
	BusinessName    string
	Address         string
	Phone           string
	Email           string
}

// CreateEntityResult pairs the entity with its provisioned account.
type CreateEntityResult struct {
	Entity *models.Entity      `json:"entity"`
	User   *ProvisionedAccount `json:"user"`
}

// CreateEntity creates a requester entity and its login account atomically.
// The account's initial password is the entity's document number.
func (s *Service) CreateEntity(ctx context.Context, input CreateEntityInput) (*CreateEntityResult, error) {
	ctx, span := s.tracer.Start(ctx, "entity.Create")
	defer span.End()

	now := requestcontext.Now(ctx)
	entity, err := models.NewEntity(input.Type, input.DocumentNumber,
		input.FirstName, input.PaternalSurname, input.MaternalSurname,
		input.BusinessName, input.Address, input.Phone, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid entity")
	}

	var result CreateEntityResult
	err = s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, entity); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "an entity with this document number already exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "creating entity")
		}

		account, err := s.accounts.ProvisionEntityUser(ctx, entity.ID,
			entity.DisplayName(), input.Email, entity.DocumentNumber)
		if err != nil {
			return err
		}

		result.Entity = entity
		result.User = account
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log().InfoContext(ctx, "entity created",
		"entity_id", entity.ID, "type", entity.Type, "document_number", entity.DocumentNumber)
	return &result, nil
}

// GetEntity returns one entity, active or not.
func (s *Service) GetEntity(ctx context.Context, entityID id.EntityID) (*models.Entity, error) {
	entity, err := s.store.FindByID(ctx, entityID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "entity not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "loading entity")
	}
	return entity, nil
}

// ListEntities returns active entities, newest first.
func (s *Service) ListEntities(ctx context.Context) ([]*models.Entity, error) {
	entities, err := s.store.List(ctx, false)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "listing entities")
	}
	return entities, nil
}

// UpdateEntityInput carries the mutable entity fields.
type UpdateEntityInput struct {
	DocumentNumber  string
	FirstName       string
	PaternalSurname string
	MaternalSurname string
	BusinessName    string
	Address         string
	Phone           string
}

// UpdateEntity overwrites an entity's mutable fields.
func (s *Service) UpdateEntity(ctx context.Context, entityID id.EntityID, input UpdateEntityInput) (*models.Entity, error) {
	entity, err := s.GetEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	if err := entity.ApplyUpdate(input.DocumentNumber, input.FirstName,
		input.PaternalSurname, input.MaternalSurname, input.BusinessName,
		input.Address, input.Phone, now); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid entity")
	}

	if err := s.store.Update(ctx, entity); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "an entity with this document number already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "saving entity")
	}

	s.log().InfoContext(ctx, "entity updated", "entity_id", entity.ID)
	return entity, nil
}

// DeactivateEntity soft deletes an entity. Its requests and account remain.
func (s *Service) DeactivateEntity(ctx context.Context, entityID id.EntityID) error {
	entity, err := s.GetEntity(ctx, entityID)
	if err != nil {
		return err
	}

	entity.Deactivate(requestcontext.Now(ctx))
	if err := s.store.Update(ctx, entity); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "saving entity")
	}

	s.log().InfoContext(ctx, "entity deactivated", "entity_id", entity.ID)
	return nil
}

// ReactivateEntity restores a soft-deleted entity.
func (s *Service) ReactivateEntity(ctx context.Context, entityID id.EntityID) error {
	entity, err := s.GetEntity(ctx, entityID)
	if err != nil {
		return err
	}

	entity.Reactivate(requestcontext.Now(ctx))
	if err := s.store.Update(ctx, entity); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "saving entity")
	}

	s.log().InfoContext(ctx, "entity reactivated", "entity_id", entity.ID)
	return nil
}

// Exists reports whether an active entity with the given id exists.
func (s *Service) Exists(ctx context.Context, entityID id.EntityID) (bool, error) {
	ok, err := s.store.Exists(ctx, entityID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "checking entity")
	}
	return ok, nil
}
