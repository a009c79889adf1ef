// Package service serves the intake form catalog with a read-through cache.
// The catalog changes rarely (seeding, admin edits) and is read on every
// intake form render, so a short cache TTL removes most of the read load.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"smarttalent/internal/taxonomy/models"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/sentinel"
)

const catalogCacheKey = "taxonomy:document-types"

// Store persists the catalog.
type Store interface {
	ListActive(ctx context.Context) ([]*models.DocumentType, error)
	FindByID(ctx context.Context, documentTypeID id.DocumentTypeID) (*models.DocumentType, error)
	FindDocumentTypeByName(ctx context.Context, name string) (*models.DocumentType, error)
	CreateDocumentType(ctx context.Context, dt *models.DocumentType) error
	FindResourceTypeByName(ctx context.Context, name string) (*models.ResourceType, error)
	CreateResourceType(ctx context.Context, rt *models.ResourceType) error
	Associate(ctx context.Context, documentTypeID id.DocumentTypeID, resourceTypeID id.ResourceTypeID) error
}

// Cache is the byte-level cache the catalog reads through. A miss returns
// sentinel.ErrNotFound. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Service exposes catalog reads and seeding.
type Service struct {
	store  Store
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithCache enables the read-through cache with the given TTL.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.ttl = ttl
	}
}

// New creates the taxonomy service.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tracer: otel.Tracer("smarttalent/taxonomy"),
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

// ListWithResourceTypes returns every active document type joined with its
// resource types. Serves from cache when possible; cache failures fall
// through to the store rather than failing the read.
func (s *Service) ListWithResourceTypes(ctx context.Context) ([]*models.DocumentType, error) {
	ctx, span := s.tracer.Start(ctx, "taxonomy.ListWithResourceTypes")
	defer span.End()

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, catalogCacheKey)
		if err == nil {
			var types []*models.DocumentType
			if err := json.Unmarshal(raw, &types); err == nil {
				return types, nil
			}
			// Corrupt entry: drop it and reload from the store.
			_ = s.cache.Delete(ctx, catalogCacheKey)
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			s.log().WarnContext(ctx, "taxonomy cache read failed", "error", err)
		}
	}

	types, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "listing document types")
	}

	if s.cache != nil {
		if raw, err := json.Marshal(types); err == nil {
			if err := s.cache.Set(ctx, catalogCacheKey, raw, s.ttl); err != nil {
				s.log().WarnContext(ctx, "taxonomy cache write failed", "error", err)
			}
		}
	}
	return types, nil
}

// GetDocumentType returns one document type with its resource types, straight
// from the store: intake validation must see committed catalog state.
func (s *Service) GetDocumentType(ctx context.Context, documentTypeID id.DocumentTypeID) (*models.DocumentType, error) {
	dt, err := s.store.FindByID(ctx, documentTypeID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "document type not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "loading document type")
	}
	return dt, nil
}

// InvalidateCache drops the cached catalog after seeding or admin edits.
func (s *Service) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		s.log().WarnContext(ctx, "taxonomy cache invalidation failed", "error", err)
	}
}
