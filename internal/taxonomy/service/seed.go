package service

import (
	"context"
	"errors"

	"smarttalent/internal/taxonomy/models"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/sentinel"
)

// seedResourceType describes one default catalog resource slot.
type seedResourceType struct {
	name             string
	description      string
	required         bool
	maxFileSize      int64
	allowedFileTypes []string
}

// The default catalog shipped with a fresh installation. Names double as
// natural keys so reseeding is idempotent.
var (
	seedResourceTypes = []seedResourceType{
		{
			name:             "Documento de Identidad (DNI, CE, etc.)",
			description:      "Documento original escaneado",
			required:         true,
			maxFileSize:      500000,
			allowedFileTypes: []string{"application/pdf", "image/jpeg", "image/png"},
		},
		{
			name:        "Comentarios adicionales",
			description: "Cualquier observación adicional",
		},
		{
			name:        "Ubicación",
			description: "Coordenadas GPS del lugar de domicilio",
			required:    true,
		},
		{
			name:        "Dirección",
			description: "Dirección domiciliaria del solicitante",
			required:    true,
		},
		{
			name:        "Referencia",
			description: "Alguna referencia adicional",
		},
		{
			name:             "Documento laboral (ejm: CV)",
			description:      "Cualquier documento de trabajo",
			required:         true,
			maxFileSize:      500000,
			allowedFileTypes: []string{"application/pdf", "image/jpeg", "image/png"},
		},
		{
			name:             "Certificado académico (ejm: Título)",
			description:      "Cualquier certificado académico",
			required:         true,
			maxFileSize:      500000,
			allowedFileTypes: []string{"application/pdf", "image/jpeg", "image/png"},
		},
	}

	seedAssociations = map[string][]string{
		"Antecedentes Nacionales": {
			"Documento de Identidad (DNI, CE, etc.)",
			"Comentarios adicionales",
		},
		"Verificación laboral": {
			"Documento laboral (ejm: CV)",
			"Comentarios adicionales",
		},
		"Verificación Académica": {
			"Certificado académico (ejm: Título)",
			"Comentarios adicionales",
		},
		"Verificación Crediticia": {
			"Comentarios adicionales",
		},
		"Verificación Domiciliaria": {
			"Ubicación",
			"Dirección",
			"Referencia",
		},
	}
)

// Seed installs the default catalog: document types, resource types and their
// associations. Existing rows are kept, so reseeding is safe.
func (s *Service) Seed(ctx context.Context) error {
	resourceTypesByName := make(map[string]*models.ResourceType, len(seedResourceTypes))
	for _, seed := range seedResourceTypes {
		rt, err := s.ensureResourceType(ctx, seed)
		if err != nil {
			return err
		}
		resourceTypesByName[rt.Name] = rt
	}

	for docTypeName, resourceNames := range seedAssociations {
		dt, err := s.ensureDocumentType(ctx, docTypeName)
		if err != nil {
			return err
		}
		for _, resourceName := range resourceNames {
			rt, ok := resourceTypesByName[resourceName]
			if !ok {
				return dErrors.New(dErrors.CodeInternal, "seed references unknown resource type "+resourceName)
			}
			if err := s.store.Associate(ctx, dt.ID, rt.ID); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "associating "+docTypeName)
			}
		}
	}

	s.InvalidateCache(ctx)
	s.log().InfoContext(ctx, "taxonomy seeded",
		"document_types", len(seedAssociations),
		"resource_types", len(seedResourceTypes))
	return nil
}

func (s *Service) ensureDocumentType(ctx context.Context, name string) (*models.DocumentType, error) {
	existing, err := s.store.FindDocumentTypeByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "looking up document type "+name)
	}

	dt, err := models.NewDocumentType(name)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateDocumentType(ctx, dt); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "creating document type "+name)
	}
	return dt, nil
}

func (s *Service) ensureResourceType(ctx context.Context, seed seedResourceType) (*models.ResourceType, error) {
	existing, err := s.store.FindResourceTypeByName(ctx, seed.name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "looking up resource type "+seed.name)
	}

	rt, err := models.NewResourceType(seed.name, seed.description, seed.required, seed.maxFileSize, seed.allowedFileTypes)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateResourceType(ctx, rt); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "creating resource type "+seed.name)
	}
	return rt, nil
}
