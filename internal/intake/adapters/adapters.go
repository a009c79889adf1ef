// Package adapters bridges the intake service to the other modules it reads
// from, translating their coded errors into the sentinel errors the intake
// contracts expect.
package adapters

import (
	"context"
	"errors"

	authservice "smarttalent/internal/auth/service"
	"smarttalent/internal/intake/service"
	taxonomyservice "smarttalent/internal/taxonomy/service"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/sentinel"
)

// RecruiterDirectory satisfies the intake recruiter lookup with the auth
// service.
type RecruiterDirectory struct {
	Auth *authservice.Service
}

func (d RecruiterDirectory) FindRecruiter(ctx context.Context, userID id.UserID) (*service.RecruiterInfo, error) {
	user, err := d.Auth.FindRecruiter(ctx, userID)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeNotFound {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return &service.RecruiterInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// TaxonomyDirectory satisfies the intake document-type lookup with the
// taxonomy service.
type TaxonomyDirectory struct {
	Taxonomy *taxonomyservice.Service
}

func (d TaxonomyDirectory) GetDocumentType(ctx context.Context, documentTypeID id.DocumentTypeID) (*service.DocumentTypeInfo, error) {
	dt, err := d.Taxonomy.GetDocumentType(ctx, documentTypeID)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeNotFound {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}

	info := &service.DocumentTypeInfo{
		ID:     dt.ID,
		Name:   dt.Name,
		Active: dt.IsActive,
	}
	for _, rt := range dt.ResourceTypes {
		info.ResourceTypes = append(info.ResourceTypes, service.ResourceTypeInfo{
			ID:       rt.ID,
			Name:     rt.Name,
			Required: rt.IsRequired,
		})
	}
	return info, nil
}

// EntityExists is the lookup the entity module exposes to intake.
type EntityExists interface {
	Exists(ctx context.Context, entityID id.EntityID) (bool, error)
}

// EntityDirectory satisfies the intake entity check with the entity service.
type EntityDirectory struct {
	Entities EntityExists
}

func (d EntityDirectory) Exists(ctx context.Context, entityID id.EntityID) (bool, error) {
	ok, err := d.Entities.Exists(ctx, entityID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return false, err
	}
	return ok, nil
}
