package service

import (
	"context"
	"errors"

	"smarttalent/internal/auth/models"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/sentinel"
)

var seedRoles = []models.Role{
	{
		Name:        models.RoleAdmin,
		Description: "Administrador con acceso completo al sistema",
		Permissions: []string{"CREATE", "READ", "UPDATE", "DELETE"},
	},
	{
		Name:        models.RoleRecruiter,
		Description: "Gerente con acceso a gestión y reportes",
		Permissions: []string{"CREATE", "READ", "UPDATE"},
	},
	{
		Name:        models.RoleUser,
		Description: "Usuario estándar del sistema",
		Permissions: []string{"READ"},
	},
}

// SeedRoles installs the built-in roles. Existing roles are kept, so
// reseeding is safe.
func (s *Service) SeedRoles(ctx context.Context) error {
	for _, seed := range seedRoles {
		_, err := s.store.FindRoleByName(ctx, seed.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "looking up role "+seed.Name)
		}

		role := seed
		role.ID = id.NewRoleID()
		if err := s.store.CreateRole(ctx, &role); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "creating role "+seed.Name)
		}
		s.log().InfoContext(ctx, "role created", "role", role.Name)
	}
	return nil
}
