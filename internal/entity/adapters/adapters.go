// Package adapters bridges the entity service to the auth module.
package adapters

import (
	"context"

	authservice "smarttalent/internal/auth/service"
	"smarttalent/internal/entity/service"
	id "smarttalent/pkg/domain"
)

// AccountProvisioner satisfies the entity account provisioning with the auth
// service. The call stays in the caller's transaction.
type AccountProvisioner struct {
	Auth *authservice.Service
}

func (p AccountProvisioner) ProvisionEntityUser(ctx context.Context, entityID id.EntityID, username, email, initialPassword string) (*service.ProvisionedAccount, error) {
	user, err := p.Auth.ProvisionEntityUser(ctx, entityID, username, email, initialPassword)
	if err != nil {
		return nil, err
	}
	return &service.ProvisionedAccount{Username: user.Username, Email: user.Email}, nil
}
