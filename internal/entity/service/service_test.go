package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttalent/internal/entity/models"
	"smarttalent/internal/entity/store"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/requestcontext"
)

var frozen = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func testCtx() context.Context {
	return requestcontext.WithTime(context.Background(), frozen)
}

// fakeProvisioner records provisioning calls and can be told to fail, which
// must roll the entity creation back with it.
type fakeProvisioner struct {
	calls []provisionCall
	fail  error
}

type provisionCall struct {
	entityID id.EntityID
	username string
	email    string
	password string
}

func (p *fakeProvisioner) ProvisionEntityUser(_ context.Context, entityID id.EntityID, username, email, initialPassword string) (*ProvisionedAccount, error) {
	if p.fail != nil {
		return nil, p.fail
	}
	p.calls = append(p.calls, provisionCall{entityID, username, email, initialPassword})
	return &ProvisionedAccount{Username: username, Email: email}, nil
}

func naturalInput() CreateEntityInput {
	return CreateEntityInput{
		Type:            models.TypeNatural,
		DocumentNumber:  "12345678",
		FirstName:       "Juan",
		PaternalSurname: "Perez",
		MaternalSurname: "Garcia",
		Address:         "Av. Arequipa 123",
		Email:           "juan.perez@example.com",
	}
}

func TestCreateEntity(t *testing.T) {
	t.Run("creates entity and provisions its account", func(t *testing.T) {
		provisioner := &fakeProvisioner{}
		svc := New(store.NewMemory(), provisioner)

		result, err := svc.CreateEntity(testCtx(), naturalInput())
		require.NoError(t, err)
		assert.True(t, result.Entity.Active)
		assert.Equal(t, "Juan Perez Garcia", result.User.Username)

		require.Len(t, provisioner.calls, 1)
		call := provisioner.calls[0]
		assert.Equal(t, result.Entity.ID, call.entityID)
		assert.Equal(t, "juan.perez@example.com", call.email)
		assert.Equal(t, "12345678", call.password, "initial password is the document number")
	})

	t.Run("invalid input is a validation error", func(t *testing.T) {
		svc := New(store.NewMemory(), &fakeProvisioner{})
		input := naturalInput()
		input.DocumentNumber = "123"
		_, err := svc.CreateEntity(testCtx(), input)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("duplicate document number conflicts", func(t *testing.T) {
		svc := New(store.NewMemory(), &fakeProvisioner{})
		_, err := svc.CreateEntity(testCtx(), naturalInput())
		require.NoError(t, err)

		_, err = svc.CreateEntity(testCtx(), naturalInput())
		assert.Equal(t, dErrors.CodeConflict, dErrors.CodeOf(err))
	})

	t.Run("provisioning failure surfaces", func(t *testing.T) {
		provisioner := &fakeProvisioner{fail: errors.New("username taken")}
		svc := New(store.NewMemory(), provisioner)
		_, err := svc.CreateEntity(testCtx(), naturalInput())
		assert.Error(t, err)
	})
}

func TestGetEntity(t *testing.T) {
	svc := New(store.NewMemory(), &fakeProvisioner{})
	result, err := svc.CreateEntity(testCtx(), naturalInput())
	require.NoError(t, err)

	entity, err := svc.GetEntity(testCtx(), result.Entity.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Entity.ID, entity.ID)

	_, err = svc.GetEntity(testCtx(), id.NewEntityID())
	assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func TestUpdateEntity(t *testing.T) {
	t.Run("overwrites mutable fields", func(t *testing.T) {
		svc := New(store.NewMemory(), &fakeProvisioner{})
		result, err := svc.CreateEntity(testCtx(), naturalInput())
		require.NoError(t, err)

		updated, err := svc.UpdateEntity(testCtx(), result.Entity.ID, UpdateEntityInput{
			DocumentNumber:  "87654321",
			FirstName:       "Maria",
			PaternalSurname: "Lopez",
			MaternalSurname: "Diaz",
		})
		require.NoError(t, err)
		assert.Equal(t, "87654321", updated.DocumentNumber)
		assert.Equal(t, "Maria", updated.FirstName)
	})

	t.Run("duplicate document number conflicts", func(t *testing.T) {
		svc := New(store.NewMemory(), &fakeProvisioner{})
		first, err := svc.CreateEntity(testCtx(), naturalInput())
		require.NoError(t, err)

		other := naturalInput()
		other.DocumentNumber = "87654321"
		second, err := svc.CreateEntity(testCtx(), other)
		require.NoError(t, err)

		_, err = svc.UpdateEntity(testCtx(), second.Entity.ID, UpdateEntityInput{
			DocumentNumber:  first.Entity.DocumentNumber,
			FirstName:       "Juan",
			PaternalSurname: "Perez",
			MaternalSurname: "Garcia",
		})
		assert.Equal(t, dErrors.CodeConflict, dErrors.CodeOf(err))
	})

	t.Run("unknown entity is not found", func(t *testing.T) {
		svc := New(store.NewMemory(), &fakeProvisioner{})
		_, err := svc.UpdateEntity(testCtx(), id.NewEntityID(), UpdateEntityInput{})
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}

func TestDeactivateReactivate(t *testing.T) {
	svc := New(store.NewMemory(), &fakeProvisioner{})
	result, err := svc.CreateEntity(testCtx(), naturalInput())
	require.NoError(t, err)
	entityID := result.Entity.ID

	require.NoError(t, svc.DeactivateEntity(testCtx(), entityID))

	ok, err := svc.Exists(testCtx(), entityID)
	require.NoError(t, err)
	assert.False(t, ok, "deactivated entities do not exist for intake")

	entities, err := svc.ListEntities(testCtx())
	require.NoError(t, err)
	assert.Empty(t, entities, "listing skips inactive entities")

	// Reads by id still resolve for admin screens.
	entity, err := svc.GetEntity(testCtx(), entityID)
	require.NoError(t, err)
	assert.False(t, entity.Active)

	require.NoError(t, svc.ReactivateEntity(testCtx(), entityID))
	ok, err = svc.Exists(testCtx(), entityID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListEntities(t *testing.T) {
	svc := New(store.NewMemory(), &fakeProvisioner{})

	first, err := svc.CreateEntity(testCtx(), naturalInput())
	require.NoError(t, err)

	other := naturalInput()
	other.DocumentNumber = "87654321"
	second, err := svc.CreateEntity(testCtx(), other)
	require.NoError(t, err)

	entities, err := svc.ListEntities(testCtx())
	require.NoError(t, err)
	require.Len(t, entities, 2)
	// Newest first.
	assert.Equal(t, second.Entity.ID, entities[0].ID)
	assert.Equal(t, first.Entity.ID, entities[1].ID)
}
