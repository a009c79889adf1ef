package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttalent/internal/recruitment/models"
	"smarttalent/internal/recruitment/store"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/requestcontext"
)

var frozen = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type stubEntities struct{ existing map[id.EntityID]bool }

func (s stubEntities) Exists(_ context.Context, entityID id.EntityID) (bool, error) {
	return s.existing[entityID], nil
}

func newRecruitmentFixture(t *testing.T) (*Service, id.EntityID) {
	t.Helper()
	entityID := id.NewEntityID()
	svc := New(store.NewMemory(), stubEntities{existing: map[id.EntityID]bool{entityID: true}})
	return svc, entityID
}

func testCtx() context.Context {
	return requestcontext.WithTime(context.Background(), frozen)
}

func validInput(entityID id.EntityID) CreateRecruitmentInput {
	return CreateRecruitmentInput{
		EntityID: entityID,
		Type:     models.TypeRegular,
		Profile: ProfileInput{
			PositionName:    "Analista de Sistemas",
			Area:            "TI",
			WorkLocation:    "Lima",
			WorkModality:    "HIBRIDO",
			ContractType:    "PLANILLA",
			SalaryRangeFrom: 3500,
			SalaryRangeTo:   5000,
			JobFunctions:    []string{"Desarrollo de aplicaciones", "Soporte a usuarios"},
		},
	}
}

func TestCreateRecruitment(t *testing.T) {
	t.Run("creates recruitment with its profile", func(t *testing.T) {
		svc, entityID := newRecruitmentFixture(t)
		callerID := id.NewUserID()
		ctx := requestcontext.WithUserID(testCtx(), callerID)

		recruitment, err := svc.CreateRecruitment(ctx, validInput(entityID))
		require.NoError(t, err)
		assert.Equal(t, models.StatePending, recruitment.State)
		assert.Equal(t, callerID, recruitment.CreatedBy)

		profile := recruitment.Profile
		require.NotNil(t, profile)
		assert.Equal(t, recruitment.ID, profile.RecruitmentID)
		assert.Equal(t, models.ProfileCompleted, profile.Status)
		assert.Equal(t, "Analista de Sistemas", profile.PositionName)
		assert.Equal(t, []string{"Desarrollo de aplicaciones", "Soporte a usuarios"}, profile.JobFunctions)

		stored, err := svc.GetRecruitment(ctx, recruitment.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.Profile)
		assert.Equal(t, profile.ID, stored.Profile.ID)
	})

	t.Run("anonymous caller leaves createdBy empty", func(t *testing.T) {
		svc, entityID := newRecruitmentFixture(t)
		recruitment, err := svc.CreateRecruitment(testCtx(), validInput(entityID))
		require.NoError(t, err)
		assert.True(t, recruitment.CreatedBy.IsNil())
	})

	t.Run("unknown entity is not found", func(t *testing.T) {
		svc, _ := newRecruitmentFixture(t)
		input := validInput(id.NewEntityID())
		_, err := svc.CreateRecruitment(testCtx(), input)
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		svc, entityID := newRecruitmentFixture(t)
		input := validInput(entityID)
		input.Type = "FREELANCE"
		_, err := svc.CreateRecruitment(testCtx(), input)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("missing position name rejected", func(t *testing.T) {
		svc, entityID := newRecruitmentFixture(t)
		input := validInput(entityID)
		input.Profile.PositionName = "  "
		_, err := svc.CreateRecruitment(testCtx(), input)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

func TestGetRecruitment(t *testing.T) {
	svc, _ := newRecruitmentFixture(t)
	_, err := svc.GetRecruitment(testCtx(), id.NewRecruitmentID())
	assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func TestListRecruitments(t *testing.T) {
	t.Run("filters by entity and state", func(t *testing.T) {
		svc, entityID := newRecruitmentFixture(t)

		first, err := svc.CreateRecruitment(testCtx(), validInput(entityID))
		require.NoError(t, err)
		second, err := svc.CreateRecruitment(testCtx(), validInput(entityID))
		require.NoError(t, err)

		_, err = svc.UpdateRecruitmentState(testCtx(), second.ID, models.StateInProgress)
		require.NoError(t, err)

		all, err := svc.ListRecruitments(testCtx(), models.RecruitmentFilter{EntityID: entityID})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		pending, err := svc.ListRecruitments(testCtx(), models.RecruitmentFilter{State: models.StatePending})
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, first.ID, pending[0].ID)
	})

	t.Run("unknown state filter rejected", func(t *testing.T) {
		svc, _ := newRecruitmentFixture(t)
		_, err := svc.ListRecruitments(testCtx(), models.RecruitmentFilter{State: "CERRADO"})
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

func TestUpdateRecruitmentState(t *testing.T) {
	svc, entityID := newRecruitmentFixture(t)
	recruitment, err := svc.CreateRecruitment(testCtx(), validInput(entityID))
	require.NoError(t, err)

	for _, state := range []models.RecruitmentState{
		models.StateObservation,
		models.StateInProgress,
		models.StateVerification,
		models.StateFinished,
	} {
		updated, err := svc.UpdateRecruitmentState(testCtx(), recruitment.ID, state)
		require.NoError(t, err, string(state))
		assert.Equal(t, state, updated.State)
	}

	_, err = svc.UpdateRecruitmentState(testCtx(), recruitment.ID, "CERRADO")
	assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))

	_, err = svc.UpdateRecruitmentState(testCtx(), id.NewRecruitmentID(), models.StateInProgress)
	assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
}
