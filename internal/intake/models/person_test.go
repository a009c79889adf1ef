package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "smarttalent/pkg/domain"
)

func TestNewPerson(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	requestID := id.NewRequestID()

	t.Run("valid", func(t *testing.T) {
		person, err := NewPerson(requestID, "12345678", "Juan Perez", "+51987654321", now)
		require.NoError(t, err)
		assert.Equal(t, PersonStatusPending, person.Status)
		assert.Equal(t, "12345678", person.DNI)
		assert.False(t, person.ID.IsNil())
	})

	t.Run("phone is optional", func(t *testing.T) {
		_, err := NewPerson(requestID, "12345678", "Juan Perez", "", now)
		assert.NoError(t, err)
	})

	t.Run("requires owning request", func(t *testing.T) {
		_, err := NewPerson(id.RequestID{}, "12345678", "Juan Perez", "", now)
		assert.Error(t, err)
	})

	t.Run("dni too short", func(t *testing.T) {
		_, err := NewPerson(requestID, "1234567", "Juan Perez", "", now)
		assert.Error(t, err)
	})

	t.Run("dni too long", func(t *testing.T) {
		_, err := NewPerson(requestID, "1234567890123", "Juan Perez", "", now)
		assert.Error(t, err)
	})

	t.Run("fullname required", func(t *testing.T) {
		_, err := NewPerson(requestID, "12345678", "  ", "", now)
		assert.Error(t, err)
	})

	t.Run("malformed phone rejected", func(t *testing.T) {
		_, err := NewPerson(requestID, "12345678", "Juan Perez", "not-a-phone", now)
		assert.Error(t, err)
	})
}

func TestPersonTransitions(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	person, err := NewPerson(id.NewRequestID(), "12345678", "Juan Perez", "", now)
	require.NoError(t, err)

	person.ApplyAssignment(later)
	assert.Equal(t, PersonStatusInProgress, person.Status)
	assert.Equal(t, later, person.UpdatedAt)

	person.ApplyObservation("falta huella digital", later)
	assert.Equal(t, PersonStatusObserved, person.Status)
	assert.Equal(t, "falta huella digital", person.Observations)

	require.NoError(t, person.ApplyStatus(PersonStatusRejected, later))
	assert.Equal(t, PersonStatusRejected, person.Status)

	assert.Error(t, person.ApplyStatus("ARCHIVED", later))
	assert.Equal(t, PersonStatusRejected, person.Status, "failed transition must not mutate")
}

func TestRequestCanDelete(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	request, err := NewRequest(id.NewEntityID(), now)
	require.NoError(t, err)
	assert.NoError(t, request.CanDelete())

	request.Status = RequestStatusInProgress
	assert.Error(t, request.CanDelete())

	request.Status = RequestStatusCompleted
	assert.Error(t, request.CanDelete())
}
