package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func docsWith(statuses ...DocumentStatus) []*Document {
	documents := make([]*Document, len(statuses))
	for i, s := range statuses {
		documents[i] = &Document{Status: s}
	}
	return documents
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		documents []*Document
		want      PersonStatus
	}{
		{"no documents", nil, PersonStatusPending},
		{"all done", docsWith(DocumentStatusRealizado, DocumentStatusRealizado), PersonStatusCompleted},
		{"some done", docsWith(DocumentStatusRealizado, DocumentStatusPendiente), PersonStatusInProgress},
		{"none done", docsWith(DocumentStatusPendiente, DocumentStatusRechazado), PersonStatusPending},
		{"single done", docsWith(DocumentStatusRealizado), PersonStatusCompleted},
		{"rejected counts as not done", docsWith(DocumentStatusRechazado), PersonStatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.documents))
		})
	}
}

func TestEffectiveStatus(t *testing.T) {
	tests := []struct {
		name      string
		stored    PersonStatus
		documents []*Document
		want      PersonStatus
	}{
		{"derivation advances pending to in progress", PersonStatusPending,
			docsWith(DocumentStatusRealizado, DocumentStatusPendiente), PersonStatusInProgress},
		{"derivation advances to completed", PersonStatusInProgress,
			docsWith(DocumentStatusRealizado), PersonStatusCompleted},
		{"completed never regresses", PersonStatusCompleted,
			docsWith(DocumentStatusPendiente), PersonStatusCompleted},
		{"in progress never regresses to pending", PersonStatusInProgress,
			docsWith(DocumentStatusPendiente), PersonStatusInProgress},
		{"observed sticks even when all documents are done", PersonStatusObserved,
			docsWith(DocumentStatusRealizado), PersonStatusObserved},
		{"rejected sticks even when all documents are done", PersonStatusRejected,
			docsWith(DocumentStatusRealizado), PersonStatusRejected},
		{"pending with no documents stays pending", PersonStatusPending, nil, PersonStatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveStatus(tt.stored, tt.documents))
		})
	}
}

func TestValidPersonStatus(t *testing.T) {
	for _, s := range []PersonStatus{
		PersonStatusPending, PersonStatusInProgress, PersonStatusCompleted,
		PersonStatusRejected, PersonStatusObserved,
	} {
		assert.True(t, ValidPersonStatus(s), string(s))
	}
	assert.False(t, ValidPersonStatus("FINISHED"))
	assert.False(t, ValidPersonStatus(""))
	assert.False(t, ValidPersonStatus("pending"))
}

func TestValidSemaforo(t *testing.T) {
	for _, s := range []Semaforo{SemaforoPending, SemaforoClear, SemaforoWarning, SemaforoCritical} {
		assert.True(t, ValidSemaforo(s), string(s))
	}
	assert.False(t, ValidSemaforo("GREEN"))
	assert.False(t, ValidSemaforo(""))
}
