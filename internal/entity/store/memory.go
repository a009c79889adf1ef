package store

import (
	"context"
	"sync"

	"smarttalent/internal/entity/models"
	id "smarttalent/pkg/domain"
	"smarttalent/pkg/platform/sentinel"
)

// Memory mirrors the Postgres entity store for unit tests.
type Memory struct {
	mu       sync.RWMutex
	entities map[id.EntityID]models.Entity
	order    []id.EntityID
}

// NewMemory creates an empty in-memory entity store.
func NewMemory() *Memory {
	return &Memory{entities: make(map[id.EntityID]models.Entity)}
}

func (m *Memory) Create(_ context.Context, entity *models.Entity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.entities {
		if existing.DocumentNumber == entity.DocumentNumber {
			return sentinel.ErrConflict
		}
	}
	m.entities[entity.ID] = *entity
	m.order = append(m.order, entity.ID)
	return nil
}

func (m *Memory) FindByID(_ context.Context, entityID id.EntityID) (*models.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entity, ok := m.entities[entityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &entity, nil
}

func (m *Memory) FindByDocumentNumber(_ context.Context, documentNumber string) (*models.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, entity := range m.entities {
		if entity.DocumentNumber == documentNumber {
			found := entity
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (m *Memory) Update(_ context.Context, entity *models.Entity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entities[entity.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for otherID, existing := range m.entities {
		if otherID != entity.ID && existing.DocumentNumber == entity.DocumentNumber {
			return sentinel.ErrConflict
		}
	}
	m.entities[entity.ID] = *entity
	return nil
}

func (m *Memory) List(_ context.Context, includeInactive bool) ([]*models.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Entity
	for i := len(m.order) - 1; i >= 0; i-- {
		entity := m.entities[m.order[i]]
		if !includeInactive && !entity.Active {
			continue
		}
		found := entity
		out = append(out, &found)
	}
	return out, nil
}

func (m *Memory) Exists(_ context.Context, entityID id.EntityID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entity, ok := m.entities[entityID]
	return ok && entity.Active, nil
}
