package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"smarttalent/internal/taxonomy/models"
	id "smarttalent/pkg/domain"
	"smarttalent/pkg/platform/sentinel"
)

// Memory mirrors the Postgres catalog store for unit tests.
type Memory struct {
	mu            sync.RWMutex
	documentTypes map[id.DocumentTypeID]models.DocumentType
	resourceTypes map[id.ResourceTypeID]models.ResourceType
	associations  map[id.DocumentTypeID][]id.ResourceTypeID
}

// NewMemory creates an empty in-memory catalog store.
func NewMemory() *Memory {
	return &Memory{
		documentTypes: make(map[id.DocumentTypeID]models.DocumentType),
		resourceTypes: make(map[id.ResourceTypeID]models.ResourceType),
		associations:  make(map[id.DocumentTypeID][]id.ResourceTypeID),
	}
}

func (m *Memory) ListActive(_ context.Context) ([]*models.DocumentType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var types []*models.DocumentType
	for _, dt := range m.documentTypes {
		if !dt.IsActive {
			continue
		}
		types = append(types, m.withResourceTypesLocked(dt))
	}
	slices.SortFunc(types, func(a, b *models.DocumentType) int {
		return strings.Compare(a.Name, b.Name)
	})
	return types, nil
}

func (m *Memory) FindByID(_ context.Context, documentTypeID id.DocumentTypeID) (*models.DocumentType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dt, ok := m.documentTypes[documentTypeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return m.withResourceTypesLocked(dt), nil
}

func (m *Memory) FindDocumentTypeByName(_ context.Context, name string) (*models.DocumentType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, dt := range m.documentTypes {
		if dt.Name == name {
			found := dt
			found.ResourceTypes = nil
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (m *Memory) CreateDocumentType(_ context.Context, dt *models.DocumentType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.documentTypes {
		if existing.Name == dt.Name {
			return sentinel.ErrConflict
		}
	}
	stored := *dt
	stored.ResourceTypes = nil
	m.documentTypes[dt.ID] = stored
	return nil
}

func (m *Memory) FindResourceTypeByName(_ context.Context, name string) (*models.ResourceType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rt := range m.resourceTypes {
		if rt.Name == name {
			found := rt
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (m *Memory) CreateResourceType(_ context.Context, rt *models.ResourceType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.resourceTypes {
		if existing.Name == rt.Name {
			return sentinel.ErrConflict
		}
	}
	m.resourceTypes[rt.ID] = *rt
	return nil
}

func (m *Memory) Associate(_ context.Context, documentTypeID id.DocumentTypeID, resourceTypeID id.ResourceTypeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.associations[documentTypeID], resourceTypeID) {
		return nil
	}
	m.associations[documentTypeID] = append(m.associations[documentTypeID], resourceTypeID)
	return nil
}

func (m *Memory) withResourceTypesLocked(dt models.DocumentType) *models.DocumentType {
	out := dt
	out.ResourceTypes = nil
	for _, rtID := range m.associations[dt.ID] {
		if rt, ok := m.resourceTypes[rtID]; ok {
			out.ResourceTypes = append(out.ResourceTypes, &rt)
		}
	}
	slices.SortFunc(out.ResourceTypes, func(a, b *models.ResourceType) int {
		return strings.Compare(a.Name, b.Name)
	})
	return &out
}
