package store

import (
	"context"
	"sync"

	"smarttalent/internal/recruitment/models"
	id "smarttalent/pkg/domain"
	"smarttalent/pkg/platform/sentinel"
)

// Memory mirrors the Postgres recruitment store for unit tests.
type Memory struct {
	mu           sync.RWMutex
	recruitments map[id.RecruitmentID]models.Recruitment
	profiles     map[id.RecruitmentID]models.JobProfile
	order        []id.RecruitmentID
}

// NewMemory creates an empty in-memory recruitment store.
func NewMemory() *Memory {
	return &Memory{
		recruitments: make(map[id.RecruitmentID]models.Recruitment),
		profiles:     make(map[id.RecruitmentID]models.JobProfile),
	}
}

func (m *Memory) Create(_ context.Context, recruitment *models.Recruitment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *recruitment
	stored.Profile = nil
	m.recruitments[recruitment.ID] = stored
	m.order = append(m.order, recruitment.ID)
	return nil
}

func (m *Memory) CreateProfile(_ context.Context, profile *models.JobProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.RecruitmentID] = *profile
	return nil
}

func (m *Memory) FindByID(_ context.Context, recruitmentID id.RecruitmentID) (*models.Recruitment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recruitment, ok := m.recruitments[recruitmentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return m.withProfileLocked(recruitment), nil
}

func (m *Memory) Update(_ context.Context, recruitment *models.Recruitment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recruitments[recruitment.ID]; !ok {
		return sentinel.ErrNotFound
	}
	stored := *recruitment
	stored.Profile = nil
	m.recruitments[recruitment.ID] = stored
	return nil
}

func (m *Memory) List(_ context.Context, filter models.RecruitmentFilter) ([]*models.Recruitment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Recruitment
	for i := len(m.order) - 1; i >= 0; i-- {
		recruitment := m.recruitments[m.order[i]]
		if !filter.EntityID.IsNil() && recruitment.EntityID != filter.EntityID {
			continue
		}
		if filter.State != "" && recruitment.State != filter.State {
			continue
		}
		out = append(out, m.withProfileLocked(recruitment))
	}
	return out, nil
}

func (m *Memory) withProfileLocked(recruitment models.Recruitment) *models.Recruitment {
	out := recruitment
	if profile, ok := m.profiles[recruitment.ID]; ok {
		found := profile
		out.Profile = &found
	}
	return &out
}
