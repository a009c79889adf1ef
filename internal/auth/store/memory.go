package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"smarttalent/internal/auth/models"
	id "smarttalent/pkg/domain"
	"smarttalent/pkg/platform/sentinel"
)

// Memory mirrors the Postgres auth store for unit tests.
type Memory struct {
	mu        sync.RWMutex
	users     map[id.UserID]models.User
	roles     map[id.RoleID]models.Role
	userRoles map[id.UserID][]id.RoleID
}

// NewMemory creates an empty in-memory auth store.
func NewMemory() *Memory {
	return &Memory{
		users:     make(map[id.UserID]models.User),
		roles:     make(map[id.RoleID]models.Role),
		userRoles: make(map[id.UserID][]id.RoleID),
	}
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Active && strings.EqualFold(existing.Email, user.Email) && user.Active {
			return sentinel.ErrConflict
		}
	}
	stored := *user
	stored.Roles = nil
	m.users[user.ID] = stored
	return nil
}

func (m *Memory) FindUserByID(_ context.Context, userID id.UserID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return m.withRolesLocked(user), nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Active && strings.EqualFold(user.Email, strings.TrimSpace(email)) {
			return m.withRolesLocked(user), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (m *Memory) FindUserByResetToken(_ context.Context, token string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if token == "" {
		return nil, sentinel.ErrNotFound
	}
	for _, user := range m.users {
		if user.ResetToken == token {
			return m.withRolesLocked(user), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (m *Memory) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return sentinel.ErrNotFound
	}
	stored := *user
	stored.Roles = nil
	m.users[user.ID] = stored
	return nil
}

func (m *Memory) AssignRole(_ context.Context, userID id.UserID, roleID id.RoleID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.userRoles[userID], roleID) {
		m.userRoles[userID] = append(m.userRoles[userID], roleID)
	}
	return nil
}

func (m *Memory) FindRoleByName(_ context.Context, name string) (*models.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, role := range m.roles {
		if role.Name == name {
			found := role
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (m *Memory) CreateRole(_ context.Context, role *models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.roles {
		if existing.Name == role.Name {
			return sentinel.ErrConflict
		}
	}
	m.roles[role.ID] = *role
	return nil
}

func (m *Memory) withRolesLocked(user models.User) *models.User {
	out := user
	out.Roles = nil
	for _, roleID := range m.userRoles[user.ID] {
		if role, ok := m.roles[roleID]; ok {
			out.Roles = append(out.Roles, role)
		}
	}
	slices.SortFunc(out.Roles, func(a, b models.Role) int {
		return strings.Compare(a.Name, b.Name)
	})
	return &out
}
