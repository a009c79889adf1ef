// Package store persists users and roles.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"smarttalent/internal/auth/models"
	"smarttalent/internal/platform/postgres"
	id "smarttalent/pkg/domain"
	"smarttalent/pkg/platform/sentinel"
	"smarttalent/pkg/platform/tx"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres is the database-backed user/role store.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates the Postgres-backed auth store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) q(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

const userColumns = `id, username, email, password_hash, active,
	entity_id, COALESCE(reset_token, ''), reset_token_expires, created_at, updated_at`

// CreateUser inserts a user row. A second active account on the same email
// trips the partial unique index and surfaces as a conflict.
func (s *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	entityID := uuid.NullUUID{UUID: uuid.UUID(user.EntityID), Valid: !user.EntityID.IsNil()}
	resetToken := sql.NullString{String: user.ResetToken, Valid: user.ResetToken != ""}
	resetExpires := sql.NullTime{Time: user.ResetTokenExpires, Valid: !user.ResetTokenExpires.IsZero()}

	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, active, entity_id, reset_token, reset_token_expires, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(user.ID), user.Username, user.Email, user.PasswordHash, user.Active,
		entityID, resetToken, resetExpires, user.CreatedAt, user.UpdatedAt)
	if postgres.IsUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindUserByID loads a user with roles.
func (s *Postgres) FindUserByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findUser(ctx, "id = $1", uuid.UUID(userID))
}

// FindUserByEmail loads a user with roles by lowercased email. Only active
// accounts resolve; deactivated ones are treated as absent.
func (s *Postgres) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "lower(email) = lower($1) AND active", strings.TrimSpace(email))
}

// FindUserByResetToken loads the user holding the given reset token.
func (s *Postgres) FindUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	return s.findUser(ctx, "reset_token = $1", token)
}

func (s *Postgres) findUser(ctx context.Context, where string, arg any) (*models.User, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+where, arg)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	if err := s.loadRoles(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser writes the mutable user fields.
func (s *Postgres) UpdateUser(ctx context.Context, user *models.User) error {
	resetToken := sql.NullString{String: user.ResetToken, Valid: user.ResetToken != ""}
	resetExpires := sql.NullTime{Time: user.ResetTokenExpires, Valid: !user.ResetTokenExpires.IsZero()}

	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, active = $5, reset_token = $6, reset_token_expires = $7, updated_at = $8
		WHERE id = $1`,
		uuid.UUID(user.ID), user.Username, user.Email, user.PasswordHash, user.Active,
		resetToken, resetExpires, user.UpdatedAt)
	if postgres.IsUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// AssignRole links a role to a user. Repeats are no-ops.
func (s *Postgres) AssignRole(ctx context.Context, userID id.UserID, roleID id.RoleID) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		uuid.UUID(userID), uuid.UUID(roleID))
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

// FindRoleByName resolves a role by its unique name.
func (s *Postgres) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, name, description, permissions FROM roles WHERE name = $1`, name)
	role, err := scanRole(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select role: %w", err)
	}
	return role, nil
}

// CreateRole inserts a role; duplicate names conflict.
func (s *Postgres) CreateRole(ctx context.Context, role *models.Role) error {
	permissions, err := json.Marshal(role.Permissions)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}
	_, err = s.q(ctx).ExecContext(ctx, `
		INSERT INTO roles (id, name, description, permissions) VALUES ($1, $2, $3, $4)`,
		uuid.UUID(role.ID), role.Name, role.Description, permissions)
	if postgres.IsUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (s *Postgres) loadRoles(ctx context.Context, user *models.User) error {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT r.id, r.name, r.description, r.permissions
		FROM user_roles ur
		JOIN roles r ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name`,
		uuid.UUID(user.ID))
	if err != nil {
		return fmt.Errorf("select user roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return fmt.Errorf("scan role: %w", err)
		}
		user.Roles = append(user.Roles, *role)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user         models.User
		uid          uuid.UUID
		entityID     uuid.NullUUID
		resetExpires sql.NullTime
	)
	err := row.Scan(&uid, &user.Username, &user.Email, &user.PasswordHash, &user.Active,
		&entityID, &user.ResetToken, &resetExpires, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.ID = id.UserID(uid)
	if entityID.Valid {
		user.EntityID = id.EntityID(entityID.UUID)
	}
	if resetExpires.Valid {
		user.ResetTokenExpires = resetExpires.Time
	}
	return &user, nil
}

func scanRole(row rowScanner) (*models.Role, error) {
	var (
		role models.Role
		rid  uuid.UUID
		raw  []byte
	)
	if err := row.Scan(&rid, &role.Name, &role.Description, &raw); err != nil {
		return nil, err
	}
	role.ID = id.RoleID(rid)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &role.Permissions); err != nil {
			return nil, fmt.Errorf("decode permissions: %w", err)
		}
	}
	return &role, nil
}
