// Package store persists recruitments and job profiles in Postgres.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"smarttalent/internal/recruitment/models"
	id "smarttalent/pkg/domain"
	"smarttalent/pkg/platform/sentinel"
	"smarttalent/pkg/platform/tx"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres stores recruitments. Participates in a caller's transaction when
// one is in the context.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates the recruitment store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) q(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return p.db
}

func (p *Postgres) Create(ctx context.Context, recruitment *models.Recruitment) error {
	_, err := p.q(ctx).ExecContext(ctx, `
		INSERT INTO recruitments (id, entity_id, type, state, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(recruitment.ID), uuid.UUID(recruitment.EntityID),
		string(recruitment.Type), string(recruitment.State),
		nullableID(uuid.UUID(recruitment.CreatedBy)),
		recruitment.CreatedAt, recruitment.UpdatedAt)
	return err
}

func (p *Postgres) CreateProfile(ctx context.Context, profile *models.JobProfile) error {
	functions, err := json.Marshal(profile.JobFunctions)
	if err != nil {
		return err
	}
	_, err = p.q(ctx).ExecContext(ctx, `
		INSERT INTO job_profiles (id, recruitment_id, entity_id, position_name, area,
			work_location, work_modality, contract_type, salary_range_from, salary_range_to,
			job_functions, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''),
			NULLIF($9, 0), NULLIF($10, 0), $11, $12, $13, $14, $15)`,
		uuid.UUID(profile.ID), uuid.UUID(profile.RecruitmentID), uuid.UUID(profile.EntityID),
		profile.PositionName, profile.Area, profile.WorkLocation, profile.WorkModality,
		profile.ContractType, profile.SalaryRangeFrom, profile.SalaryRangeTo,
		functions, string(profile.Status),
		nullableID(uuid.UUID(profile.CreatedBy)),
		profile.CreatedAt, profile.UpdatedAt)
	return err
}

func (p *Postgres) FindByID(ctx context.Context, recruitmentID id.RecruitmentID) (*models.Recruitment, error) {
	row := p.q(ctx).QueryRowContext(ctx, `
		SELECT id, entity_id, type, state, created_by, created_at, updated_at
		FROM recruitments WHERE id = $1`, uuid.UUID(recruitmentID))
	recruitment, err := scanRecruitment(row)
	if err != nil {
		return nil, err
	}
	profile, err := p.findProfile(ctx, recruitment.ID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}
	recruitment.Profile = profile
	return recruitment, nil
}

func (p *Postgres) Update(ctx context.Context, recruitment *models.Recruitment) error {
	res, err := p.q(ctx).ExecContext(ctx, `
		UPDATE recruitments SET state = $2, updated_at = $3 WHERE id = $1`,
		uuid.UUID(recruitment.ID), string(recruitment.State), recruitment.UpdatedAt)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (p *Postgres) List(ctx context.Context, filter models.RecruitmentFilter) ([]*models.Recruitment, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if !filter.EntityID.IsNil() {
		conds = append(conds, "entity_id = "+arg(uuid.UUID(filter.EntityID)))
	}
	if filter.State != "" {
		conds = append(conds, "state = "+arg(string(filter.State)))
	}

	query := `SELECT id, entity_id, type, state, created_by, created_at, updated_at FROM recruitments`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := p.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Recruitment
	byID := make(map[id.RecruitmentID]*models.Recruitment)
	for rows.Next() {
		recruitment, err := scanRecruitment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, recruitment)
		byID[recruitment.ID] = recruitment
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	return out, p.attachProfiles(ctx, byID)
}

func (p *Postgres) findProfile(ctx context.Context, recruitmentID id.RecruitmentID) (*models.JobProfile, error) {
	row := p.q(ctx).QueryRowContext(ctx,
		profileSelect+` WHERE recruitment_id = $1`, uuid.UUID(recruitmentID))
	return scanProfile(row)
}

func (p *Postgres) attachProfiles(ctx context.Context, byID map[id.RecruitmentID]*models.Recruitment) error {
	ids := make([]any, 0, len(byID))
	placeholders := make([]string, 0, len(byID))
	for recruitmentID := range byID {
		ids = append(ids, uuid.UUID(recruitmentID))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(ids)))
	}

	rows, err := p.q(ctx).QueryContext(ctx,
		profileSelect+` WHERE recruitment_id IN (`+strings.Join(placeholders, ", ")+`)`, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return err
		}
		if recruitment, ok := byID[profile.RecruitmentID]; ok {
			recruitment.Profile = profile
		}
	}
	return rows.Err()
}

const profileSelect = `
	SELECT id, recruitment_id, entity_id, position_name,
		COALESCE(area, ''), COALESCE(work_location, ''), COALESCE(work_modality, ''),
		COALESCE(contract_type, ''), COALESCE(salary_range_from, 0), COALESCE(salary_range_to, 0),
		job_functions, status, created_by, created_at, updated_at
	FROM job_profiles`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecruitment(row rowScanner) (*models.Recruitment, error) {
	var (
		recruitment     models.Recruitment
		recruitmentID   uuid.UUID
		entityID        uuid.UUID
		recruitmentType string
		state           string
		createdBy       uuid.NullUUID
	)
	err := row.Scan(&recruitmentID, &entityID, &recruitmentType, &state,
		&createdBy, &recruitment.CreatedAt, &recruitment.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	recruitment.ID = id.RecruitmentID(recruitmentID)
	recruitment.EntityID = id.EntityID(entityID)
	recruitment.Type = models.RecruitmentType(recruitmentType)
	recruitment.State = models.RecruitmentState(state)
	if createdBy.Valid {
		recruitment.CreatedBy = id.UserID(createdBy.UUID)
	}
	return &recruitment, nil
}

func scanProfile(row rowScanner) (*models.JobProfile, error) {
	var (
		profile       models.JobProfile
		profileID     uuid.UUID
		recruitmentID uuid.UUID
		entityID      uuid.UUID
		functions     []byte
		status        string
		createdBy     uuid.NullUUID
	)
	err := row.Scan(&profileID, &recruitmentID, &entityID, &profile.PositionName,
		&profile.Area, &profile.WorkLocation, &profile.WorkModality,
		&profile.ContractType, &profile.SalaryRangeFrom, &profile.SalaryRangeTo,
		&functions, &status, &createdBy, &profile.CreatedAt, &profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	profile.ID = id.ProfileID(profileID)
	profile.RecruitmentID = id.RecruitmentID(recruitmentID)
	profile.EntityID = id.EntityID(entityID)
	profile.Status = models.ProfileStatus(status)
	if createdBy.Valid {
		profile.CreatedBy = id.UserID(createdBy.UUID)
	}
	if err := json.Unmarshal(functions, &profile.JobFunctions); err != nil {
		return nil, fmt.Errorf("decode job functions: %w", err)
	}
	return &profile, nil
}

func nullableID(u uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: u, Valid: u != uuid.Nil}
}
