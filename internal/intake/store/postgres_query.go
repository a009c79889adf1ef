package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"smarttalent/internal/intake/models"
	id "smarttalent/pkg/domain"
	"smarttalent/pkg/platform/sentinel"
)

// Query serves the denormalized person read models.
type Query struct {
	pgBase
}

// ownerExpr renders the requester display name: business name for JURIDICA
// entities, the concatenated full name otherwise.
const ownerExpr = `CASE WHEN e.type = 'JURIDICA'
	THEN COALESCE(e.business_name, '')
	ELSE TRIM(CONCAT_WS(' ', e.first_name, e.paternal_surname, e.maternal_surname))
END`

// ListPeople returns persons matching the filter with owner name, documents,
// resources and assignment history attached. Status filters match the stored
// status; the view's effective status is recomputed from the documents.
func (s *Query) ListPeople(ctx context.Context, filter models.PersonFilter) ([]*models.PersonView, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = arg(string(status))
		}
		where = append(where, "p.status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if !filter.RecruiterID.IsNil() {
		where = append(where, `EXISTS (
			SELECT 1 FROM person_recruiters pr
			WHERE pr.person_id = p.id AND pr.user_id = `+arg(uuid.UUID(filter.RecruiterID))+`)`)
	}
	if !filter.EntityID.IsNil() {
		where = append(where, "req.entity_id = "+arg(uuid.UUID(filter.EntityID)))
	}

	query := `
		SELECT p.id, p.request_id, p.dni, p.fullname, COALESCE(p.phone, ''),
			p.status, p.observations, p.created_at, p.updated_at, ` + ownerExpr + `
		FROM persons p
		JOIN requests req ON p.request_id = req.id
		JOIN entities e ON req.entity_id = e.id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY p.created_at DESC, p.id"

	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select people: %w", err)
	}
	defer rows.Close()

	var views []*models.PersonView
	for rows.Next() {
		view, err := scanPersonView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person view: %w", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, view := range views {
		if err := s.decorate(ctx, view); err != nil {
			return nil, err
		}
	}
	return views, nil
}

// GetPerson returns one decorated person view.
func (s *Query) GetPerson(ctx context.Context, personID id.PersonID) (*models.PersonView, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT p.id, p.request_id, p.dni, p.fullname, COALESCE(p.phone, ''),
			p.status, p.observations, p.created_at, p.updated_at, `+ownerExpr+`
		FROM persons p
		JOIN requests req ON p.request_id = req.id
		JOIN entities e ON req.entity_id = e.id
		WHERE p.id = $1`,
		uuid.UUID(personID))

	view, err := scanPersonView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select person view: %w", err)
	}
	if err := s.decorate(ctx, view); err != nil {
		return nil, err
	}
	return view, nil
}

// decorate attaches the document/resource tree and assignment history, then
// recomputes the effective status from the documents.
func (s *Query) decorate(ctx context.Context, view *models.PersonView) error {
	documentViews, documents, err := s.loadDocumentViews(ctx, view.Person.ID)
	if err != nil {
		return err
	}
	view.Documents = documentViews

	assignments := Assignments{pgBase: s.pgBase}
	recruiters, err := assignments.ListByPerson(ctx, view.Person.ID)
	if err != nil {
		return err
	}
	view.Recruiters = recruiters

	view.Status = models.EffectiveStatus(view.Status, documents)
	return nil
}

// loadDocumentViews returns the person's documents decorated with their
// resources and each resource type's file constraints.
func (s *Query) loadDocumentViews(ctx context.Context, personID id.PersonID) ([]*models.DocumentView, []*models.Document, error) {
	documents := Documents{pgBase: s.pgBase}
	docs, err := documents.ListByPerson(ctx, personID)
	if err != nil {
		return nil, nil, err
	}
	if len(docs) == 0 {
		return nil, nil, nil
	}

	// Resource type file constraints for every resource under this person.
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT r.id, rt.allowed_file_types
		FROM resources r
		JOIN resource_types rt ON r.resource_type_id = rt.id
		JOIN documents d ON r.document_id = d.id
		WHERE d.person_id = $1`,
		uuid.UUID(personID))
	if err != nil {
		return nil, nil, fmt.Errorf("select resource file types: %w", err)
	}
	defer rows.Close()

	fileTypes := make(map[id.ResourceID][]string)
	for rows.Next() {
		var (
			rid uuid.UUID
			raw []byte
		)
		if err := rows.Scan(&rid, &raw); err != nil {
			return nil, nil, fmt.Errorf("scan resource file types: %w", err)
		}
		var types []string
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &types); err != nil {
				return nil, nil, fmt.Errorf("decode allowed file types: %w", err)
			}
		}
		fileTypes[id.ResourceID(rid)] = types
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	views := make([]*models.DocumentView, len(docs))
	for i, doc := range docs {
		view := &models.DocumentView{Document: *doc}
		for _, resource := range doc.Resources {
			view.Resources = append(view.Resources, &models.ResourceView{
				Resource:         *resource,
				AllowedFileTypes: fileTypes[resource.ID],
			})
		}
		views[i] = view
	}
	return views, docs, nil
}

func scanPersonView(row rowScanner) (*models.PersonView, error) {
	var (
		view   models.PersonView
		pid    uuid.UUID
		rid    uuid.UUID
		status string
	)
	err := row.Scan(&pid, &rid, &view.DNI, &view.Fullname, &view.Phone,
		&status, &view.Observations, &view.CreatedAt, &view.UpdatedAt, &view.Owner)
	if err != nil {
		return nil, err
	}
	view.Person.ID = id.PersonID(pid)
	view.Person.RequestID = id.RequestID(rid)
	view.Person.Status = models.PersonStatus(status)
	return &view, nil
}
