//go:build integration

package store_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"smarttalent/internal/intake/models"
	"smarttalent/internal/intake/service"
	"smarttalent/internal/intake/store"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/sentinel"
	"smarttalent/pkg/platform/tx"
	"smarttalent/pkg/testutil/containers"
)

// The suite drives the intake service through the real Postgres stores and
// the SQL transaction runner, so rollback and cascade behavior is exercised
// against actual transactions rather than the memory doubles.
type IntakePostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	stores   *store.Postgres

	entityID    id.EntityID
	recruiterID id.UserID
	docTypeID   id.DocumentTypeID
	resTypeID   id.ResourceTypeID
}

func TestIntakePostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(IntakePostgresSuite))
}

func (s *IntakePostgresSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.stores = store.NewPostgres(s.postgres.DB)
}

func (s *IntakePostgresSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "entities", "document_types", "resource_types", "users")
	s.Require().NoError(err)

	s.entityID = id.NewEntityID()
	s.recruiterID = id.NewUserID()
	s.docTypeID = id.NewDocumentTypeID()
	s.resTypeID = id.NewResourceTypeID()

	_, err = s.postgres.DB.ExecContext(ctx, `
		INSERT INTO entities (id, type, document_number, business_name, active, created_at, updated_at)
		VALUES ($1, 'JURIDICA', $2, 'ACME SAC', TRUE, now(), now())`,
		uuid.UUID(s.entityID), uuid.NewString()[:11])
	s.Require().NoError(err)

	_, err = s.postgres.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, active, created_at, updated_at)
		VALUES ($1, 'mlopez', 'mlopez@smarttalent.pe', 'x', TRUE, now(), now())`,
		uuid.UUID(s.recruiterID))
	s.Require().NoError(err)

	_, err = s.postgres.DB.ExecContext(ctx,
		`INSERT INTO document_types (id, name, is_active) VALUES ($1, 'Antecedentes Penales', TRUE)`,
		uuid.UUID(s.docTypeID))
	s.Require().NoError(err)

	_, err = s.postgres.DB.ExecContext(ctx,
		`INSERT INTO resource_types (id, name, is_required) VALUES ($1, 'Certificado PDF', TRUE)`,
		uuid.UUID(s.resTypeID))
	s.Require().NoError(err)
}

type pgEntities struct{ existing map[id.EntityID]bool }

func (d pgEntities) Exists(_ context.Context, entityID id.EntityID) (bool, error) {
	return d.existing[entityID], nil
}

type pgRecruiters struct{ known map[id.UserID]*service.RecruiterInfo }

func (d pgRecruiters) FindRecruiter(_ context.Context, userID id.UserID) (*service.RecruiterInfo, error) {
	recruiter, ok := d.known[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return recruiter, nil
}

type pgTaxonomy struct{ types map[id.DocumentTypeID]*service.DocumentTypeInfo }

func (d pgTaxonomy) GetDocumentType(_ context.Context, documentTypeID id.DocumentTypeID) (*service.DocumentTypeInfo, error) {
	docType, ok := d.types[documentTypeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return docType, nil
}

// newService wires the intake service over the Postgres stores. resourceTypes
// lets a test advertise a resource type the database does not hold, to force
// a failure partway through the aggregate.
func (s *IntakePostgresSuite) newService(resourceTypes ...service.ResourceTypeInfo) *service.Service {
	if len(resourceTypes) == 0 {
		resourceTypes = []service.ResourceTypeInfo{{ID: s.resTypeID, Name: "Certificado PDF", Required: true}}
	}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return service.New(
		service.Stores{
			Requests:    s.stores.Requests,
			Persons:     s.stores.Persons,
			Documents:   s.stores.Documents,
			Resources:   s.stores.Resources,
			Assignments: s.stores.Assignments,
			Query:       s.stores.Query,
		},
		pgEntities{existing: map[id.EntityID]bool{s.entityID: true}},
		pgRecruiters{known: map[id.UserID]*service.RecruiterInfo{
			s.recruiterID: {ID: s.recruiterID, Username: "mlopez", Email: "mlopez@smarttalent.pe"},
		}},
		pgTaxonomy{types: map[id.DocumentTypeID]*service.DocumentTypeInfo{
			s.docTypeID: {
				ID:            s.docTypeID,
				Name:          "Antecedentes Penales",
				Active:        true,
				ResourceTypes: resourceTypes,
			},
		}},
		service.WithTxRunner(tx.NewSQLRunner(s.postgres.DB)),
		service.WithLogger(logger),
	)
}

func (s *IntakePostgresSuite) createInput(documents int) service.CreateRequestInput {
	person := service.PersonInput{DNI: "12345678", Fullname: "Juan Perez", Phone: "+51987654321"}
	for i := 0; i < documents; i++ {
		person.Documents = append(person.Documents, service.DocumentInput{
			DocumentTypeID: s.docTypeID,
			Name:           "Antecedentes Penales",
			Resources: []service.ResourceInput{
				{ResourceTypeID: s.resTypeID, Name: "Certificado PDF", Value: "pending-upload"},
			},
		})
	}
	return service.CreateRequestInput{EntityID: s.entityID, People: []service.PersonInput{person}}
}

func (s *IntakePostgresSuite) countRows(table string) int {
	var n int
	err := s.postgres.DB.QueryRowContext(context.Background(), "SELECT count(*) FROM "+table).Scan(&n)
	s.Require().NoError(err)
	return n
}

func (s *IntakePostgresSuite) TestCreateRequestCommits() {
	svc := s.newService()
	request, err := svc.CreateRequest(context.Background(), s.createInput(1))
	s.Require().NoError(err)

	s.Equal(1, s.countRows("requests"))
	s.Equal(1, s.countRows("persons"))
	s.Equal(1, s.countRows("documents"))
	s.Equal(1, s.countRows("resources"))

	stored, err := s.stores.Requests.FindByID(context.Background(), request.ID)
	s.Require().NoError(err)
	s.Equal(models.RequestStatusPending, stored.Status)
}

// A resource type the taxonomy advertises but the database does not hold
// makes the final resource insert fail its foreign key, after the request,
// person and document rows were already written inside the transaction.
func (s *IntakePostgresSuite) TestCreateRequestRollsBackOnLastResource() {
	ghostResType := id.NewResourceTypeID()
	svc := s.newService(
		service.ResourceTypeInfo{ID: s.resTypeID, Name: "Certificado PDF", Required: true},
		service.ResourceTypeInfo{ID: ghostResType, Name: "Huella Digital"},
	)

	input := s.createInput(1)
	input.People[0].Documents[0].Resources = append(input.People[0].Documents[0].Resources,
		service.ResourceInput{ResourceTypeID: ghostResType, Name: "Huella Digital", Value: "x"})

	_, err := svc.CreateRequest(context.Background(), input)
	s.Require().Error(err)
	s.Equal(dErrors.CodeInternal, dErrors.CodeOf(err))

	s.Zero(s.countRows("requests"), "no partial request row survives")
	s.Zero(s.countRows("persons"))
	s.Zero(s.countRows("documents"))
	s.Zero(s.countRows("resources"))
}

func (s *IntakePostgresSuite) TestFilenameCascadeCompletesPerson() {
	ctx := context.Background()
	svc := s.newService()
	request, err := svc.CreateRequest(ctx, s.createInput(2))
	s.Require().NoError(err)
	person := request.Persons[0]
	s.Require().Len(person.Documents, 2)

	first := "certificado-penales.pdf"
	results, err := svc.UpdateDocuments(ctx, []models.DocumentUpdate{
		{ID: person.Documents[0].ID, Filename: &first},
	})
	s.Require().NoError(err)
	s.Equal(models.OutcomeUpdated, results[0].Status)

	stored, err := s.stores.Persons.FindByID(ctx, person.ID)
	s.Require().NoError(err)
	s.Equal(models.PersonStatusPending, stored.Status, "one of two documents does not complete the person")

	second := "certificado-judiciales.pdf"
	results, err = svc.UpdateDocuments(ctx, []models.DocumentUpdate{
		{ID: person.Documents[1].ID, Filename: &second},
	})
	s.Require().NoError(err)
	s.Equal(models.OutcomeUpdated, results[0].Status)

	stored, err = s.stores.Persons.FindByID(ctx, person.ID)
	s.Require().NoError(err)
	s.Equal(models.PersonStatusCompleted, stored.Status, "completion is materialized, not just derived")

	documents, err := s.stores.Documents.ListByPerson(ctx, person.ID)
	s.Require().NoError(err)
	for _, document := range documents {
		s.Equal(models.DocumentStatusRealizado, document.Status)
	}
}

func (s *IntakePostgresSuite) TestAssignRecruiterPersists() {
	ctx := context.Background()
	svc := s.newService()
	request, err := svc.CreateRequest(ctx, s.createInput(1))
	s.Require().NoError(err)
	personID := request.Persons[0].ID

	assignment, err := svc.AssignRecruiter(ctx, personID, s.recruiterID)
	s.Require().NoError(err)
	s.Equal(models.PersonStatusInProgress, assignment.NewStatus)
	s.Equal(1, s.countRows("person_recruiters"))

	_, err = svc.AssignRecruiter(ctx, personID, s.recruiterID)
	s.Equal(dErrors.CodeConflict, dErrors.CodeOf(err), "reassigning the same recruiter conflicts")
	s.Equal(1, s.countRows("person_recruiters"))
}

func (s *IntakePostgresSuite) TestDeleteRequestCascades() {
	ctx := context.Background()
	svc := s.newService()
	request, err := svc.CreateRequest(ctx, s.createInput(2))
	s.Require().NoError(err)

	report, err := svc.DeleteRequest(ctx, request.ID)
	s.Require().NoError(err)
	s.Equal(1, report.PersonsDeleted)
	s.Equal(2, report.DocumentsDeleted)
	s.Equal(2, report.ResourcesDeleted)

	s.Zero(s.countRows("requests"))
	s.Zero(s.countRows("persons"))
	s.Zero(s.countRows("documents"))
	s.Zero(s.countRows("resources"))

	_, err = s.stores.Requests.FindByID(ctx, request.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
