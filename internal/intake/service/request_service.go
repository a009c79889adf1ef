package service

import (
	"context"
	"errors"
	"time"

	"smarttalent/internal/intake/models"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/sentinel"
	"smarttalent/pkg/requestcontext"
)

// CreateRequestInput is the full nested aggregate payload.
type CreateRequestInput struct {
	EntityID id.EntityID
	People   []PersonInput
}

// PersonInput is one subject within a new request.
type PersonInput struct {
	DNI       string
	Fullname  string
	Phone     string
	Documents []DocumentInput
}

// DocumentInput is one document within a new person.
type DocumentInput struct {
	DocumentTypeID id.DocumentTypeID
	Name           string
	Resources      []ResourceInput
}

// ResourceInput is one resource within a new document.
type ResourceInput struct {
	ResourceTypeID id.ResourceTypeID
	Name           string
	Value          string
}

// CreateRequest creates a request with its persons, documents and resources
// in a single transaction. Every document is validated against the taxonomy:
// the document type must exist and be active, each resource must reference a
// resource type associated with that document type, and every required
// resource type must be provided. Any failure rolls the whole aggregate back.
func (s *Service) CreateRequest(ctx context.Context, input CreateRequestInput) (*models.Request, error) {
	ctx, span := s.tracer.Start(ctx, "intake.CreateRequest")
	defer span.End()

	if len(input.People) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "request requires at least one person")
	}

	now := requestcontext.Now(ctx)
	start := now
	var request *models.Request

	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		ok, err := s.entities.Exists(ctx, input.EntityID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "checking entity")
		}
		if !ok {
			return dErrors.New(dErrors.CodeNotFound, "entity not found")
		}

		request, err = models.NewRequest(input.EntityID, now)
		if err != nil {
			return err
		}
		if err := s.stores.Requests.Create(ctx, request); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "creating request")
		}

		for _, pi := range input.People {
			person, err := models.NewPerson(request.ID, pi.DNI, pi.Fullname, pi.Phone, now)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeValidation, "invalid person "+pi.DNI)
			}
			if err := s.stores.Persons.Create(ctx, person); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "creating person")
			}

			for _, di := range pi.Documents {
				document, err := s.createDocument(ctx, person.ID, di, now)
				if err != nil {
					return err
				}
				person.Documents = append(person.Documents, document)
			}
			request.Persons = append(request.Persons, person)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RequestsCreated.Inc()
		s.metrics.ObserveCreateRequest(start)
	}
	s.log().InfoContext(ctx, "request created",
		"request_id", request.ID,
		"entity_id", request.EntityID,
		"persons", len(request.Persons))
	return request, nil
}

// createDocument validates one document input against the taxonomy and
// persists it with its resources. Runs inside the aggregate transaction.
func (s *Service) createDocument(ctx context.Context, personID id.PersonID, input DocumentInput, now time.Time) (*models.Document, error) {
	docType, err := s.taxonomy.GetDocumentType(ctx, input.DocumentTypeID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown document type: "+input.DocumentTypeID.String())
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolving document type")
	}
	if !docType.Active {
		return nil, dErrors.New(dErrors.CodeValidation, "document type is inactive: "+docType.Name)
	}

	allowed := make(map[id.ResourceTypeID]bool, len(docType.ResourceTypes))
	required := make(map[id.ResourceTypeID]string)
	for _, rt := range docType.ResourceTypes {
		allowed[rt.ID] = true
		if rt.Required {
			required[rt.ID] = rt.Name
		}
	}

	document, err := models.NewDocument(personID, input.DocumentTypeID, input.Name, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid document")
	}
	if err := s.stores.Documents.Create(ctx, document); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "creating document")
	}

	for _, ri := range input.Resources {
		if !allowed[ri.ResourceTypeID] {
			return nil, dErrors.New(dErrors.CodeValidation,
				"resource type "+ri.ResourceTypeID.String()+" is not associated with document type "+docType.Name)
		}
		resource, err := models.NewResource(document.ID, ri.ResourceTypeID, ri.Name, ri.Value, now)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid resource")
		}
		if err := s.stores.Resources.Create(ctx, resource); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "creating resource")
		}
		document.Resources = append(document.Resources, resource)
		delete(required, ri.ResourceTypeID)
	}

	for _, name := range required {
		return nil, dErrors.New(dErrors.CodeValidation,
			"document type "+docType.Name+" requires resource "+name)
	}
	return document, nil
}

// DeleteRequest removes a PENDING request and everything under it, returning
// a report of how much was cascaded away. Non-PENDING requests are refused.
func (s *Service) DeleteRequest(ctx context.Context, requestID id.RequestID) (*models.DeletionReport, error) {
	ctx, span := s.tracer.Start(ctx, "intake.DeleteRequest")
	defer span.End()

	var report *models.DeletionReport
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		request, err := s.stores.Requests.FindByID(ctx, requestID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "request not found")
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "loading request")
		}
		if err := request.CanDelete(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "request is not deletable")
		}

		persons, documents, resources, err := s.stores.Requests.CountTree(ctx, requestID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "counting request tree")
		}
		if err := s.stores.Requests.DeleteCascade(ctx, requestID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "deleting request")
		}

		report = &models.DeletionReport{
			RequestID:        requestID,
			EntityID:         request.EntityID,
			PersonsDeleted:   persons,
			DocumentsDeleted: documents,
			ResourcesDeleted: resources,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RequestsDeleted.Inc()
	}
	s.audit(ctx, "REQUEST_DELETED", id.PersonID{}, report.RequestID.String())
	s.log().InfoContext(ctx, "request deleted",
		"request_id", report.RequestID,
		"persons_deleted", report.PersonsDeleted,
		"documents_deleted", report.DocumentsDeleted,
		"resources_deleted", report.ResourcesDeleted)
	return report, nil
}
