package handler

import (
	"strings"

	"smarttalent/internal/intake/models"
	"smarttalent/internal/intake/service"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
)

// CreateRequestBody is the HTTP body for POST /requests: the full nested
// aggregate in one payload.
type CreateRequestBody struct {
	EntityID string       `json:"entityId"`
	People   []PersonBody `json:"people"`

	parsed service.CreateRequestInput
}

// PersonBody is one subject in a create payload.
type PersonBody struct {
	DNI       string         `json:"dni"`
	Fullname  string         `json:"fullname"`
	Phone     string         `json:"phone"`
	Documents []DocumentBody `json:"documents"`
}

// DocumentBody is one document in a create payload.
type DocumentBody struct {
	DocumentTypeID string         `json:"documentTypeId"`
	Name           string         `json:"name"`
	Resources      []ResourceBody `json:"resources"`
}

// ResourceBody is one resource in a create payload.
type ResourceBody struct {
	ResourceTypeID string `json:"resourceTypeId"`
	Name           string `json:"name"`
	Value          string `json:"value"`
}

// Validate parses the wire IDs into typed identifiers. Field-level rules
// (DNI length, phone format, taxonomy membership) belong to the service.
func (b *CreateRequestBody) Validate() error {
	entityID, err := id.ParseEntityID(b.EntityID)
	if err != nil {
		return err
	}
	if len(b.People) == 0 {
		return dErrors.New(dErrors.CodeValidation, "people is required and must not be empty")
	}

	input := service.CreateRequestInput{EntityID: entityID}
	for _, p := range b.People {
		person := service.PersonInput{DNI: p.DNI, Fullname: p.Fullname, Phone: p.Phone}
		for _, d := range p.Documents {
			documentTypeID, err := id.ParseDocumentTypeID(d.DocumentTypeID)
			if err != nil {
				return err
			}
			document := service.DocumentInput{DocumentTypeID: documentTypeID, Name: d.Name}
			for _, r := range d.Resources {
				resourceTypeID, err := id.ParseResourceTypeID(r.ResourceTypeID)
				if err != nil {
					return err
				}
				document.Resources = append(document.Resources, service.ResourceInput{
					ResourceTypeID: resourceTypeID,
					Name:           r.Name,
					Value:          r.Value,
				})
			}
			person.Documents = append(person.Documents, document)
		}
		input.People = append(input.People, person)
	}
	b.parsed = input
	return nil
}

// Parsed returns the validated service input.
func (b *CreateRequestBody) Parsed() service.CreateRequestInput { return b.parsed }

// BulkDocumentsBody is the HTTP body for PATCH /documents/bulk-update.
type BulkDocumentsBody struct {
	Updates []models.DocumentUpdate `json:"updates"`
}

// Validate requires a non-empty updates array. Per-entry problems surface as
// per-entry outcomes, never as a request failure.
func (b *BulkDocumentsBody) Validate() error {
	if len(b.Updates) == 0 {
		return dErrors.New(dErrors.CodeValidation, "an array of updates is required")
	}
	return nil
}

// BulkResourcesBody is the HTTP body for PATCH /resources/update-multiple.
type BulkResourcesBody struct {
	Resources []models.ResourceUpdate `json:"resources"`
}

func (b *BulkResourcesBody) Validate() error {
	if len(b.Resources) == 0 {
		return dErrors.New(dErrors.CodeValidation, "an array of resources is required")
	}
	return nil
}

// AssignRecruiterBody is the HTTP body for PATCH /requests/assign-recruiter.
type AssignRecruiterBody struct {
	RecruiterID string `json:"recruiterId"`
	PersonID    string `json:"personId"`

	recruiterID id.UserID
	personID    id.PersonID
}

func (b *AssignRecruiterBody) Validate() error {
	var err error
	if b.recruiterID, err = id.ParseUserID(b.RecruiterID); err != nil {
		return err
	}
	if b.personID, err = id.ParsePersonID(b.PersonID); err != nil {
		return err
	}
	return nil
}

// ObservationsBody is the HTTP body for PATCH /requests/give-observations.
type ObservationsBody struct {
	PersonID     string `json:"personId"`
	Observations string `json:"observations"`

	personID id.PersonID
}

func (b *ObservationsBody) Validate() error {
	var err error
	if b.personID, err = id.ParsePersonID(b.PersonID); err != nil {
		return err
	}
	if strings.TrimSpace(b.Observations) == "" {
		return dErrors.New(dErrors.CodeValidation, "observations text is required")
	}
	return nil
}

// UpdateStatusBody is the HTTP body for PATCH /requests/person/update-status.
type UpdateStatusBody struct {
	PersonID string `json:"personId"`
	Status   string `json:"status"`

	personID id.PersonID
	status   models.PersonStatus
}

func (b *UpdateStatusBody) Validate() error {
	var err error
	if b.personID, err = id.ParsePersonID(b.PersonID); err != nil {
		return err
	}
	b.status = models.PersonStatus(strings.ToUpper(strings.TrimSpace(b.Status)))
	if !models.ValidPersonStatus(b.status) {
		return dErrors.New(dErrors.CodeValidation, "invalid person status: "+b.Status)
	}
	return nil
}
