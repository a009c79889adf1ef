package handler

import (
	"net/mail"
	"strings"

	"smarttalent/internal/entity/models"
	"smarttalent/internal/entity/service"
	dErrors "smarttalent/pkg/domain-errors"
)

// CreateEntityBody is the HTTP body for POST /entities.
type CreateEntityBody struct {
	Type            string `json:"type"`
	DocumentNumber  string `json:"documentNumber"`
	FirstName       string `json:"firstName"`
	PaternalSurname string `json:"paternalSurname"`
	MaternalSurname string `json:"maternalSurname"`
	BusinessName    string `json:"businessName"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
}

func (b *CreateEntityBody) Validate() error {
	if !models.ValidEntityType(models.EntityType(b.Type)) {
		return dErrors.New(dErrors.CodeValidation, "type must be NATURAL or JURIDICA")
	}
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	if _, err := mail.ParseAddress(b.Email); err != nil {
		return dErrors.New(dErrors.CodeValidation, "email is not a valid address")
	}
	return nil
}

// Parsed converts the body to the service input.
func (b *CreateEntityBody) Parsed() service.CreateEntityInput {
	return service.CreateEntityInput{
		Type:            models.EntityType(b.Type),
		DocumentNumber:  b.DocumentNumber,
		FirstName:       b.FirstName,
		PaternalSurname: b.PaternalSurname,
		MaternalSurname: b.MaternalSurname,
		BusinessName:    b.BusinessName,
		Address:         b.Address,
		Phone:           b.Phone,
		Email:           b.Email,
	}
}

// UpdateEntityBody is the HTTP body for PUT /entities/{entityID}.
type UpdateEntityBody struct {
	DocumentNumber  string `json:"documentNumber"`
	FirstName       string `json:"firstName"`
	PaternalSurname string `json:"paternalSurname"`
	MaternalSurname string `json:"maternalSurname"`
	BusinessName    string `json:"businessName"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
}

func (b *UpdateEntityBody) Validate() error {
	if strings.TrimSpace(b.DocumentNumber) == "" {
		return dErrors.New(dErrors.CodeValidation, "documentNumber is required")
	}
	return nil
}

// Parsed converts the body to the service input.
func (b *UpdateEntityBody) Parsed() service.UpdateEntityInput {
	return service.UpdateEntityInput{
		DocumentNumber:  b.DocumentNumber,
		FirstName:       b.FirstName,
		PaternalSurname: b.PaternalSurname,
		MaternalSurname: b.MaternalSurname,
		BusinessName:    b.BusinessName,
		Address:         b.Address,
		Phone:           b.Phone,
	}
}
