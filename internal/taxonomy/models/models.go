// Package models defines the intake form taxonomy: document types and the
// resource slots each one declares.
package models

import (
	"strings"

	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
)

// ResourceType declares one input slot for a document: what it holds, whether
// intake must provide it, and the file constraints clients enforce upfront.
type ResourceType struct {
	ID               id.ResourceTypeID `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	IsRequired       bool              `json:"isRequired"`
	MaxFileSize      int64             `json:"maxFileSize"`
	AllowedFileTypes []string          `json:"allowedFileTypes"`
}

// NewResourceType constructs a resource type.
func NewResourceType(name, description string, required bool, maxFileSize int64, allowedFileTypes []string) (*ResourceType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "resource type name is required")
	}
	if maxFileSize < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "resource type max file size must not be negative")
	}
	return &ResourceType{
		ID:               id.NewResourceTypeID(),
		Name:             name,
		Description:      description,
		IsRequired:       required,
		MaxFileSize:      maxFileSize,
		AllowedFileTypes: allowedFileTypes,
	}, nil
}

// DocumentType is one kind of verification document, with the resource types
// associated to it.
type DocumentType struct {
	ID            id.DocumentTypeID `json:"id"`
	Name          string            `json:"name"`
	IsActive      bool              `json:"isActive"`
	ResourceTypes []*ResourceType   `json:"resourceTypes,omitempty"`
}

// NewDocumentType constructs an active document type.
func NewDocumentType(name string) (*DocumentType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "document type name is required")
	}
	return &DocumentType{
		ID:       id.NewDocumentTypeID(),
		Name:     name,
		IsActive: true,
	}, nil
}
