package models

import (
	"strings"
	"time"

	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
)

// Document is one verification artifact for a person, typed by the taxonomy.
//
// Invariant: a non-empty Filename forces Status to Realizado; uploading the
// artifact is what completes the check.
type Document struct {
	ID             id.DocumentID     `json:"id"`
	PersonID       id.PersonID       `json:"personId"`
	DocumentTypeID id.DocumentTypeID `json:"documentTypeId"`
	Name           string            `json:"name"`
	Result         string            `json:"result,omitempty"`
	Filename       string            `json:"filename,omitempty"`
	Status         DocumentStatus    `json:"status"`
	Semaforo       Semaforo          `json:"semaforo"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`

	// Resources is populated on aggregate reads and after creation.
	Resources []*Resource `json:"resources,omitempty"`
}

// NewDocument constructs a pending document for personID.
func NewDocument(personID id.PersonID, documentTypeID id.DocumentTypeID, name string, now time.Time) (*Document, error) {
	name = strings.TrimSpace(name)
	if personID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "document requires an owning person")
	}
	if documentTypeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "document requires a document type")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "document name is required")
	}
	return &Document{
		ID:             id.NewDocumentID(),
		PersonID:       personID,
		DocumentTypeID: documentTypeID,
		Name:           name,
		Status:         DocumentStatusPendiente,
		Semaforo:       SemaforoPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// DocumentUpdate is one entry of a bulk document mutation. Nil fields are
// left untouched; blank strings are filtered rather than written.
type DocumentUpdate struct {
	ID       id.DocumentID `json:"id"`
	Result   *string       `json:"result,omitempty"`
	Filename *string       `json:"filename,omitempty"`
	Semaforo *Semaforo     `json:"semaforo,omitempty"`
}

// ApplyUpdate applies the provided fields and reports whether anything
// actually changed. Blank result/filename values are skipped, a newly set
// filename forces Realizado, and an invalid semaforo value is ignored so one
// bad indicator never poisons the rest of an entry.
func (d *Document) ApplyUpdate(upd DocumentUpdate, now time.Time) bool {
	changed := false

	if upd.Result != nil {
		if v := strings.TrimSpace(*upd.Result); v != "" && v != d.Result {
			d.Result = v
			changed = true
		}
	}
	if upd.Filename != nil {
		if v := strings.TrimSpace(*upd.Filename); v != "" {
			if v != d.Filename {
				d.Filename = v
				changed = true
			}
			if d.Status != DocumentStatusRealizado {
				d.Status = DocumentStatusRealizado
				changed = true
			}
		}
	}
	if upd.Semaforo != nil && ValidSemaforo(*upd.Semaforo) && *upd.Semaforo != d.Semaforo {
		d.Semaforo = *upd.Semaforo
		changed = true
	}

	if changed {
		d.UpdatedAt = now
	}
	return changed
}

// SetsFilename reports whether this update would write a filename, which is
// what can trigger the person completion cascade.
func (upd DocumentUpdate) SetsFilename() bool {
	return upd.Filename != nil && strings.TrimSpace(*upd.Filename) != ""
}
