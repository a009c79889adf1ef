package models

// PersonStatus tracks a verification subject through the workflow. The same
// set applies to the owning request. Values are persisted verbatim and must
// round-trip exactly.
type PersonStatus string

const (
	PersonStatusPending    PersonStatus = "PENDING"
	PersonStatusInProgress PersonStatus = "IN_PROGRESS"
	PersonStatusCompleted  PersonStatus = "COMPLETED"
	PersonStatusRejected   PersonStatus = "REJECTED"
	PersonStatusObserved   PersonStatus = "OBSERVED"
)

// ValidPersonStatus reports whether s is one of the five persisted values.
func ValidPersonStatus(s PersonStatus) bool {
	switch s {
	case PersonStatusPending, PersonStatusInProgress, PersonStatusCompleted,
		PersonStatusRejected, PersonStatusObserved:
		return true
	}
	return false
}

// RequestStatus mirrors PersonStatus for the intake batch itself.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "PENDING"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusCompleted  RequestStatus = "COMPLETED"
	RequestStatusRejected   RequestStatus = "REJECTED"
	RequestStatusObserved   RequestStatus = "OBSERVED"
)

// DocumentStatus is a deliberately distinct enum from PersonStatus. The
// Spanish values are the persisted wire format inherited from the product's
// operations team and must not be translated.
type DocumentStatus string

const (
	DocumentStatusPendiente DocumentStatus = "Pendiente"
	DocumentStatusRealizado DocumentStatus = "Realizado"
	DocumentStatusRechazado DocumentStatus = "Rechazado"
)

// ValidDocumentStatus reports whether s is a persisted document status.
func ValidDocumentStatus(s DocumentStatus) bool {
	switch s {
	case DocumentStatusPendiente, DocumentStatusRealizado, DocumentStatusRechazado:
		return true
	}
	return false
}

// Semaforo is the traffic-light risk indicator on a document, independent of
// its completion status.
type Semaforo string

const (
	SemaforoPending  Semaforo = "PENDING"
	SemaforoClear    Semaforo = "CLEAR"
	SemaforoWarning  Semaforo = "WARNING"
	SemaforoCritical Semaforo = "CRITICAL"
)

// ValidSemaforo reports whether s is one of the four indicator values.
func ValidSemaforo(s Semaforo) bool {
	switch s {
	case SemaforoPending, SemaforoClear, SemaforoWarning, SemaforoCritical:
		return true
	}
	return false
}

// DeriveStatus computes a person's effective status from their documents.
// The ladder is order-independent and is the single source of truth: every
// read or materialization path calls this function, never a re-derivation in
// SQL.
//
//  1. no documents                          -> PENDING
//  2. all documents Realizado               -> COMPLETED
//  3. some Realizado, some not              -> IN_PROGRESS
//  4. none Realizado                        -> PENDING
//
// REJECTED and OBSERVED are set by the workflow operations, never derived.
func DeriveStatus(documents []*Document) PersonStatus {
	if len(documents) == 0 {
		return PersonStatusPending
	}
	done := 0
	for _, d := range documents {
		if d.Status == DocumentStatusRealizado {
			done++
		}
	}
	switch {
	case done == len(documents):
		return PersonStatusCompleted
	case done > 0:
		return PersonStatusInProgress
	default:
		return PersonStatusPending
	}
}

// EffectiveStatus combines the stored workflow status with the document
// ladder for read models. Derivation may only advance a person
// (PENDING -> IN_PROGRESS -> COMPLETED); it never regresses a stored status
// and never overrides OBSERVED or REJECTED, which are workflow decisions.
func EffectiveStatus(stored PersonStatus, documents []*Document) PersonStatus {
	if stored == PersonStatusObserved || stored == PersonStatusRejected {
		return stored
	}
	derived := DeriveStatus(documents)
	switch {
	case derived == PersonStatusCompleted:
		return derived
	case derived == PersonStatusInProgress && stored == PersonStatusPending:
		return derived
	default:
		return stored
	}
}
