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

// UpdateDocuments applies a batch of partial document updates. Each entry is
// resolved independently and the result slice preserves input order, one
// outcome per entry: "updated", "not found" or "no changes". A missing or
// unchanged entry never aborts the batch.
//
// Entries that set a filename mark the document Realizado; after the batch,
// every person touched that way is re-checked and materialized COMPLETED when
// all their documents are done. The batch and its cascades commit as one
// transaction.
func (s *Service) UpdateDocuments(ctx context.Context, updates []models.DocumentUpdate) ([]models.DocumentUpdateResult, error) {
	ctx, span := s.tracer.Start(ctx, "intake.UpdateDocuments")
	defer span.End()

	if len(updates) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "an array of document updates is required")
	}

	now := requestcontext.Now(ctx)
	start := now
	results := make([]models.DocumentUpdateResult, len(updates))
	updated := 0
	var completed []*models.Person

	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		// Persons whose documents gained a filename in this batch; only
		// those can newly reach COMPLETED.
		touched := make(map[id.PersonID]bool)

		for i, upd := range updates {
			results[i].ID = upd.ID

			document, err := s.stores.Documents.FindByID(ctx, upd.ID)
			if errors.Is(err, sentinel.ErrNotFound) {
				results[i].Status = models.OutcomeNotFound
				continue
			}
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "loading document")
			}

			if !document.ApplyUpdate(upd, now) {
				results[i].Status = models.OutcomeNoChanges
				continue
			}
			if err := s.stores.Documents.Update(ctx, document); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "updating document")
			}
			results[i].Status = models.OutcomeUpdated
			updated++
			if upd.SetsFilename() {
				touched[document.PersonID] = true
			}
		}

		for personID := range touched {
			person, err := s.completeIfDone(ctx, personID, now)
			if err != nil {
				return err
			}
			if person != nil {
				completed = append(completed, person)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.DocumentsUpdated.Add(float64(updated))
		s.metrics.PersonsCompleted.Add(float64(len(completed)))
		s.metrics.ObserveBulkUpdate(start)
	}
	for _, person := range completed {
		s.log().InfoContext(ctx, "person completed verification",
			"person_id", person.ID, "request_id", person.RequestID)
		s.audit(ctx, "PERSON_COMPLETED", person.ID, "")
		s.notifyCompleted(ctx, person)
	}
	return results, nil
}

// completeIfDone re-derives the person's status from their documents and
// materializes COMPLETED when the ladder says so. Returns the person only
// when a transition happened.
func (s *Service) completeIfDone(ctx context.Context, personID id.PersonID, now time.Time) (*models.Person, error) {
	documents, err := s.stores.Documents.ListByPerson(ctx, personID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "listing person documents")
	}
	if models.DeriveStatus(documents) != models.PersonStatusCompleted {
		return nil, nil
	}

	person, err := s.stores.Persons.FindByID(ctx, personID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "loading person")
	}
	if person.Status == models.PersonStatusCompleted {
		return nil, nil
	}
	if err := person.ApplyStatus(models.PersonStatusCompleted, now); err != nil {
		return nil, err
	}
	if err := s.stores.Persons.Update(ctx, person); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "updating person")
	}
	return person, nil
}

// UpdateResources applies a batch of resource value updates with the same
// per-entry isolation as UpdateDocuments. Entries missing the resource ID or
// the value are reported "invalid data" in place.
func (s *Service) UpdateResources(ctx context.Context, updates []models.ResourceUpdate) ([]models.ResourceUpdateResult, error) {
	ctx, span := s.tracer.Start(ctx, "intake.UpdateResources")
	defer span.End()

	if len(updates) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "an array of resource updates is required")
	}

	now := requestcontext.Now(ctx)
	start := now
	results := make([]models.ResourceUpdateResult, len(updates))
	updated := 0

	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		for i, upd := range updates {
			results[i].ResourceID = upd.ResourceID

			if !upd.Valid() {
				results[i].Status = models.OutcomeInvalidData
				continue
			}

			resource, err := s.stores.Resources.FindByID(ctx, upd.ResourceID)
			if errors.Is(err, sentinel.ErrNotFound) {
				results[i].Status = models.OutcomeNotFound
				continue
			}
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "loading resource")
			}

			resource.Value = *upd.Value
			resource.UpdatedAt = now
			if err := s.stores.Resources.Update(ctx, resource); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "updating resource")
			}
			results[i].Status = models.OutcomeUpdated
			updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ResourcesUpdated.Add(float64(updated))
		s.metrics.ObserveBulkUpdate(start)
	}
	return results, nil
}
