package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"smarttalent/internal/intake/models"
	id "smarttalent/pkg/domain"
	"smarttalent/pkg/platform/sentinel"
)

// memState is the shared backing data for the in-memory stores. Records are
// held by value; reads hand out copies so callers never alias store state.
type memState struct {
	mu sync.RWMutex

	requests  map[id.RequestID]models.Request
	persons   map[id.PersonID]models.Person
	documents map[id.DocumentID]models.Document
	resources map[id.ResourceID]models.Resource

	assignments map[id.PersonID][]models.RecruiterAssignment

	// Insertion order per parent, to mirror the created_at ordering of the
	// SQL stores under a frozen test clock.
	personOrder   []id.PersonID
	personsByReq  map[id.RequestID][]id.PersonID
	docsByPerson  map[id.PersonID][]id.DocumentID
	resourcesByDoc map[id.DocumentID][]id.ResourceID

	// Seeded reference data standing in for the entity, user and taxonomy
	// tables the SQL query store joins against.
	owners    map[id.EntityID]string
	accounts  map[id.UserID]models.RecruiterAssignment
	fileTypes map[id.ResourceTypeID][]string
}

// Memory bundles the in-memory intake stores over one shared state.
type Memory struct {
	Requests    *MemRequests
	Persons     *MemPersons
	Documents   *MemDocuments
	Resources   *MemResources
	Assignments *MemAssignments
	Query       *MemQuery

	state *memState
}

// NewMemory creates an empty in-memory store bundle.
func NewMemory() *Memory {
	st := &memState{
		requests:       make(map[id.RequestID]models.Request),
		persons:        make(map[id.PersonID]models.Person),
		documents:      make(map[id.DocumentID]models.Document),
		resources:      make(map[id.ResourceID]models.Resource),
		assignments:    make(map[id.PersonID][]models.RecruiterAssignment),
		personsByReq:   make(map[id.RequestID][]id.PersonID),
		docsByPerson:   make(map[id.PersonID][]id.DocumentID),
		resourcesByDoc: make(map[id.DocumentID][]id.ResourceID),
		owners:         make(map[id.EntityID]string),
		accounts:       make(map[id.UserID]models.RecruiterAssignment),
		fileTypes:      make(map[id.ResourceTypeID][]string),
	}
	return &Memory{
		Requests:    &MemRequests{st},
		Persons:     &MemPersons{st},
		Documents:   &MemDocuments{st},
		Resources:   &MemResources{st},
		Assignments: &MemAssignments{st},
		Query:       &MemQuery{st},
		state:       st,
	}
}

// SeedOwner registers an entity display name for the query views.
func (m *Memory) SeedOwner(entityID id.EntityID, owner string) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	m.state.owners[entityID] = owner
}

// SeedAccount registers a user's display details for assignment listings.
func (m *Memory) SeedAccount(userID id.UserID, username, email string) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	m.state.accounts[userID] = models.RecruiterAssignment{UserID: userID, Username: username, Email: email}
}

// SeedFileTypes registers a resource type's allowed file extensions.
func (m *Memory) SeedFileTypes(resourceTypeID id.ResourceTypeID, types []string) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	m.state.fileTypes[resourceTypeID] = slices.Clone(types)
}

// MemRequests is the in-memory RequestStore.
type MemRequests struct{ st *memState }

func (s *MemRequests) Create(_ context.Context, request *models.Request) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.requests[request.ID]; ok {
		return sentinel.ErrConflict
	}
	stored := *request
	stored.Persons = nil
	s.st.requests[request.ID] = stored
	return nil
}

func (s *MemRequests) FindByID(_ context.Context, requestID id.RequestID) (*models.Request, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	request, ok := s.st.requests[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	request.Persons = nil
	return &request, nil
}

func (s *MemRequests) CountTree(_ context.Context, requestID id.RequestID) (persons, documents, resources int, err error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	for _, personID := range s.st.personsByReq[requestID] {
		persons++
		for _, documentID := range s.st.docsByPerson[personID] {
			documents++
			resources += len(s.st.resourcesByDoc[documentID])
		}
	}
	return persons, documents, resources, nil
}

func (s *MemRequests) DeleteCascade(_ context.Context, requestID id.RequestID) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.requests[requestID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, personID := range s.st.personsByReq[requestID] {
		for _, documentID := range s.st.docsByPerson[personID] {
			for _, resourceID := range s.st.resourcesByDoc[documentID] {
				delete(s.st.resources, resourceID)
			}
			delete(s.st.resourcesByDoc, documentID)
			delete(s.st.documents, documentID)
		}
		delete(s.st.docsByPerson, personID)
		delete(s.st.assignments, personID)
		delete(s.st.persons, personID)
		s.st.personOrder = slices.DeleteFunc(s.st.personOrder, func(pid id.PersonID) bool {
			return pid == personID
		})
	}
	delete(s.st.personsByReq, requestID)
	delete(s.st.requests, requestID)
	return nil
}

// MemPersons is the in-memory PersonStore.
type MemPersons struct{ st *memState }

func (s *MemPersons) Create(_ context.Context, person *models.Person) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.persons[person.ID]; ok {
		return sentinel.ErrConflict
	}
	stored := *person
	stored.Documents = nil
	stored.Recruiters = nil
	s.st.persons[person.ID] = stored
	s.st.personsByReq[person.RequestID] = append(s.st.personsByReq[person.RequestID], person.ID)
	s.st.personOrder = append(s.st.personOrder, person.ID)
	return nil
}

func (s *MemPersons) FindByID(_ context.Context, personID id.PersonID) (*models.Person, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	person, ok := s.st.persons[personID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &person, nil
}

func (s *MemPersons) Update(_ context.Context, person *models.Person) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.persons[person.ID]; !ok {
		return sentinel.ErrNotFound
	}
	stored := *person
	stored.Documents = nil
	stored.Recruiters = nil
	s.st.persons[person.ID] = stored
	return nil
}

func (s *MemPersons) ListByRequest(_ context.Context, requestID id.RequestID) ([]*models.Person, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	var persons []*models.Person
	for _, personID := range s.st.personsByReq[requestID] {
		person := s.st.persons[personID]
		persons = append(persons, &person)
	}
	return persons, nil
}

// MemDocuments is the in-memory DocumentStore.
type MemDocuments struct{ st *memState }

func (s *MemDocuments) Create(_ context.Context, document *models.Document) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.documents[document.ID]; ok {
		return sentinel.ErrConflict
	}
	stored := *document
	stored.Resources = nil
	s.st.documents[document.ID] = stored
	s.st.docsByPerson[document.PersonID] = append(s.st.docsByPerson[document.PersonID], document.ID)
	return nil
}

func (s *MemDocuments) FindByID(_ context.Context, documentID id.DocumentID) (*models.Document, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	document, ok := s.st.documents[documentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &document, nil
}

func (s *MemDocuments) Update(_ context.Context, document *models.Document) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.documents[document.ID]; !ok {
		return sentinel.ErrNotFound
	}
	stored := *document
	stored.Resources = nil
	s.st.documents[document.ID] = stored
	return nil
}

func (s *MemDocuments) ListByPerson(_ context.Context, personID id.PersonID) ([]*models.Document, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	return s.listByPersonLocked(personID), nil
}

func (s *MemDocuments) listByPersonLocked(personID id.PersonID) []*models.Document {
	var documents []*models.Document
	for _, documentID := range s.st.docsByPerson[personID] {
		document := s.st.documents[documentID]
		for _, resourceID := range s.st.resourcesByDoc[documentID] {
			resource := s.st.resources[resourceID]
			document.Resources = append(document.Resources, &resource)
		}
		documents = append(documents, &document)
	}
	return documents
}

// MemResources is the in-memory ResourceStore.
type MemResources struct{ st *memState }

func (s *MemResources) Create(_ context.Context, resource *models.Resource) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.resources[resource.ID]; ok {
		return sentinel.ErrConflict
	}
	s.st.resources[resource.ID] = *resource
	s.st.resourcesByDoc[resource.DocumentID] = append(s.st.resourcesByDoc[resource.DocumentID], resource.ID)
	return nil
}

func (s *MemResources) FindByID(_ context.Context, resourceID id.ResourceID) (*models.Resource, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	resource, ok := s.st.resources[resourceID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &resource, nil
}

func (s *MemResources) Update(_ context.Context, resource *models.Resource) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.resources[resource.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.st.resources[resource.ID] = *resource
	return nil
}

// MemAssignments is the in-memory AssignmentStore.
type MemAssignments struct{ st *memState }

func (s *MemAssignments) Assign(_ context.Context, personID id.PersonID, userID id.UserID, assignedAt time.Time) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	for _, existing := range s.st.assignments[personID] {
		if existing.UserID == userID {
			return sentinel.ErrConflict
		}
	}
	assignment := s.st.accounts[userID]
	assignment.UserID = userID
	assignment.AssignedAt = assignedAt
	s.st.assignments[personID] = append(s.st.assignments[personID], assignment)
	return nil
}

func (s *MemAssignments) ListByPerson(_ context.Context, personID id.PersonID) ([]models.RecruiterAssignment, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	return slices.Clone(s.st.assignments[personID]), nil
}

// MemQuery is the in-memory PersonQuery.
type MemQuery struct{ st *memState }

func (s *MemQuery) ListPeople(_ context.Context, filter models.PersonFilter) ([]*models.PersonView, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()

	var views []*models.PersonView
	// Newest first, mirroring the SQL ordering.
	for i := len(s.st.personOrder) - 1; i >= 0; i-- {
		person, ok := s.st.persons[s.st.personOrder[i]]
		if !ok {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, person.Status) {
			continue
		}
		if !filter.RecruiterID.IsNil() && !s.assignedLocked(person.ID, filter.RecruiterID) {
			continue
		}
		if !filter.EntityID.IsNil() {
			request, ok := s.st.requests[person.RequestID]
			if !ok || request.EntityID != filter.EntityID {
				continue
			}
		}
		views = append(views, s.viewLocked(person))
	}
	return views, nil
}

func (s *MemQuery) GetPerson(_ context.Context, personID id.PersonID) (*models.PersonView, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	person, ok := s.st.persons[personID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.viewLocked(person), nil
}

func (s *MemQuery) assignedLocked(personID id.PersonID, userID id.UserID) bool {
	for _, assignment := range s.st.assignments[personID] {
		if assignment.UserID == userID {
			return true
		}
	}
	return false
}

func (s *MemQuery) viewLocked(person models.Person) *models.PersonView {
	view := &models.PersonView{Person: person}

	if request, ok := s.st.requests[person.RequestID]; ok {
		view.Owner = s.st.owners[request.EntityID]
	}
	view.Recruiters = slices.Clone(s.st.assignments[person.ID])

	documents := (&MemDocuments{s.st}).listByPersonLocked(person.ID)
	for _, document := range documents {
		docView := &models.DocumentView{Document: *document}
		for _, resource := range document.Resources {
			docView.Resources = append(docView.Resources, &models.ResourceView{
				Resource:         *resource,
				AllowedFileTypes: slices.Clone(s.st.fileTypes[resource.ResourceTypeID]),
			})
		}
		view.Documents = append(view.Documents, docView)
	}

	view.Status = models.EffectiveStatus(person.Status, documents)
	return view
}
