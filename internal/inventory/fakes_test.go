package inventory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/raduvm/ticketline/internal/models"
)

// memStore is an in-memory Store for exercising the accounting core without a
// database. All methods are safe for concurrent use.
type memStore struct {
	mu       sync.Mutex
	events   map[uuid.UUID]models.Event
	packages map[uuid.UUID]models.Package
	links    []models.PackageEvent
	tickets  map[string]models.Ticket

	// beforeCount, when set, runs inside the counting path while the
	// coordinator holds pool exclusion. Used to provoke contention.
	beforeCount func()
}

func newMemStore() *memStore {
	return &memStore{
		events:   make(map[uuid.UUID]models.Event),
		packages: make(map[uuid.UUID]models.Package),
		tickets:  make(map[string]models.Ticket),
	}
}

func (s *memStore) addEvent(capacity int) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.events[id] = models.Event{ID: id, Name: "event", Capacity: capacity}
	return id
}

func (s *memStore) addPackage(capacity int, eventIDs ...uuid.UUID) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.packages[id] = models.Package{ID: id, Name: "package", Capacity: capacity}
	for _, eventID := range eventIDs {
		s.links = append(s.links, models.PackageEvent{PackageID: id, EventID: eventID})
	}
	return id
}

func (s *memStore) addTicket(ticket models.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket.Code == "" {
		ticket.Code = uuid.New().String()
	}
	if ticket.Status == "" {
		ticket.Status = models.TicketIssued
	}
	s.tickets[ticket.Code] = ticket
}

func (s *memStore) ticketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}

func (s *memStore) FindEvent(ctx context.Context, id uuid.UUID) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return models.Event{}, ErrEventNotFound
	}
	return event, nil
}

func (s *memStore) FindPackage(ctx context.Context, id uuid.UUID) (models.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pkg, ok := s.packages[id]
	if !ok {
		return models.Package{}, ErrPackageNotFound
	}
	return pkg, nil
}

func (s *memStore) CountEventTickets(ctx context.Context, eventID uuid.UUID) (int, error) {
	if s.beforeCount != nil {
		s.beforeCount()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, ticket := range s.tickets {
		if ticket.EventID != nil && *ticket.EventID == eventID && ticket.PackageID == nil {
			count++
		}
	}
	return count, nil
}

func (s *memStore) CountPackageTickets(ctx context.Context, packageID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, ticket := range s.tickets {
		if ticket.PackageID != nil && *ticket.PackageID == packageID {
			count++
		}
	}
	return count, nil
}

func (s *memStore) PackagesBundlingEvent(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for _, link := range s.links {
		if link.EventID == eventID {
			ids = append(ids, link.PackageID)
		}
	}
	return ids, nil
}

func (s *memStore) EventsInPackage(ctx context.Context, packageID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for _, link := range s.links {
		if link.PackageID == packageID {
			ids = append(ids, link.EventID)
		}
	}
	return ids, nil
}

func (s *memStore) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	s.tickets[ticket.Code] = *ticket
	return nil
}

func (s *memStore) FindTicketByCode(ctx context.Context, code string) (models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[code]
	if !ok {
		return models.Ticket{}, ErrTicketNotFound
	}
	return ticket, nil
}

func (s *memStore) TransitionTicket(ctx context.Context, code string, from, to models.TicketStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[code]
	if !ok || ticket.Status != from {
		return false, nil
	}
	ticket.Status = to
	s.tickets[code] = ticket
	return true, nil
}

func (s *memStore) DeleteTicket(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[code]; !ok {
		return ErrTicketNotFound
	}
	delete(s.tickets, code)
	return nil
}

func (s *memStore) TicketsByOwner(ctx context.Context, email string) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tickets []models.Ticket
	for _, ticket := range s.tickets {
		if ticket.OwnerEmail == email {
			tickets = append(tickets, ticket)
		}
	}
	return tickets, nil
}
