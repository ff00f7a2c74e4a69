package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/raduvm/ticketline/internal/models"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrPackageNotFound = errors.New("package not found")
	ErrTicketNotFound  = errors.New("ticket not found")
)

// Store is the ticket/event/package persistence boundary the accounting core
// reads through. Counts are recomputed on demand; no cached counter is
// authoritative.
type Store interface {
	FindEvent(ctx context.Context, id uuid.UUID) (models.Event, error)
	FindPackage(ctx context.Context, id uuid.UUID) (models.Package, error)

	// CountEventTickets counts tickets sold directly on the event, excluding
	// package sales.
	CountEventTickets(ctx context.Context, eventID uuid.UUID) (int, error)
	CountPackageTickets(ctx context.Context, packageID uuid.UUID) (int, error)

	PackagesBundlingEvent(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
	EventsInPackage(ctx context.Context, packageID uuid.UUID) ([]uuid.UUID, error)

	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	FindTicketByCode(ctx context.Context, code string) (models.Ticket, error)
	// TransitionTicket conditionally moves a ticket from one status to
	// another. Returns false without error when the ticket was not in the
	// expected status.
	TransitionTicket(ctx context.Context, code string, from, to models.TicketStatus) (bool, error)
	DeleteTicket(ctx context.Context, code string) error
	TicketsByOwner(ctx context.Context, email string) ([]models.Ticket, error)
}
