package inventory

import (
	"context"
	"errors"

	"github.com/raduvm/ticketline/internal/models"
)

var (
	ErrAlreadyValidated = errors.New("ticket already validated")
	ErrAlreadyConsumed  = errors.New("ticket already consumed")
	ErrNotValidated     = errors.New("ticket not validated")
)

// Validator drives a ticket's check-in lifecycle:
// ISSUED -> VALIDATED -> CONSUMED, with deletion reachable from any state.
type Validator struct {
	store Store
}

func NewValidator(store Store) *Validator {
	return &Validator{store: store}
}

// Validate transitions ISSUED -> VALIDATED exactly once. A second scan of the
// same code reports ErrAlreadyValidated; it never creates a second ticket or
// double-counts inventory.
func (v *Validator) Validate(ctx context.Context, code string) (models.Ticket, error) {
	ticket, err := v.store.FindTicketByCode(ctx, code)
	if err != nil {
		return models.Ticket{}, err
	}

	switch ticket.Status {
	case models.TicketIssued:
		moved, err := v.store.TransitionTicket(ctx, code, models.TicketIssued, models.TicketValidated)
		if err != nil {
			return models.Ticket{}, err
		}
		if !moved {
			// Lost a race with a concurrent scan of the same code.
			return models.Ticket{}, ErrAlreadyValidated
		}
		ticket.Status = models.TicketValidated
		return ticket, nil
	case models.TicketConsumed:
		return models.Ticket{}, ErrAlreadyConsumed
	default:
		return models.Ticket{}, ErrAlreadyValidated
	}
}

// Consume transitions VALIDATED -> CONSUMED when the holder passes the gate.
func (v *Validator) Consume(ctx context.Context, code string) (models.Ticket, error) {
	ticket, err := v.store.FindTicketByCode(ctx, code)
	if err != nil {
		return models.Ticket{}, err
	}

	switch ticket.Status {
	case models.TicketValidated:
		moved, err := v.store.TransitionTicket(ctx, code, models.TicketValidated, models.TicketConsumed)
		if err != nil {
			return models.Ticket{}, err
		}
		if !moved {
			return models.Ticket{}, ErrAlreadyConsumed
		}
		ticket.Status = models.TicketConsumed
		return ticket, nil
	case models.TicketConsumed:
		return models.Ticket{}, ErrAlreadyConsumed
	default:
		return models.Ticket{}, ErrNotValidated
	}
}

// Delete removes the ticket regardless of its current state.
func (v *Validator) Delete(ctx context.Context, code string) error {
	if _, err := v.store.FindTicketByCode(ctx, code); err != nil {
		return err
	}
	return v.store.DeleteTicket(ctx, code)
}
