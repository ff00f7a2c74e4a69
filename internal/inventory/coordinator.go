package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/raduvm/ticketline/internal/models"
)

var (
	// ErrNoCapacity means the pool's true remaining count was <= 0, computed
	// under purchase exclusion. Never produced from a stale read.
	ErrNoCapacity = errors.New("no seats remain")
	// ErrBusy means exclusion could not be acquired within the bounded wait.
	ErrBusy = errors.New("capacity pool busy")
)

const defaultAcquireTimeout = 5 * time.Second

// Coordinator serializes purchase attempts against the capacity pools a
// purchase affects: the event plus every package bundling it, or the package
// plus every event it bundles. Availability is recomputed under that
// exclusion and the ticket committed before it is released.
type Coordinator struct {
	store          Store
	accountant     *Accountant
	locks          *poolLocks
	acquireTimeout time.Duration
}

type CoordinatorOption func(*Coordinator)

// WithAcquireTimeout overrides the bounded wait for pool exclusion.
func WithAcquireTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d > 0 {
			c.acquireTimeout = d
		}
	}
}

func NewCoordinator(store Store, accountant *Accountant, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:          store,
		accountant:     accountant,
		locks:          newPoolLocks(),
		acquireTimeout: defaultAcquireTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func eventKey(id uuid.UUID) string   { return "event:" + id.String() }
func packageKey(id uuid.UUID) string { return "package:" + id.String() }

func (c *Coordinator) PurchaseEventTicket(ctx context.Context, eventID uuid.UUID, buyerEmail string) (models.Ticket, error) {
	if _, err := c.store.FindEvent(ctx, eventID); err != nil {
		return models.Ticket{}, err
	}

	packageIDs, err := c.store.PackagesBundlingEvent(ctx, eventID)
	if err != nil {
		return models.Ticket{}, err
	}
	keys := []string{eventKey(eventID)}
	for _, packageID := range packageIDs {
		keys = append(keys, packageKey(packageID))
	}

	release, err := c.acquire(ctx, keys)
	if err != nil {
		return models.Ticket{}, err
	}
	defer release()

	availability, err := c.accountant.EventAvailability(ctx, eventID)
	if err != nil {
		return models.Ticket{}, err
	}
	if availability.Remaining <= 0 {
		return models.Ticket{}, ErrNoCapacity
	}

	ticket := models.Ticket{
		Code:       newTicketCode(),
		Type:       models.TicketTypeEvent,
		Status:     models.TicketIssued,
		EventID:    &eventID,
		OwnerEmail: buyerEmail,
	}
	return c.commit(ctx, ticket)
}

func (c *Coordinator) PurchasePackageTicket(ctx context.Context, packageID uuid.UUID, buyerEmail string) (models.Ticket, error) {
	if _, err := c.store.FindPackage(ctx, packageID); err != nil {
		return models.Ticket{}, err
	}

	eventIDs, err := c.store.EventsInPackage(ctx, packageID)
	if err != nil {
		return models.Ticket{}, err
	}
	keys := []string{packageKey(packageID)}
	for _, eventID := range eventIDs {
		keys = append(keys, eventKey(eventID))
	}

	release, err := c.acquire(ctx, keys)
	if err != nil {
		return models.Ticket{}, err
	}
	defer release()

	availability, err := c.accountant.PackageAvailability(ctx, packageID)
	if err != nil {
		return models.Ticket{}, err
	}
	if availability.Remaining <= 0 {
		return models.Ticket{}, ErrNoCapacity
	}

	// A package ticket consumes one seat from every bundled event, so each of
	// them must still have a seat left.
	for _, eventID := range eventIDs {
		eventAvailability, err := c.accountant.EventAvailability(ctx, eventID)
		if err != nil {
			return models.Ticket{}, err
		}
		if eventAvailability.Remaining <= 0 {
			return models.Ticket{}, ErrNoCapacity
		}
	}

	ticket := models.Ticket{
		Code:       newTicketCode(),
		Type:       models.TicketTypePackage,
		Status:     models.TicketIssued,
		PackageID:  &packageID,
		OwnerEmail: buyerEmail,
	}
	return c.commit(ctx, ticket)
}

func (c *Coordinator) acquire(ctx context.Context, keys []string) (func(), error) {
	acquireCtx, cancel := context.WithTimeout(ctx, c.acquireTimeout)
	defer cancel()

	release, err := c.locks.acquire(acquireCtx, keys)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrBusy
	}
	return release, nil
}

func (c *Coordinator) commit(ctx context.Context, ticket models.Ticket) (models.Ticket, error) {
	// An abandoned request commits nothing: either the ticket row exists in
	// full or not at all.
	if err := ctx.Err(); err != nil {
		return models.Ticket{}, err
	}
	if err := c.store.CreateTicket(ctx, &ticket); err != nil {
		return models.Ticket{}, err
	}
	return ticket, nil
}

func newTicketCode() string {
	return uuid.New().String()
}
