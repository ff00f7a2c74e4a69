package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/raduvm/ticketline/internal/models"
)

func newTestCoordinator(store *memStore, opts ...CoordinatorOption) *Coordinator {
	return NewCoordinator(store, NewAccountant(store), opts...)
}

func TestCoordinatorCapacityUnderConcurrency(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("capacity three, ten buyers, exactly three tickets", func(t *testing.T) {
		store := newMemStore()
		eventID := store.addEvent(3)
		coordinator := newTestCoordinator(store)

		const attempts = 10
		var wg sync.WaitGroup
		results := make(chan error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := coordinator.PurchaseEventTicket(ctx, eventID, "buyer@local")
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var succeeded, capacityErrs int
		for err := range results {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrNoCapacity):
				capacityErrs++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		if succeeded != 3 {
			t.Errorf("succeeded = %d, want 3", succeeded)
		}
		if capacityErrs != 7 {
			t.Errorf("capacity errors = %d, want 7", capacityErrs)
		}
		if store.ticketCount() != 3 {
			t.Errorf("tickets persisted = %d, want 3", store.ticketCount())
		}
	})

	t.Run("capacity one, two racers, one winner", func(t *testing.T) {
		store := newMemStore()
		eventID := store.addEvent(1)
		coordinator := newTestCoordinator(store)

		var wg sync.WaitGroup
		results := make(chan error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := coordinator.PurchaseEventTicket(ctx, eventID, "buyer@local")
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var succeeded, capacityErrs int
		for err := range results {
			if err == nil {
				succeeded++
			} else if errors.Is(err, ErrNoCapacity) {
				capacityErrs++
			}
		}
		if succeeded != 1 || capacityErrs != 1 {
			t.Errorf("succeeded = %d, conflicts = %d, want 1 and 1", succeeded, capacityErrs)
		}
	})
}

func TestCoordinatorBundledEventNeverOversells(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Event capacity 2, bundled in a roomy package. Any mix of direct and
	// package purchases may fill at most 2 seats of the event.
	store := newMemStore()
	eventID := store.addEvent(2)
	packageID := store.addPackage(10, eventID)
	coordinator := newTestCoordinator(store)

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(direct bool) {
			defer wg.Done()
			var err error
			if direct {
				_, err = coordinator.PurchaseEventTicket(ctx, eventID, "buyer@local")
			} else {
				_, err = coordinator.PurchasePackageTicket(ctx, packageID, "buyer@local")
			}
			results <- err
		}(i%2 == 0)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrNoCapacity) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 2 {
		t.Errorf("succeeded = %d, want 2", succeeded)
	}

	availability, err := NewAccountant(store).EventAvailability(ctx, eventID)
	if err != nil {
		t.Fatalf("event availability: %v", err)
	}
	if availability.Remaining < 0 {
		t.Errorf("event oversold: remaining = %d", availability.Remaining)
	}
}

func TestCoordinatorDirectAndPackagePurchaseEachTakeASeat(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newMemStore()
	eventID := store.addEvent(5)
	packageID := store.addPackage(5, eventID)
	coordinator := newTestCoordinator(store)

	if _, err := coordinator.PurchaseEventTicket(ctx, eventID, "a@local"); err != nil {
		t.Fatalf("event purchase: %v", err)
	}
	if _, err := coordinator.PurchasePackageTicket(ctx, packageID, "b@local"); err != nil {
		t.Fatalf("package purchase: %v", err)
	}

	availability, err := NewAccountant(store).EventAvailability(ctx, eventID)
	if err != nil {
		t.Fatalf("event availability: %v", err)
	}
	if availability.Remaining != 3 {
		t.Errorf("remaining = %d, want 3", availability.Remaining)
	}
}

func TestCoordinatorBusyOnContention(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newMemStore()
	eventID := store.addEvent(5)

	holding := make(chan struct{})
	proceed := make(chan struct{})
	var once sync.Once
	store.beforeCount = func() {
		once.Do(func() {
			close(holding)
			<-proceed
		})
	}

	coordinator := newTestCoordinator(store, WithAcquireTimeout(25*time.Millisecond))

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := coordinator.PurchaseEventTicket(ctx, eventID, "slow@local"); err != nil {
			t.Errorf("slow purchase: %v", err)
		}
	}()

	<-holding
	// The first purchase is stalled inside its exclusive section; a second
	// attempt must give up within the bounded wait.
	_, err := coordinator.PurchaseEventTicket(ctx, eventID, "fast@local")
	if !errors.Is(err, ErrBusy) {
		t.Errorf("err = %v, want ErrBusy", err)
	}

	close(proceed)
	<-done

	if store.ticketCount() != 1 {
		t.Errorf("tickets persisted = %d, want 1", store.ticketCount())
	}
}

func TestCoordinatorCancelledRequestCommitsNothing(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	eventID := store.addEvent(5)
	coordinator := newTestCoordinator(store)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := coordinator.PurchaseEventTicket(cancelled, eventID, "gone@local")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if store.ticketCount() != 0 {
		t.Errorf("tickets persisted = %d, want 0", store.ticketCount())
	}
}

func TestCoordinatorNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newMemStore()
	coordinator := newTestCoordinator(store)

	if _, err := coordinator.PurchaseEventTicket(ctx, uuid.New(), "x@local"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("err = %v, want ErrEventNotFound", err)
	}
	if _, err := coordinator.PurchasePackageTicket(ctx, uuid.New(), "x@local"); !errors.Is(err, ErrPackageNotFound) {
		t.Errorf("err = %v, want ErrPackageNotFound", err)
	}
}

func TestCoordinatorTicketShape(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newMemStore()
	eventID := store.addEvent(1)
	coordinator := newTestCoordinator(store)

	ticket, err := coordinator.PurchaseEventTicket(ctx, eventID, "buyer@local")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if ticket.Code == "" {
		t.Error("ticket code should be set")
	}
	if ticket.Type != models.TicketTypeEvent {
		t.Errorf("type = %q, want %q", ticket.Type, models.TicketTypeEvent)
	}
	if ticket.Status != models.TicketIssued {
		t.Errorf("status = %q, want %q", ticket.Status, models.TicketIssued)
	}
	if ticket.EventID == nil || *ticket.EventID != eventID {
		t.Error("ticket should reference the purchased event")
	}
	if ticket.PackageID != nil {
		t.Error("event ticket must not carry a package id")
	}
	if ticket.OwnerEmail != "buyer@local" {
		t.Errorf("owner = %q, want buyer@local", ticket.OwnerEmail)
	}
}
