package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Availability is a point-in-time seat count for one capacity pool.
type Availability struct {
	Capacity      int
	Sold          int
	PackageImpact int
	// Remaining is unclamped: purchase decisions must see the true value.
	Remaining int
}

// Display clamps negative remainders to zero for read-side presentation.
func (a Availability) Display() int {
	if a.Remaining < 0 {
		return 0
	}
	return a.Remaining
}

// Accountant computes committed and remaining seats for events and packages.
// Every package ticket consumes one seat from every event the package
// bundles; sales are not divided proportionally.
type Accountant struct {
	store Store
}

func NewAccountant(store Store) *Accountant {
	return &Accountant{store: store}
}

func (a *Accountant) EventAvailability(ctx context.Context, eventID uuid.UUID) (Availability, error) {
	event, err := a.store.FindEvent(ctx, eventID)
	if err != nil {
		return Availability{}, err
	}

	direct, err := a.store.CountEventTickets(ctx, eventID)
	if err != nil {
		return Availability{}, err
	}

	packageIDs, err := a.store.PackagesBundlingEvent(ctx, eventID)
	if err != nil {
		return Availability{}, err
	}
	impact := 0
	for _, packageID := range packageIDs {
		sold, err := a.store.CountPackageTickets(ctx, packageID)
		if err != nil {
			return Availability{}, err
		}
		impact += sold
	}

	return Availability{
		Capacity:      event.Capacity,
		Sold:          direct,
		PackageImpact: impact,
		Remaining:     event.Capacity - direct - impact,
	}, nil
}

// PackageAvailability is independent of any bundled event's capacity.
func (a *Accountant) PackageAvailability(ctx context.Context, packageID uuid.UUID) (Availability, error) {
	pkg, err := a.store.FindPackage(ctx, packageID)
	if err != nil {
		return Availability{}, err
	}

	sold, err := a.store.CountPackageTickets(ctx, packageID)
	if err != nil {
		return Availability{}, err
	}

	return Availability{
		Capacity:  pkg.Capacity,
		Sold:      sold,
		Remaining: pkg.Capacity - sold,
	}, nil
}
