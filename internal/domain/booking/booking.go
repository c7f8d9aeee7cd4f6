package booking

import (
	"time"

	"github.com/wheelshare/service-rental/internal/domain"
	"github.com/wheelshare/service-rental/internal/domain/car"
	"github.com/wheelshare/service-rental/internal/domain/user"
)

// BookingID identifies a booking. Ids are assigned by storage; zero
// means the booking has not been persisted yet.
type BookingID int64

// Booking is the aggregate root for a car reservation. A booking is
// never observable with endDate before or equal to startDate, or in a
// state unreachable from pending.
type Booking struct {
	id        BookingID
	startDate time.Time
	endDate   time.Time
	carID     car.CarID
	renterID  user.UserID
	ownerID   user.UserID
	state     BookingState

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking in state pending for the given car,
// renter and date range. The owner id is the car owner's id, carried on
// the booking so authorization does not need a join.
func NewBooking(
	carID car.CarID,
	renterID, ownerID user.UserID,
	startDate, endDate time.Time,
) (*Booking, error) {
	if carID <= 0 {
		return nil, domain.NewValidationError("car id is required")
	}
	if renterID <= 0 {
		return nil, domain.NewValidationError("renter id is required")
	}
	if ownerID <= 0 {
		return nil, domain.NewValidationError("owner id is required")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, domain.NewValidationError("start and end dates are required")
	}
	if !endDate.After(startDate) {
		return nil, domain.NewValidationError("end date must be after start date")
	}

	now := time.Now().UTC()
	return &Booking{
		startDate: startDate,
		endDate:   endDate,
		carID:     carID,
		renterID:  renterID,
		ownerID:   ownerID,
		state:     StatePending,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id BookingID,
	carID car.CarID,
	renterID, ownerID user.UserID,
	startDate, endDate time.Time,
	state BookingState,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		startDate: startDate,
		endDate:   endDate,
		carID:     carID,
		renterID:  renterID,
		ownerID:   ownerID,
		state:     state,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (b *Booking) ID() BookingID         { return b.id }
func (b *Booking) StartDate() time.Time  { return b.startDate }
func (b *Booking) EndDate() time.Time    { return b.endDate }
func (b *Booking) CarID() car.CarID      { return b.carID }
func (b *Booking) RenterID() user.UserID { return b.renterID }
func (b *Booking) OwnerID() user.UserID  { return b.ownerID }
func (b *Booking) State() BookingState   { return b.state }
func (b *Booking) Version() int64        { return b.version }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time  { return b.updatedAt }

// IsRentedBy checks if the booking was requested by the given user.
func (b *Booking) IsRentedBy(id user.UserID) bool {
	return b.renterID == id
}

// IsOwnedBy checks if the booked car belongs to the given user.
func (b *Booking) IsOwnedBy(id user.UserID) bool {
	return b.ownerID == id
}

// WithState returns a copy of the booking in the requested state,
// consulting the transition table. A same-state request returns an
// unchanged copy.
func (b *Booking) WithState(target BookingState) (*Booking, error) {
	if !target.IsValid() {
		return nil, domain.NewValidationError("invalid booking state: " + string(target))
	}
	if !b.state.CanTransitionTo(target) {
		return nil, NewInvalidStateTransitionError(b.id, b.state, target)
	}
	next := *b
	next.state = target
	next.updatedAt = time.Now().UTC()
	return &next, nil
}

// WithDates returns a copy of the booking with the given date range.
// Dates are only mutable while the booking is pending.
func (b *Booking) WithDates(startDate, endDate time.Time) (*Booking, error) {
	if !endDate.After(startDate) {
		return nil, domain.NewValidationError("end date must be after start date")
	}
	if b.state != StatePending {
		return nil, domain.NewConflictError("booking dates can only be changed while pending")
	}
	next := *b
	next.startDate = startDate
	next.endDate = endDate
	next.updatedAt = time.Now().UTC()
	return &next, nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
