package events

import (
	"time"

	"github.com/wheelshare/service-rental/internal/domain/booking"
	"github.com/wheelshare/service-rental/internal/domain/car"
	"github.com/wheelshare/service-rental/internal/domain/user"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicCarEvents     = "car.events"
)

// Event types.
const (
	BookingCreated      = "rental.booking.created"
	BookingStateChanged = "rental.booking.state_changed"
	BookingDeleted      = "rental.booking.deleted"
	CarUpdated          = "rental.car.updated"
)

// BookingCreatedEvent is published when a renter requests a car.
type BookingCreatedEvent struct {
	BookingID  booking.BookingID `json:"booking_id"`
	CarID      car.CarID         `json:"car_id"`
	RenterID   user.UserID       `json:"renter_id"`
	OwnerID    user.UserID       `json:"owner_id"`
	StartDate  time.Time         `json:"start_date"`
	EndDate    time.Time         `json:"end_date"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// BookingStateChangedEvent is published on every lifecycle transition.
type BookingStateChangedEvent struct {
	BookingID  booking.BookingID `json:"booking_id"`
	CarID      car.CarID         `json:"car_id"`
	FromState  string            `json:"from_state"`
	ToState    string            `json:"to_state"`
	ChangedBy  user.UserID       `json:"changed_by"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// BookingDeletedEvent is published when a booking is removed.
type BookingDeletedEvent struct {
	BookingID  booking.BookingID `json:"booking_id"`
	CarID      car.CarID         `json:"car_id"`
	DeletedBy  user.UserID       `json:"deleted_by"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// CarUpdatedEvent is published whenever a car changes, so read-side
// caches can be invalidated.
type CarUpdatedEvent struct {
	CarID      car.CarID `json:"car_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
