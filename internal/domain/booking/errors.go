package booking

import (
	"fmt"
	"time"

	"github.com/wheelshare/service-rental/internal/domain"
	"github.com/wheelshare/service-rental/internal/domain/car"
)

// NewBookingNotFoundError creates the not-found error for a booking id.
func NewBookingNotFoundError(id BookingID) *domain.NotFoundError {
	return domain.NewNotFoundError("Booking", fmt.Sprintf("%d", id))
}

// CarNotAvailableError indicates that the requested date range overlaps
// an existing booking for the car.
type CarNotAvailableError struct {
	CarID     car.CarID
	StartDate time.Time
	EndDate   time.Time
}

// NewCarNotAvailableError creates a CarNotAvailableError for the
// rejected range.
func NewCarNotAvailableError(carID car.CarID, start, end time.Time) *CarNotAvailableError {
	return &CarNotAvailableError{CarID: carID, StartDate: start, EndDate: end}
}

func (e *CarNotAvailableError) Error() string {
	return fmt.Sprintf(
		"car %d is not available from %s to %s",
		e.CarID,
		e.StartDate.Format(time.RFC3339),
		e.EndDate.Format(time.RFC3339),
	)
}

// InvalidStateTransitionError indicates a state change not permitted by
// the transition table.
type InvalidStateTransitionError struct {
	BookingID BookingID
	From      BookingState
	To        BookingState
}

// NewInvalidStateTransitionError creates an InvalidStateTransitionError
// for the attempted transition.
func NewInvalidStateTransitionError(id BookingID, from, to BookingState) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{BookingID: id, From: from, To: to}
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("booking %d cannot transition from %s to %s", e.BookingID, e.From, e.To)
}

// ActiveBookingError indicates an operation refused because the booking
// is an active rental (picked up and not yet returned).
type ActiveBookingError struct {
	BookingID BookingID
}

// NewActiveBookingError creates an ActiveBookingError.
func NewActiveBookingError(id BookingID) *ActiveBookingError {
	return &ActiveBookingError{BookingID: id}
}

func (e *ActiveBookingError) Error() string {
	return fmt.Sprintf("booking %d is an active rental and cannot be deleted", e.BookingID)
}
