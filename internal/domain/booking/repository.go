package booking

import (
	"context"

	"github.com/wheelshare/service-rental/internal/domain/car"
	"github.com/wheelshare/service-rental/internal/domain/user"
)

// Repository defines the persistence contract for booking aggregates.
// Implementations resolve the ambient transaction from the context, so
// every call made inside one Transactional block shares one transaction.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id BookingID) (*Booking, error)

	// FindAll retrieves every booking.
	FindAll(ctx context.Context) ([]*Booking, error)

	// FindByUser retrieves bookings where the user is renter or car owner.
	FindByUser(ctx context.Context, userID user.UserID) ([]*Booking, error)

	// FindByCarID retrieves all bookings for the given car.
	FindByCarID(ctx context.Context, carID car.CarID) ([]*Booking, error)

	// Save persists a new booking and returns it with the assigned id.
	Save(ctx context.Context, b *Booking) (*Booking, error)

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error

	// DeleteByID removes a booking and returns the removed record.
	DeleteByID(ctx context.Context, id BookingID) (*Booking, error)

	// ListAll retrieves bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByState returns booking counts grouped by state (admin).
	CountByState(ctx context.Context) (map[string]int64, error)
}
