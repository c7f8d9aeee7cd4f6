package car

import "context"

// Repository defines the persistence contract for cars.
// Implementations resolve the ambient transaction from the context.
type Repository interface {
	// FindByID retrieves a car by id.
	FindByID(ctx context.Context, id CarID) (*Car, error)

	// FindByLicensePlate retrieves a car by its plate, or nil if absent.
	FindByLicensePlate(ctx context.Context, licensePlate string) (*Car, error)

	// FindAll retrieves all cars.
	FindAll(ctx context.Context) ([]*Car, error)

	// Save persists a new car and returns it with the assigned id.
	Save(ctx context.Context, c *Car) (*Car, error)

	// Update persists changes to an existing car.
	Update(ctx context.Context, c *Car) error
}
