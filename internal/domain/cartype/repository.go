package cartype

import "context"

// Repository defines the persistence contract for car types.
type Repository interface {
	// FindByID retrieves a car type by id.
	FindByID(ctx context.Context, id CarTypeID) (*CarType, error)

	// FindAll retrieves all car types.
	FindAll(ctx context.Context) ([]*CarType, error)

	// Save persists a new car type and returns it with the assigned id.
	Save(ctx context.Context, t *CarType) (*CarType, error)

	// Update persists changes to an existing car type.
	Update(ctx context.Context, t *CarType) error
}
