package user

import "context"

// Repository defines the persistence contract for user accounts.
// Implementations resolve the ambient transaction from the context.
type Repository interface {
	// FindByID retrieves a user by id, excluding soft-deleted accounts.
	FindByID(ctx context.Context, id UserID) (*User, error)

	// FindByName retrieves a user by its unique name, or nil if absent.
	FindByName(ctx context.Context, name string) (*User, error)

	// FindAll retrieves all non-deleted users.
	FindAll(ctx context.Context) ([]*User, error)

	// Save persists a new user and returns it with the assigned id.
	Save(ctx context.Context, u *User) (*User, error)

	// Update persists changes to an existing user.
	Update(ctx context.Context, u *User) error
}
