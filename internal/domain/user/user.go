package user

import (
	"time"

	"github.com/wheelshare/service-rental/internal/domain"
)

// UserID identifies a user. Ids are assigned by storage; zero means
// the user has not been persisted yet.
type UserID int64

// Role controls access to administrative operations.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid returns true if the role is recognized.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// User is the aggregate root for an account.
type User struct {
	id           UserID
	name         string
	passwordHash string
	role         Role
	isDeleted    bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a new User with validated fields. The password must
// already be hashed by the caller.
func NewUser(name, passwordHash string, role Role) (*User, error) {
	if name == "" {
		return nil, domain.NewValidationError("user name is required")
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password hash is required")
	}
	if !role.IsValid() {
		return nil, domain.NewValidationError("invalid role: " + string(role))
	}

	now := time.Now().UTC()
	return &User{
		name:         name,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(
	id UserID,
	name, passwordHash string,
	role Role,
	isDeleted bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		name:         name,
		passwordHash: passwordHash,
		role:         role,
		isDeleted:    isDeleted,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the user's identifier.
func (u *User) ID() UserID { return u.id }

// Name returns the unique account name.
func (u *User) Name() string { return u.name }

// PasswordHash returns the bcrypt hash of the user's password.
func (u *User) PasswordHash() string { return u.passwordHash }

// Role returns the user's role.
func (u *User) Role() Role { return u.role }

// IsDeleted returns true if the account has been soft-deleted.
func (u *User) IsDeleted() bool { return u.isDeleted }

// CreatedAt returns the creation timestamp.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// IsAdmin returns true if the user holds the admin role.
func (u *User) IsAdmin() bool { return u.role == RoleAdmin }

// MarkDeleted soft-deletes the account.
func (u *User) MarkDeleted() {
	u.isDeleted = true
	u.updatedAt = time.Now().UTC()
}
