package car

import (
	"time"

	"github.com/wheelshare/service-rental/internal/domain"
	"github.com/wheelshare/service-rental/internal/domain/cartype"
	"github.com/wheelshare/service-rental/internal/domain/user"
)

// CarID identifies a car. Ids are assigned by storage; zero means the
// car has not been persisted yet.
type CarID int64

// CarState is the operational state of a car.
type CarState string

const (
	StateAvailable CarState = "available"
	StateLocked    CarState = "locked"
)

// IsValid returns true if the car state is recognized.
func (s CarState) IsValid() bool {
	return s == StateAvailable || s == StateLocked
}

// String returns the string representation of the state.
func (s CarState) String() string { return string(s) }

// FuelType describes how a car is powered.
type FuelType string

const (
	FuelPetrol   FuelType = "petrol"
	FuelDiesel   FuelType = "diesel"
	FuelElectric FuelType = "electric"
)

// IsValid returns true if the fuel type is recognized.
func (f FuelType) IsValid() bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelElectric:
		return true
	}
	return false
}

// Car is the aggregate root for a rentable vehicle.
type Car struct {
	id           CarID
	ownerID      user.UserID
	carTypeID    cartype.CarTypeID
	name         string
	state        CarState
	fuelType     FuelType
	horsepower   int
	licensePlate string
	info         string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewCar creates a new Car in the available state with validated fields.
// The license plate may be empty; uniqueness is enforced by the service.
func NewCar(
	ownerID user.UserID,
	carTypeID cartype.CarTypeID,
	name string,
	fuelType FuelType,
	horsepower int,
	licensePlate, info string,
) (*Car, error) {
	if ownerID <= 0 {
		return nil, domain.NewValidationError("owner id is required")
	}
	if carTypeID <= 0 {
		return nil, domain.NewValidationError("car type id is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("car name is required")
	}
	if !fuelType.IsValid() {
		return nil, domain.NewValidationError("invalid fuel type: " + string(fuelType))
	}
	if horsepower <= 0 {
		return nil, domain.NewValidationError("horsepower must be positive")
	}

	now := time.Now().UTC()
	return &Car{
		ownerID:      ownerID,
		carTypeID:    carTypeID,
		name:         name,
		state:        StateAvailable,
		fuelType:     fuelType,
		horsepower:   horsepower,
		licensePlate: licensePlate,
		info:         info,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a Car from persistence data (no validation).
func Reconstruct(
	id CarID,
	ownerID user.UserID,
	carTypeID cartype.CarTypeID,
	name string,
	state CarState,
	fuelType FuelType,
	horsepower int,
	licensePlate, info string,
	createdAt, updatedAt time.Time,
) *Car {
	return &Car{
		id:           id,
		ownerID:      ownerID,
		carTypeID:    carTypeID,
		name:         name,
		state:        state,
		fuelType:     fuelType,
		horsepower:   horsepower,
		licensePlate: licensePlate,
		info:         info,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (c *Car) ID() CarID                    { return c.id }
func (c *Car) OwnerID() user.UserID         { return c.ownerID }
func (c *Car) CarTypeID() cartype.CarTypeID { return c.carTypeID }
func (c *Car) Name() string                 { return c.name }
func (c *Car) State() CarState              { return c.state }
func (c *Car) FuelType() FuelType           { return c.fuelType }
func (c *Car) Horsepower() int              { return c.horsepower }
func (c *Car) LicensePlate() string         { return c.licensePlate }
func (c *Car) Info() string                 { return c.info }
func (c *Car) CreatedAt() time.Time         { return c.createdAt }
func (c *Car) UpdatedAt() time.Time         { return c.updatedAt }

// IsOwnedBy checks if the car belongs to the given user.
func (c *Car) IsOwnedBy(id user.UserID) bool {
	return c.ownerID == id
}

// Update applies partial updates to the car's descriptive fields.
func (c *Car) Update(name string, fuelType FuelType, horsepower int, licensePlate, info string) error {
	if fuelType != "" && !fuelType.IsValid() {
		return domain.NewValidationError("invalid fuel type: " + string(fuelType))
	}
	if name != "" {
		c.name = name
	}
	if fuelType != "" {
		c.fuelType = fuelType
	}
	if horsepower > 0 {
		c.horsepower = horsepower
	}
	if licensePlate != "" {
		c.licensePlate = licensePlate
	}
	if info != "" {
		c.info = info
	}
	c.updatedAt = time.Now().UTC()
	return nil
}

// SetState changes the operational state of the car.
func (c *Car) SetState(state CarState) error {
	if !state.IsValid() {
		return domain.NewValidationError("invalid car state: " + string(state))
	}
	c.state = state
	c.updatedAt = time.Now().UTC()
	return nil
}
