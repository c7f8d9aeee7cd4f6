package application

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/wheelshare/service-rental/internal/database"
	"github.com/wheelshare/service-rental/internal/domain"
	bookingDomain "github.com/wheelshare/service-rental/internal/domain/booking"
	carDomain "github.com/wheelshare/service-rental/internal/domain/car"
	cartypeDomain "github.com/wheelshare/service-rental/internal/domain/cartype"
	userDomain "github.com/wheelshare/service-rental/internal/domain/user"
	"github.com/wheelshare/service-rental/internal/events"
)

const (
	carCacheKeyAll = "cars"
	carCacheTTL    = 5 * time.Minute
)

// CreateCarRequest is the request DTO for registering a car.
type CreateCarRequest struct {
	CarTypeID    int64  `json:"car_type_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	FuelType     string `json:"fuel_type" binding:"required,fueltype"`
	Horsepower   int    `json:"horsepower" binding:"required"`
	LicensePlate string `json:"license_plate"`
	Info         string `json:"info"`
}

// UpdateCarRequest is the request DTO for a partial car update. Empty
// fields are left unchanged.
type UpdateCarRequest struct {
	Name         string `json:"name"`
	State        string `json:"state" binding:"omitempty,carstate"`
	FuelType     string `json:"fuel_type" binding:"omitempty,fueltype"`
	Horsepower   int    `json:"horsepower"`
	LicensePlate string `json:"license_plate"`
	Info         string `json:"info"`
}

// CarDTO is the API response representation of a car.
type CarDTO struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	CarTypeID    int64     `json:"car_type_id"`
	Name         string    `json:"name"`
	State        string    `json:"state"`
	FuelType     string    `json:"fuel_type"`
	Horsepower   int       `json:"horsepower"`
	LicensePlate string    `json:"license_plate,omitempty"`
	Info         string    `json:"info,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CarService implements use cases for the car catalogue. Reads go
// through an in-process cache; every write invalidates it and publishes
// a CarUpdated event so other instances invalidate theirs too.
type CarService struct {
	tx          database.Transactor
	repo        carDomain.Repository
	carTypeRepo cartypeDomain.Repository
	bookingRepo bookingDomain.Repository
	cache       *gocache.Cache
	producer    EventPublisher
	logger      *zap.Logger
}

// NewCarService creates a new CarService.
func NewCarService(
	tx database.Transactor,
	repo carDomain.Repository,
	carTypeRepo cartypeDomain.Repository,
	bookingRepo bookingDomain.Repository,
	cache *gocache.Cache,
	producer EventPublisher,
	logger *zap.Logger,
) *CarService {
	return &CarService{
		tx:          tx,
		repo:        repo,
		carTypeRepo: carTypeRepo,
		bookingRepo: bookingRepo,
		cache:       cache,
		producer:    producer,
		logger:      logger,
	}
}

// CreateCar registers a new car for the given owner.
func (s *CarService) CreateCar(ctx context.Context, actor Actor, req CreateCarRequest) (*CarDTO, error) {
	var saved *carDomain.Car
	err := s.tx.Transactional(ctx, func(ctx context.Context) error {
		if _, err := s.carTypeRepo.FindByID(ctx, cartypeDomain.CarTypeID(req.CarTypeID)); err != nil {
			return err
		}
		if req.LicensePlate != "" {
			existing, err := s.repo.FindByLicensePlate(ctx, req.LicensePlate)
			if err != nil {
				return err
			}
			if existing != nil {
				return carDomain.NewDuplicateLicensePlateError(req.LicensePlate)
			}
		}

		c, err := carDomain.NewCar(
			actor.UserID,
			cartypeDomain.CarTypeID(req.CarTypeID),
			req.Name,
			carDomain.FuelType(req.FuelType),
			req.Horsepower,
			req.LicensePlate,
			req.Info,
		)
		if err != nil {
			return err
		}

		saved, err = s.repo.Save(ctx, c)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCarWrite(ctx, saved.ID())
	s.logger.Info("car registered",
		zap.Int64("car_id", int64(saved.ID())),
		zap.Int64("owner_id", int64(actor.UserID)),
	)
	result := toCarDTO(saved)
	return &result, nil
}

// GetCar returns a single car by id.
func (s *CarService) GetCar(ctx context.Context, id carDomain.CarID) (*CarDTO, error) {
	if cached, ok := s.cache.Get(carCacheKey(id)); ok {
		dto := cached.(CarDTO)
		return &dto, nil
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toCarDTO(c)
	s.cache.Set(carCacheKey(id), result, carCacheTTL)
	return &result, nil
}

// GetCars returns the whole car catalogue.
func (s *CarService) GetCars(ctx context.Context) ([]CarDTO, error) {
	if cached, ok := s.cache.Get(carCacheKeyAll); ok {
		return cached.([]CarDTO), nil
	}

	cars, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get cars: %w", err)
	}
	dtos := make([]CarDTO, len(cars))
	for i, c := range cars {
		dtos[i] = toCarDTO(c)
	}
	s.cache.Set(carCacheKeyAll, dtos, carCacheTTL)
	return dtos, nil
}

// UpdateCar applies a partial update. The owner (or an admin) may change
// anything; the renter currently holding the car picked up may only flip
// its lock state.
func (s *CarService) UpdateCar(ctx context.Context, actor Actor, id carDomain.CarID, req UpdateCarRequest) (*CarDTO, error) {
	var updated *carDomain.Car
	err := s.tx.Transactional(ctx, func(ctx context.Context) error {
		c, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		isOwner := actor.IsAdmin() || c.IsOwnedBy(actor.UserID)
		if !isOwner {
			if !s.isLockFlipOnly(req) {
				return domain.NewForbiddenError("you do not own this car")
			}
			holding, err := s.hasPickedUpBooking(ctx, actor.UserID, id)
			if err != nil {
				return err
			}
			if !holding {
				return domain.NewForbiddenError("only the current renter may lock or unlock the car")
			}
		}

		if isOwner {
			if req.LicensePlate != "" && req.LicensePlate != c.LicensePlate() {
				existing, err := s.repo.FindByLicensePlate(ctx, req.LicensePlate)
				if err != nil {
					return err
				}
				if existing != nil {
					return carDomain.NewDuplicateLicensePlateError(req.LicensePlate)
				}
			}
			if err := c.Update(req.Name, carDomain.FuelType(req.FuelType), req.Horsepower, req.LicensePlate, req.Info); err != nil {
				return err
			}
		}
		if req.State != "" {
			if err := c.SetState(carDomain.CarState(req.State)); err != nil {
				return err
			}
		}

		if err := s.repo.Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCarWrite(ctx, updated.ID())
	result := toCarDTO(updated)
	return &result, nil
}

// InvalidateCar drops the cached entries for a car. Called by the car
// event consumer when another instance publishes a change.
func (s *CarService) InvalidateCar(id carDomain.CarID) {
	s.cache.Delete(carCacheKey(id))
	s.cache.Delete(carCacheKeyAll)
}

// --- Helpers ---

// isLockFlipOnly reports whether the update touches nothing but the
// car's lock state.
func (s *CarService) isLockFlipOnly(req UpdateCarRequest) bool {
	return req.State != "" &&
		req.Name == "" && req.FuelType == "" && req.Horsepower == 0 &&
		req.LicensePlate == "" && req.Info == ""
}

// hasPickedUpBooking reports whether the user currently has the car
// picked up under an active booking.
func (s *CarService) hasPickedUpBooking(ctx context.Context, userID userDomain.UserID, carID carDomain.CarID) (bool, error) {
	bookings, err := s.bookingRepo.FindByCarID(ctx, carID)
	if err != nil {
		return false, err
	}
	for _, bk := range bookings {
		if bk.IsRentedBy(userID) && bk.State() == bookingDomain.StatePickedUp {
			return true, nil
		}
	}
	return false, nil
}

func (s *CarService) afterCarWrite(ctx context.Context, id carDomain.CarID) {
	s.InvalidateCar(id)

	evt := events.CarUpdatedEvent{CarID: id, OccurredAt: time.Now().UTC()}
	cloudEvent, err := events.NewCloudEvent("service-rental", events.CarUpdated, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event", zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicCarEvents, fmt.Sprintf("%d", id), cloudEvent); err != nil {
		s.logger.Error("failed to publish car event",
			zap.Int64("car_id", int64(id)),
			zap.Error(err),
		)
	}
}

func carCacheKey(id carDomain.CarID) string {
	return fmt.Sprintf("car:%d", id)
}

func toCarDTO(c *carDomain.Car) CarDTO {
	return CarDTO{
		ID:           int64(c.ID()),
		OwnerID:      int64(c.OwnerID()),
		CarTypeID:    int64(c.CarTypeID()),
		Name:         c.Name(),
		State:        c.State().String(),
		FuelType:     string(c.FuelType()),
		Horsepower:   c.Horsepower(),
		LicensePlate: c.LicensePlate(),
		Info:         c.Info(),
		CreatedAt:    c.CreatedAt(),
		UpdatedAt:    c.UpdatedAt(),
	}
}
