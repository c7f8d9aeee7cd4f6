package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wheelshare/service-rental/internal/database"
	"github.com/wheelshare/service-rental/internal/domain"
	bookingDomain "github.com/wheelshare/service-rental/internal/domain/booking"
	carDomain "github.com/wheelshare/service-rental/internal/domain/car"
	userDomain "github.com/wheelshare/service-rental/internal/domain/user"
	"github.com/wheelshare/service-rental/internal/events"
)

// EventPublisher abstracts the Kafka producer so services can be tested
// without a broker.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event events.CloudEvent) error
}

// Actor identifies the authenticated caller of a use case.
type Actor struct {
	UserID userDomain.UserID
	Role   userDomain.Role
}

// IsAdmin returns true if the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == userDomain.RoleAdmin }

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	CarID     int64     `json:"car_id" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// UpdateBookingRequest holds a partial update of a booking. Nil fields
// are left unchanged.
type UpdateBookingRequest struct {
	State     *string    `json:"state" binding:"omitempty,bookingstate"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID        int64     `json:"id"`
	CarID     int64     `json:"car_id"`
	RenterID  int64     `json:"renter_id"`
	OwnerID   int64     `json:"owner_id"`
	State     string    `json:"state"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingService is the application service orchestrating booking use
// cases. Every mutating use case runs inside a single transaction so
// the availability check and the write cannot interleave with a
// concurrent booking on the same car.
type BookingService struct {
	tx           database.Transactor
	repo         bookingDomain.Repository
	carRepo      carDomain.Repository
	availability bookingDomain.AvailabilityPolicy
	producer     EventPublisher
	logger       *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	tx database.Transactor,
	repo bookingDomain.Repository,
	carRepo carDomain.Repository,
	availability bookingDomain.AvailabilityPolicy,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tx:           tx,
		repo:         repo,
		carRepo:      carRepo,
		availability: availability,
		producer:     producer,
		logger:       logger,
	}
}

// CreateBooking creates a new pending booking for the given renter,
// provided the car has no conflicting booking in the requested range.
// The date range is validated before anything touches storage.
func (s *BookingService) CreateBooking(ctx context.Context, actor Actor, req CreateBookingRequest) (*BookingDTO, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, domain.NewValidationError("end date must be after start date")
	}

	var saved *bookingDomain.Booking
	err := s.tx.Transactional(ctx, func(ctx context.Context) error {
		c, err := s.carRepo.FindByID(ctx, carDomain.CarID(req.CarID))
		if err != nil {
			return err
		}

		existing, err := s.repo.FindByCarID(ctx, c.ID())
		if err != nil {
			return err
		}
		if !bookingDomain.IsCarAvailable(existing, req.StartDate, req.EndDate, s.availability) {
			return bookingDomain.NewCarNotAvailableError(c.ID(), req.StartDate, req.EndDate)
		}

		bk, err := bookingDomain.NewBooking(c.ID(), actor.UserID, c.OwnerID(), req.StartDate, req.EndDate)
		if err != nil {
			return err
		}

		saved, err = s.repo.Save(ctx, bk)
		return err
	})
	if err != nil {
		return nil, err
	}

	evt := events.BookingCreatedEvent{
		BookingID:  saved.ID(),
		CarID:      saved.CarID(),
		RenterID:   saved.RenterID(),
		OwnerID:    saved.OwnerID(),
		StartDate:  saved.StartDate(),
		EndDate:    saved.EndDate(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCreated, bookingKey(saved.ID()), evt)

	result := toBookingDTO(saved)
	return &result, nil
}

// GetBooking retrieves a single booking. Only the renter, the car's
// owner, or an admin may read it.
func (s *BookingService) GetBooking(ctx context.Context, actor Actor, id bookingDomain.BookingID) (*BookingDTO, error) {
	var bk *bookingDomain.Booking
	err := s.tx.Transactional(ctx, func(ctx context.Context) error {
		var err error
		bk, err = s.repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := authorizeBookingRead(bk, actor); err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetBookings retrieves the bookings visible to the actor: every booking
// for admins, otherwise only bookings where the actor is renter or owner.
func (s *BookingService) GetBookings(ctx context.Context, actor Actor) ([]BookingDTO, error) {
	var bookings []*bookingDomain.Booking
	err := s.tx.Transactional(ctx, func(ctx context.Context) error {
		var err error
		if actor.IsAdmin() {
			bookings, err = s.repo.FindAll(ctx)
		} else {
			bookings, err = s.repo.FindByUser(ctx, actor.UserID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, nil
}

// UpdateBooking applies a partial update: a lifecycle transition, a date
// change while pending, or both. The state machine and the authorization
// policy both have to pass.
func (s *BookingService) UpdateBooking(ctx context.Context, actor Actor, id bookingDomain.BookingID, req UpdateBookingRequest) (*BookingDTO, error) {
	var (
		updated   *bookingDomain.Booking
		fromState bookingDomain.BookingState
		toState   bookingDomain.BookingState
	)
	err := s.tx.Transactional(ctx, func(ctx context.Context) error {
		bk, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		fromState = bk.State()
		next := bk

		if req.StartDate != nil || req.EndDate != nil {
			if !actor.IsAdmin() && !bk.IsOwnedBy(actor.UserID) {
				return domain.NewForbiddenError("only the car owner may change booking dates")
			}
			start, end := bk.StartDate(), bk.EndDate()
			if req.StartDate != nil {
				start = *req.StartDate
			}
			if req.EndDate != nil {
				end = *req.EndDate
			}

			next, err = next.WithDates(start, end)
			if err != nil {
				return err
			}

			existing, err := s.repo.FindByCarID(ctx, bk.CarID())
			if err != nil {
				return err
			}
			others := make([]*bookingDomain.Booking, 0, len(existing))
			for _, other := range existing {
				if other.ID() != bk.ID() {
					others = append(others, other)
				}
			}
			if !bookingDomain.IsCarAvailable(others, start, end, s.availability) {
				return bookingDomain.NewCarNotAvailableError(bk.CarID(), start, end)
			}
		}

		if req.State != nil {
			target, err := bookingDomain.ParseBookingState(*req.State)
			if err != nil {
				return err
			}
			// The transition table is consulted before authorization, so
			// an illegal transition is reported as such regardless of who
			// asked for it.
			if !bk.State().CanTransitionTo(target) {
				return bookingDomain.NewInvalidStateTransitionError(bk.ID(), bk.State(), target)
			}
			if err := authorizeTransition(bk, target, actor); err != nil {
				return err
			}
			next, err = next.WithState(target)
			if err != nil {
				return err
			}
		}

		next.IncrementVersion()
		if err := s.repo.Update(ctx, next); err != nil {
			return err
		}
		updated = next
		toState = next.State()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if fromState != toState {
		evt := events.BookingStateChangedEvent{
			BookingID:  updated.ID(),
			CarID:      updated.CarID(),
			FromState:  fromState.String(),
			ToState:    toState.String(),
			ChangedBy:  actor.UserID,
			OccurredAt: time.Now().UTC(),
		}
		s.publishEvent(ctx, events.TopicBookingEvents, events.BookingStateChanged, bookingKey(updated.ID()), evt)
	}

	result := toBookingDTO(updated)
	return &result, nil
}

// DeleteBooking removes a booking. An actively rented booking (picked
// up, not yet returned) cannot be deleted by anyone.
func (s *BookingService) DeleteBooking(ctx context.Context, actor Actor, id bookingDomain.BookingID) (*BookingDTO, error) {
	var removed *bookingDomain.Booking
	err := s.tx.Transactional(ctx, func(ctx context.Context) error {
		bk, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !bk.IsRentedBy(actor.UserID) {
			return domain.NewForbiddenError("booking does not belong to this user")
		}
		if bk.State() == bookingDomain.StatePickedUp {
			return bookingDomain.NewActiveBookingError(bk.ID())
		}

		removed, err = s.repo.DeleteByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	evt := events.BookingDeletedEvent{
		BookingID:  removed.ID(),
		CarID:      removed.CarID(),
		DeletedBy:  actor.UserID,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingDeleted, bookingKey(removed.ID()), evt)

	result := toBookingDTO(removed)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByState       map[string]int64 `json:"by_state"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	var (
		bookings []*bookingDomain.Booking
		total    int64
	)
	err := s.tx.Transactional(ctx, func(ctx context.Context) error {
		var err error
		bookings, total, err = s.repo.ListAll(ctx, page, limit)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	var counts map[string]int64
	err := s.tx.Transactional(ctx, func(ctx context.Context) error {
		var err error
		counts, err = s.repo.CountByState(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByState:       counts,
	}, nil
}

// --- Helpers ---

// authorizeBookingRead allows the renter, the car owner, or an admin.
func authorizeBookingRead(bk *bookingDomain.Booking, actor Actor) error {
	if actor.IsAdmin() || bk.IsRentedBy(actor.UserID) || bk.IsOwnedBy(actor.UserID) {
		return nil
	}
	return domain.NewForbiddenError("booking does not belong to this user")
}

// authorizeTransition enforces who may request each lifecycle change:
// the car owner answers a pending request (accept or decline), the
// renter reports pickup and return of their own booking. Admins may do
// either. A same-state no-op only needs read access.
func authorizeTransition(bk *bookingDomain.Booking, target bookingDomain.BookingState, actor Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if target == bk.State() {
		return authorizeBookingRead(bk, actor)
	}

	switch target {
	case bookingDomain.StateAccepted, bookingDomain.StateDeclined:
		if bk.IsOwnedBy(actor.UserID) {
			return nil
		}
	case bookingDomain.StatePickedUp, bookingDomain.StateReturned:
		if bk.IsRentedBy(actor.UserID) {
			return nil
		}
	}
	return domain.NewForbiddenError("not allowed to change this booking's state")
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:        int64(bk.ID()),
		CarID:     int64(bk.CarID()),
		RenterID:  int64(bk.RenterID()),
		OwnerID:   int64(bk.OwnerID()),
		State:     bk.State().String(),
		StartDate: bk.StartDate(),
		EndDate:   bk.EndDate(),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func bookingKey(id bookingDomain.BookingID) string {
	return fmt.Sprintf("%d", id)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	cloudEvent, err := events.NewCloudEvent("service-rental", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
