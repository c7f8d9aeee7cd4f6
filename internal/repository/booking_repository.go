package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wheelshare/service-rental/internal/database"
	"github.com/wheelshare/service-rental/internal/domain"
	bookingDomain "github.com/wheelshare/service-rental/internal/domain/booking"
	carDomain "github.com/wheelshare/service-rental/internal/domain/car"
	userDomain "github.com/wheelshare/service-rental/internal/domain/user"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	StartDate time.Time `gorm:"not null;index"`
	EndDate   time.Time `gorm:"not null"`
	CarID     int64     `gorm:"not null;index"`
	RenterID  int64     `gorm:"not null;index"`
	OwnerID   int64     `gorm:"not null;index"`
	State     string    `gorm:"not null;size:20;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// conn returns the ambient transaction when one is open, otherwise the
// base connection.
func (r *GormBookingRepository) conn(ctx context.Context) *gorm.DB {
	if tx := database.FromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id bookingDomain.BookingID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.conn(ctx).Where("id = ?", int64(id)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookingDomain.NewBookingNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to find booking by id: %w", err)
	}
	return toDomainBooking(&model)
}

// FindAll retrieves every booking.
func (r *GormBookingRepository) FindAll(ctx context.Context) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.conn(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	return toDomainBookings(models)
}

// FindByUser retrieves bookings where the user is renter or car owner.
func (r *GormBookingRepository) FindByUser(ctx context.Context, userID userDomain.UserID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.conn(ctx).
		Where("renter_id = ? OR owner_id = ?", int64(userID), int64(userID)).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings for user: %w", err)
	}
	return toDomainBookings(models)
}

// FindByCarID retrieves all bookings for the given car.
func (r *GormBookingRepository) FindByCarID(ctx context.Context, carID carDomain.CarID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.conn(ctx).
		Where("car_id = ?", int64(carID)).
		Order("start_date ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by car: %w", err)
	}
	return toDomainBookings(models)
}

// Save persists a new booking and returns it with the assigned id.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) (*bookingDomain.Booking, error) {
	model := toBookingModel(b)
	model.ID = 0 // the database assigns ids
	if err := r.conn(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}
	return toDomainBooking(model)
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)

	// IncrementVersion has already been called, so the row must still
	// hold the previous version.
	expectedVersion := b.Version() - 1
	result := r.conn(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"start_date": model.StartDate,
			"end_date":   model.EndDate,
			"state":      model.State,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// DeleteByID removes a booking and returns the removed record.
func (r *GormBookingRepository) DeleteByID(ctx context.Context, id bookingDomain.BookingID) (*bookingDomain.Booking, error) {
	var model BookingModel
	conn := r.conn(ctx)
	if err := conn.Where("id = ?", int64(id)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookingDomain.NewBookingNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to find booking for deletion: %w", err)
	}

	if err := conn.Delete(&BookingModel{}, int64(id)).Error; err != nil {
		return nil, fmt.Errorf("failed to delete booking: %w", err)
	}
	return toDomainBooking(&model)
}

// ListAll retrieves bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	conn := r.conn(ctx)

	var total int64
	if err := conn.Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := conn.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByState returns booking counts grouped by state (admin).
func (r *GormBookingRepository) CountByState(ctx context.Context) (map[string]int64, error) {
	type stateCount struct {
		State string
		Count int64
	}
	var results []stateCount
	if err := r.conn(ctx).Model(&BookingModel{}).
		Select("state, count(*) as count").
		Group("state").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by state: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.State] = sc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        int64(b.ID()),
		StartDate: b.StartDate(),
		EndDate:   b.EndDate(),
		CarID:     int64(b.CarID()),
		RenterID:  int64(b.RenterID()),
		OwnerID:   int64(b.OwnerID()),
		State:     b.State().String(),
		Version:   b.Version(),
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	state, err := bookingDomain.ParseBookingState(m.State)
	if err != nil {
		return nil, err
	}
	return bookingDomain.Reconstruct(
		bookingDomain.BookingID(m.ID),
		carDomain.CarID(m.CarID),
		userDomain.UserID(m.RenterID),
		userDomain.UserID(m.OwnerID),
		m.StartDate,
		m.EndDate,
		state,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		b, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}
