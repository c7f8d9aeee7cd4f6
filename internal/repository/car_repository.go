package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wheelshare/service-rental/internal/database"
	"github.com/wheelshare/service-rental/internal/domain"
	carDomain "github.com/wheelshare/service-rental/internal/domain/car"
	cartypeDomain "github.com/wheelshare/service-rental/internal/domain/cartype"
	userDomain "github.com/wheelshare/service-rental/internal/domain/user"
)

// CarModel is the GORM model for the cars table.
type CarModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	OwnerID      int64     `gorm:"not null;index"`
	CarTypeID    int64     `gorm:"not null;index"`
	Name         string    `gorm:"not null;size:100"`
	State        string    `gorm:"not null;size:20"`
	FuelType     string    `gorm:"not null;size:20"`
	Horsepower   int       `gorm:"not null"`
	LicensePlate *string   `gorm:"uniqueIndex;size:20"`
	Info         string    `gorm:"size:1000"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CarModel) TableName() string {
	return "cars"
}

// GormCarRepository is the GORM-based implementation of car.Repository.
type GormCarRepository struct {
	db *gorm.DB
}

// NewGormCarRepository creates a new GormCarRepository.
func NewGormCarRepository(db *gorm.DB) *GormCarRepository {
	return &GormCarRepository{db: db}
}

func (r *GormCarRepository) conn(ctx context.Context) *gorm.DB {
	if tx := database.FromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// FindByID retrieves a car by id.
func (r *GormCarRepository) FindByID(ctx context.Context, id carDomain.CarID) (*carDomain.Car, error) {
	var model CarModel
	if err := r.conn(ctx).Where("id = ?", int64(id)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Car", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to find car by id: %w", err)
	}
	return toDomainCar(&model)
}

// FindByLicensePlate retrieves a car by plate, or nil if absent.
func (r *GormCarRepository) FindByLicensePlate(ctx context.Context, licensePlate string) (*carDomain.Car, error) {
	var model CarModel
	if err := r.conn(ctx).Where("license_plate = ?", licensePlate).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find car by license plate: %w", err)
	}
	return toDomainCar(&model)
}

// FindAll retrieves all cars.
func (r *GormCarRepository) FindAll(ctx context.Context) ([]*carDomain.Car, error) {
	var models []CarModel
	if err := r.conn(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find cars: %w", err)
	}

	cars := make([]*carDomain.Car, len(models))
	for i := range models {
		c, err := toDomainCar(&models[i])
		if err != nil {
			return nil, err
		}
		cars[i] = c
	}
	return cars, nil
}

// Save persists a new car and returns it with the assigned id.
func (r *GormCarRepository) Save(ctx context.Context, c *carDomain.Car) (*carDomain.Car, error) {
	model := toCarModel(c)
	model.ID = 0
	if err := r.conn(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save car: %w", err)
	}
	return toDomainCar(model)
}

// Update persists changes to an existing car.
func (r *GormCarRepository) Update(ctx context.Context, c *carDomain.Car) error {
	model := toCarModel(c)
	result := r.conn(ctx).
		Model(&CarModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"state":         model.State,
			"fuel_type":     model.FuelType,
			"horsepower":    model.Horsepower,
			"license_plate": model.LicensePlate,
			"info":          model.Info,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update car: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Car", fmt.Sprintf("%d", c.ID()))
	}
	return nil
}

// --- Conversion Helpers ---

func toCarModel(c *carDomain.Car) *CarModel {
	var plate *string
	if c.LicensePlate() != "" {
		p := c.LicensePlate()
		plate = &p
	}
	return &CarModel{
		ID:           int64(c.ID()),
		OwnerID:      int64(c.OwnerID()),
		CarTypeID:    int64(c.CarTypeID()),
		Name:         c.Name(),
		State:        c.State().String(),
		FuelType:     string(c.FuelType()),
		Horsepower:   c.Horsepower(),
		LicensePlate: plate,
		Info:         c.Info(),
		CreatedAt:    c.CreatedAt(),
		UpdatedAt:    c.UpdatedAt(),
	}
}

func toDomainCar(m *CarModel) (*carDomain.Car, error) {
	state := carDomain.CarState(m.State)
	if !state.IsValid() {
		return nil, fmt.Errorf("invalid car state in storage: %s", m.State)
	}
	plate := ""
	if m.LicensePlate != nil {
		plate = *m.LicensePlate
	}
	return carDomain.Reconstruct(
		carDomain.CarID(m.ID),
		userDomain.UserID(m.OwnerID),
		cartypeDomain.CarTypeID(m.CarTypeID),
		m.Name,
		state,
		carDomain.FuelType(m.FuelType),
		m.Horsepower,
		plate,
		m.Info,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
