package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wheelshare/service-rental/internal/database"
	"github.com/wheelshare/service-rental/internal/domain"
	cartypeDomain "github.com/wheelshare/service-rental/internal/domain/cartype"
)

// CarTypeModel is the GORM model for the car_types table.
type CarTypeModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"not null;size:100"`
	ImageURL  string    `gorm:"size:500"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CarTypeModel) TableName() string {
	return "car_types"
}

// GormCarTypeRepository is the GORM-based implementation of cartype.Repository.
type GormCarTypeRepository struct {
	db *gorm.DB
}

// NewGormCarTypeRepository creates a new GormCarTypeRepository.
func NewGormCarTypeRepository(db *gorm.DB) *GormCarTypeRepository {
	return &GormCarTypeRepository{db: db}
}

func (r *GormCarTypeRepository) conn(ctx context.Context) *gorm.DB {
	if tx := database.FromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// FindByID retrieves a car type by id.
func (r *GormCarTypeRepository) FindByID(ctx context.Context, id cartypeDomain.CarTypeID) (*cartypeDomain.CarType, error) {
	var model CarTypeModel
	if err := r.conn(ctx).Where("id = ?", int64(id)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("CarType", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to find car type by id: %w", err)
	}
	return toDomainCarType(&model), nil
}

// FindAll retrieves all car types.
func (r *GormCarTypeRepository) FindAll(ctx context.Context) ([]*cartypeDomain.CarType, error) {
	var models []CarTypeModel
	if err := r.conn(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find car types: %w", err)
	}

	types := make([]*cartypeDomain.CarType, len(models))
	for i := range models {
		types[i] = toDomainCarType(&models[i])
	}
	return types, nil
}

// Save persists a new car type and returns it with the assigned id.
func (r *GormCarTypeRepository) Save(ctx context.Context, t *cartypeDomain.CarType) (*cartypeDomain.CarType, error) {
	model := toCarTypeModel(t)
	model.ID = 0
	if err := r.conn(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save car type: %w", err)
	}
	return toDomainCarType(model), nil
}

// Update persists changes to an existing car type.
func (r *GormCarTypeRepository) Update(ctx context.Context, t *cartypeDomain.CarType) error {
	model := toCarTypeModel(t)
	result := r.conn(ctx).
		Model(&CarTypeModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"image_url":  model.ImageURL,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update car type: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("CarType", fmt.Sprintf("%d", t.ID()))
	}
	return nil
}

// --- Conversion Helpers ---

func toCarTypeModel(t *cartypeDomain.CarType) *CarTypeModel {
	return &CarTypeModel{
		ID:        int64(t.ID()),
		Name:      t.Name(),
		ImageURL:  t.ImageURL(),
		CreatedAt: t.CreatedAt(),
		UpdatedAt: t.UpdatedAt(),
	}
}

func toDomainCarType(m *CarTypeModel) *cartypeDomain.CarType {
	return cartypeDomain.Reconstruct(
		cartypeDomain.CarTypeID(m.ID),
		m.Name,
		m.ImageURL,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
