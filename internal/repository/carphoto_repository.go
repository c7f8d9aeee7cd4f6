package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wheelshare/service-rental/internal/database"
	"github.com/wheelshare/service-rental/internal/domain"
	carDomain "github.com/wheelshare/service-rental/internal/domain/car"
	photoDomain "github.com/wheelshare/service-rental/internal/domain/carphoto"
	userDomain "github.com/wheelshare/service-rental/internal/domain/user"
)

// CarPhotoModel is the GORM model for the car_photos table.
type CarPhotoModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CarID      int64     `gorm:"not null;index"`
	UploaderID int64     `gorm:"not null"`
	Kind       string    `gorm:"type:varchar(20);not null"`
	PhotoURL   string    `gorm:"type:text;not null"`
	Caption    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (CarPhotoModel) TableName() string { return "car_photos" }

// GormCarPhotoRepository implements carphoto.Repository using GORM.
type GormCarPhotoRepository struct {
	db *gorm.DB
}

// NewGormCarPhotoRepository creates a new GormCarPhotoRepository.
func NewGormCarPhotoRepository(db *gorm.DB) *GormCarPhotoRepository {
	return &GormCarPhotoRepository{db: db}
}

func (r *GormCarPhotoRepository) conn(ctx context.Context) *gorm.DB {
	if tx := database.FromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save persists a new car photo.
func (r *GormCarPhotoRepository) Save(ctx context.Context, photo *photoDomain.CarPhoto) error {
	model := toCarPhotoModel(photo)
	if err := r.conn(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save car photo: %w", err)
	}
	return nil
}

// FindByCarID returns all photos for a car.
func (r *GormCarPhotoRepository) FindByCarID(ctx context.Context, carID carDomain.CarID) ([]*photoDomain.CarPhoto, error) {
	var models []CarPhotoModel
	if err := r.conn(ctx).Where("car_id = ?", int64(carID)).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find car photos: %w", err)
	}

	photos := make([]*photoDomain.CarPhoto, len(models))
	for i := range models {
		photos[i] = toDomainCarPhoto(&models[i])
	}
	return photos, nil
}

// FindByID returns a single photo by ID.
func (r *GormCarPhotoRepository) FindByID(ctx context.Context, id uuid.UUID) (*photoDomain.CarPhoto, error) {
	var model CarPhotoModel
	if err := r.conn(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("CarPhoto", id.String())
		}
		return nil, fmt.Errorf("failed to find car photo: %w", err)
	}
	return toDomainCarPhoto(&model), nil
}

// DeleteByID removes a photo.
func (r *GormCarPhotoRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Where("id = ?", id).Delete(&CarPhotoModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete car photo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("CarPhoto", id.String())
	}
	return nil
}

func toCarPhotoModel(p *photoDomain.CarPhoto) CarPhotoModel {
	return CarPhotoModel{
		ID:         p.ID(),
		CarID:      int64(p.CarID()),
		UploaderID: int64(p.UploaderID()),
		Kind:       string(p.Kind()),
		PhotoURL:   p.PhotoURL(),
		Caption:    p.Caption(),
		CreatedAt:  p.CreatedAt(),
	}
}

func toDomainCarPhoto(m *CarPhotoModel) *photoDomain.CarPhoto {
	return photoDomain.Reconstruct(
		m.ID,
		carDomain.CarID(m.CarID),
		userDomain.UserID(m.UploaderID),
		photoDomain.PhotoKind(m.Kind),
		m.PhotoURL,
		m.Caption,
		m.CreatedAt,
	)
}
