package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wheelshare/service-rental/internal/domain"
	carDomain "github.com/wheelshare/service-rental/internal/domain/car"
	photoDomain "github.com/wheelshare/service-rental/internal/domain/carphoto"
)

// UploadPhotoRequest holds the data to upload a car listing photo.
type UploadPhotoRequest struct {
	Kind     string `json:"kind" binding:"required"`
	PhotoURL string `json:"photo_url" binding:"required"`
	Caption  string `json:"caption"`
}

// CarPhotoDTO is the API response representation of a car photo.
type CarPhotoDTO struct {
	ID        uuid.UUID `json:"id"`
	CarID     int64     `json:"car_id"`
	Kind      string    `json:"kind"`
	PhotoURL  string    `json:"photo_url"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CarPhotoService handles car listing photo use cases. Only the car's
// owner may upload or remove photos; anyone may view them.
type CarPhotoService struct {
	repo    photoDomain.Repository
	carRepo carDomain.Repository
	logger  *zap.Logger
}

// NewCarPhotoService creates a new CarPhotoService.
func NewCarPhotoService(repo photoDomain.Repository, carRepo carDomain.Repository, logger *zap.Logger) *CarPhotoService {
	return &CarPhotoService{repo: repo, carRepo: carRepo, logger: logger}
}

// UploadPhoto attaches a new photo to a car listing.
func (s *CarPhotoService) UploadPhoto(ctx context.Context, actor Actor, carID carDomain.CarID, req UploadPhotoRequest) (*CarPhotoDTO, error) {
	c, err := s.carRepo.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !c.IsOwnedBy(actor.UserID) {
		return nil, domain.NewForbiddenError("you do not own this car")
	}

	photo, err := photoDomain.NewCarPhoto(
		carID,
		actor.UserID,
		photoDomain.PhotoKind(req.Kind),
		req.PhotoURL,
		req.Caption,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, photo); err != nil {
		return nil, err
	}

	s.logger.Info("car photo uploaded",
		zap.Int64("car_id", int64(carID)),
		zap.String("kind", req.Kind),
	)

	return toCarPhotoDTO(photo), nil
}

// GetCarPhotos returns all photos for a car.
func (s *CarPhotoService) GetCarPhotos(ctx context.Context, carID carDomain.CarID) ([]*CarPhotoDTO, error) {
	photos, err := s.repo.FindByCarID(ctx, carID)
	if err != nil {
		return nil, err
	}

	dtos := make([]*CarPhotoDTO, len(photos))
	for i, p := range photos {
		dtos[i] = toCarPhotoDTO(p)
	}
	return dtos, nil
}

// DeletePhoto removes a photo from a car listing.
func (s *CarPhotoService) DeletePhoto(ctx context.Context, actor Actor, id uuid.UUID) error {
	photo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	c, err := s.carRepo.FindByID(ctx, photo.CarID())
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && !c.IsOwnedBy(actor.UserID) {
		return domain.NewForbiddenError("you do not own this car")
	}

	return s.repo.DeleteByID(ctx, id)
}

func toCarPhotoDTO(p *photoDomain.CarPhoto) *CarPhotoDTO {
	return &CarPhotoDTO{
		ID:        p.ID(),
		CarID:     int64(p.CarID()),
		Kind:      string(p.Kind()),
		PhotoURL:  p.PhotoURL(),
		Caption:   p.Caption(),
		CreatedAt: p.CreatedAt(),
	}
}
