package carphoto

import (
	"context"

	"github.com/google/uuid"

	"github.com/wheelshare/service-rental/internal/domain/car"
)

// Repository defines persistence operations for car photos.
type Repository interface {
	Save(ctx context.Context, photo *CarPhoto) error
	FindByCarID(ctx context.Context, carID car.CarID) ([]*CarPhoto, error)
	FindByID(ctx context.Context, id uuid.UUID) (*CarPhoto, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
