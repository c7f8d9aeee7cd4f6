package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	cartypeDomain "github.com/wheelshare/service-rental/internal/domain/cartype"
)

// CreateCarTypeRequest is the request DTO for adding a catalogue entry.
type CreateCarTypeRequest struct {
	Name     string `json:"name" binding:"required"`
	ImageURL string `json:"image_url"`
}

// UpdateCarTypeRequest is the request DTO for renaming a car type.
type UpdateCarTypeRequest struct {
	Name     string `json:"name" binding:"required"`
	ImageURL string `json:"image_url"`
}

// CarTypeDTO is the API response representation of a car type.
type CarTypeDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CarTypeService implements use cases for the car type catalogue.
// Mutations are admin-only, enforced at the routing layer.
type CarTypeService struct {
	repo   cartypeDomain.Repository
	logger *zap.Logger
}

// NewCarTypeService creates a new CarTypeService.
func NewCarTypeService(repo cartypeDomain.Repository, logger *zap.Logger) *CarTypeService {
	return &CarTypeService{repo: repo, logger: logger}
}

// CreateCarType adds a new catalogue entry.
func (s *CarTypeService) CreateCarType(ctx context.Context, req CreateCarTypeRequest) (*CarTypeDTO, error) {
	t, err := cartypeDomain.NewCarType(req.Name, req.ImageURL)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to save car type: %w", err)
	}

	s.logger.Info("car type created", zap.Int64("car_type_id", int64(saved.ID())))
	result := toCarTypeDTO(saved)
	return &result, nil
}

// GetCarType returns a single catalogue entry by id.
func (s *CarTypeService) GetCarType(ctx context.Context, id cartypeDomain.CarTypeID) (*CarTypeDTO, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toCarTypeDTO(t)
	return &result, nil
}

// GetCarTypes returns the whole catalogue.
func (s *CarTypeService) GetCarTypes(ctx context.Context) ([]CarTypeDTO, error) {
	types, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get car types: %w", err)
	}
	dtos := make([]CarTypeDTO, len(types))
	for i, t := range types {
		dtos[i] = toCarTypeDTO(t)
	}
	return dtos, nil
}

// UpdateCarType renames a catalogue entry.
func (s *CarTypeService) UpdateCarType(ctx context.Context, id cartypeDomain.CarTypeID, req UpdateCarTypeRequest) (*CarTypeDTO, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := t.Rename(req.Name, req.ImageURL); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update car type: %w", err)
	}

	result := toCarTypeDTO(t)
	return &result, nil
}

func toCarTypeDTO(t *cartypeDomain.CarType) CarTypeDTO {
	return CarTypeDTO{
		ID:        int64(t.ID()),
		Name:      t.Name(),
		ImageURL:  t.ImageURL(),
		CreatedAt: t.CreatedAt(),
		UpdatedAt: t.UpdatedAt(),
	}
}
