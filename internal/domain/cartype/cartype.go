package cartype

import (
	"time"

	"github.com/wheelshare/service-rental/internal/domain"
)

// CarTypeID identifies a car type. Assigned by storage.
type CarTypeID int64

// CarType is a catalogue entry cars reference, e.g. "Moskvich 412".
type CarType struct {
	id        CarTypeID
	name      string
	imageURL  string
	createdAt time.Time
	updatedAt time.Time
}

// NewCarType creates a new CarType with validated fields.
func NewCarType(name, imageURL string) (*CarType, error) {
	if name == "" {
		return nil, domain.NewValidationError("car type name is required")
	}

	now := time.Now().UTC()
	return &CarType{
		name:      name,
		imageURL:  imageURL,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a CarType from persistence data (no validation).
func Reconstruct(id CarTypeID, name, imageURL string, createdAt, updatedAt time.Time) *CarType {
	return &CarType{
		id:        id,
		name:      name,
		imageURL:  imageURL,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (t *CarType) ID() CarTypeID        { return t.id }
func (t *CarType) Name() string         { return t.name }
func (t *CarType) ImageURL() string     { return t.imageURL }
func (t *CarType) CreatedAt() time.Time { return t.createdAt }
func (t *CarType) UpdatedAt() time.Time { return t.updatedAt }

// Rename updates the name and image of the car type.
func (t *CarType) Rename(name, imageURL string) error {
	if name == "" {
		return domain.NewValidationError("car type name is required")
	}
	t.name = name
	if imageURL != "" {
		t.imageURL = imageURL
	}
	t.updatedAt = time.Now().UTC()
	return nil
}
