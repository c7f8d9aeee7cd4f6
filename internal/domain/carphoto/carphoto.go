package carphoto

import (
	"time"

	"github.com/google/uuid"

	"github.com/wheelshare/service-rental/internal/domain"
	"github.com/wheelshare/service-rental/internal/domain/car"
	"github.com/wheelshare/service-rental/internal/domain/user"
)

// PhotoKind classifies a car listing photo.
type PhotoKind string

const (
	PhotoKindExterior PhotoKind = "exterior"
	PhotoKindInterior PhotoKind = "interior"
)

// IsValid returns true if the photo kind is recognized.
func (k PhotoKind) IsValid() bool {
	return k == PhotoKindExterior || k == PhotoKindInterior
}

// CarPhoto is the aggregate root for car listing photos.
type CarPhoto struct {
	id         uuid.UUID
	carID      car.CarID
	uploaderID user.UserID
	kind       PhotoKind
	photoURL   string
	caption    string
	createdAt  time.Time
}

// NewCarPhoto creates a new car photo.
func NewCarPhoto(carID car.CarID, uploaderID user.UserID, kind PhotoKind, photoURL, caption string) (*CarPhoto, error) {
	if !kind.IsValid() {
		return nil, domain.NewValidationError("invalid photo kind: " + string(kind))
	}
	if photoURL == "" {
		return nil, domain.NewValidationError("photo URL is required")
	}

	return &CarPhoto{
		id:         uuid.New(),
		carID:      carID,
		uploaderID: uploaderID,
		kind:       kind,
		photoURL:   photoURL,
		caption:    caption,
		createdAt:  time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a CarPhoto from persistence.
func Reconstruct(id uuid.UUID, carID car.CarID, uploaderID user.UserID, kind PhotoKind, photoURL, caption string, createdAt time.Time) *CarPhoto {
	return &CarPhoto{
		id:         id,
		carID:      carID,
		uploaderID: uploaderID,
		kind:       kind,
		photoURL:   photoURL,
		caption:    caption,
		createdAt:  createdAt,
	}
}

// Getters.
func (p *CarPhoto) ID() uuid.UUID          { return p.id }
func (p *CarPhoto) CarID() car.CarID       { return p.carID }
func (p *CarPhoto) UploaderID() user.UserID { return p.uploaderID }
func (p *CarPhoto) Kind() PhotoKind        { return p.kind }
func (p *CarPhoto) PhotoURL() string       { return p.photoURL }
func (p *CarPhoto) Caption() string        { return p.caption }
func (p *CarPhoto) CreatedAt() time.Time   { return p.createdAt }
