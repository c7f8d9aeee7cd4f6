package car

import "fmt"

// DuplicateLicensePlateError indicates that another car already carries
// the requested license plate.
type DuplicateLicensePlateError struct {
	LicensePlate string
}

// NewDuplicateLicensePlateError creates a DuplicateLicensePlateError.
func NewDuplicateLicensePlateError(licensePlate string) *DuplicateLicensePlateError {
	return &DuplicateLicensePlateError{LicensePlate: licensePlate}
}

func (e *DuplicateLicensePlateError) Error() string {
	return fmt.Sprintf("license plate %s is already in use", e.LicensePlate)
}
