package booking

import "time"

// AvailabilityPolicy controls which existing bookings occupy a car when
// checking a candidate date range.
type AvailabilityPolicy struct {
	// IgnoreTerminalStates excludes declined and returned bookings from
	// conflict consideration. The default (false) matches the historical
	// behavior where every booking's range occupies the car.
	IgnoreTerminalStates bool
}

// Conflicts reports whether the candidate range [start, end] collides
// with the existing booking. Bounds are inclusive on both sides, so
// back-to-back bookings sharing an exact boundary timestamp conflict.
func (b *Booking) Conflicts(start, end time.Time) bool {
	return !b.startDate.After(end) && !start.After(b.endDate)
}

// IsCarAvailable reports whether a car with the given existing bookings
// can be booked for the candidate range. The caller must have validated
// end after start. Read-only; booking state is only consulted when the
// policy ignores terminal states.
func IsCarAvailable(existing []*Booking, start, end time.Time, policy AvailabilityPolicy) bool {
	for _, b := range existing {
		if policy.IgnoreTerminalStates && b.State().IsTerminal() {
			continue
		}
		if b.Conflicts(start, end) {
			return false
		}
	}
	return true
}
