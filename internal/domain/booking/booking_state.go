package booking

import "github.com/wheelshare/service-rental/internal/domain"

// BookingState represents the current state of a booking in its lifecycle.
type BookingState string

const (
	StatePending  BookingState = "pending"
	StateAccepted BookingState = "accepted"
	StateDeclined BookingState = "declined"
	StatePickedUp BookingState = "picked_up"
	StateReturned BookingState = "returned"
)

// validTransitions defines the state machine for booking state changes.
// Declined and returned are terminal.
var validTransitions = map[BookingState][]BookingState{
	StatePending:  {StateAccepted, StateDeclined},
	StateAccepted: {StatePickedUp},
	StatePickedUp: {StateReturned},
	StateDeclined: {},
	StateReturned: {},
}

// IsValid returns true if the state is a recognized booking state.
func (s BookingState) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this state to the
// target is allowed. A same-state transition is treated as a no-op and
// allowed.
func (s BookingState) CanTransitionTo(target BookingState) bool {
	if s == target {
		return target.IsValid()
	}
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from
// this state.
func (s BookingState) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// String returns the string representation of the state.
func (s BookingState) String() string {
	return string(s)
}

// ParseBookingState converts a string to a BookingState, returning an
// error if the value is not recognized.
func ParseBookingState(s string) (BookingState, error) {
	state := BookingState(s)
	if !state.IsValid() {
		return "", domain.NewValidationError("invalid booking state: " + s)
	}
	return state, nil
}
