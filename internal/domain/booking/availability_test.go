package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func existingBooking(t *testing.T, start, end time.Time) *Booking {
	t.Helper()
	bk, err := NewBooking(1, 2, 3, start, end)
	require.NoError(t, err)
	return bk
}

func TestConflicts(t *testing.T) {
	// Existing booking occupies days 10 through 14.
	bk := existingBooking(t, day(10), day(14))

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		conflict bool
	}{
		{"fully before", day(1), day(5), false},
		{"fully after", day(20), day(25), false},
		{"candidate end touches existing start", day(5), day(10), true},
		{"candidate start touches existing end", day(14), day(20), true},
		{"overlaps front", day(8), day(12), true},
		{"overlaps back", day(12), day(18), true},
		{"fully inside", day(11), day(13), true},
		{"fully contains", day(8), day(18), true},
		{"identical range", day(10), day(14), true},
		{"ends just before", day(5), day(10).Add(-time.Second), false},
		{"starts just after", day(14).Add(time.Second), day(20), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.conflict, bk.Conflicts(tt.start, tt.end))
		})
	}
}

func TestIsCarAvailable(t *testing.T) {
	existing := []*Booking{
		existingBooking(t, day(1), day(3)),
		existingBooking(t, day(10), day(14)),
	}

	assert.True(t, IsCarAvailable(existing, day(5), day(8), AvailabilityPolicy{}))
	assert.False(t, IsCarAvailable(existing, day(2), day(4), AvailabilityPolicy{}))
	assert.False(t, IsCarAvailable(existing, day(8), day(11), AvailabilityPolicy{}))
	assert.True(t, IsCarAvailable(nil, day(1), day(30), AvailabilityPolicy{}))
}

func TestIsCarAvailable_TerminalStates(t *testing.T) {
	declined, err := existingBooking(t, day(10), day(14)).WithState(StateDeclined)
	require.NoError(t, err)
	existing := []*Booking{declined}

	// By default even a declined booking occupies the car.
	assert.False(t, IsCarAvailable(existing, day(12), day(16), AvailabilityPolicy{}))

	// With the policy flag, terminal bookings release the range.
	assert.True(t, IsCarAvailable(existing, day(12), day(16), AvailabilityPolicy{IgnoreTerminalStates: true}))

	// Non-terminal bookings still conflict under the flag.
	pending := existingBooking(t, day(10), day(14))
	assert.False(t, IsCarAvailable([]*Booking{pending}, day(12), day(16), AvailabilityPolicy{IgnoreTerminalStates: true}))
}
