package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_Days(t *testing.T) {
	testCases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		expected int
	}{
		{
			name:     "three day block",
			checkIn:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			checkOut: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
			expected: 3,
		},
		{
			name:     "across a month boundary",
			checkIn:  time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
			checkOut: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
			expected: 3,
		},
		{
			name:     "partial day rounds down",
			checkIn:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			checkOut: time.Date(2024, 1, 3, 6, 0, 0, 0, time.UTC),
			expected: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := Booking{CheckInDate: tc.checkIn, CheckOutDate: tc.checkOut}
			assert.Equal(t, tc.expected, b.Days())
		})
	}
}

func TestNewAvailability(t *testing.T) {
	b := NewAvailability("b1", time.Date(2024, 2, 28, 17, 45, 0, 0, time.UTC), 2)

	assert.Equal(t, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), b.CheckInDate)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), b.CheckOutDate, "2024 is a leap year")
	assert.Equal(t, 2, b.DurationInDays)
	assert.Equal(t, b.DurationInDays, b.Days())
	assert.False(t, b.IsBooked())
}

func TestBooking_IsBooked(t *testing.T) {
	at := time.Now()
	assert.True(t, Booking{BookedDate: &at}.IsBooked())
	assert.False(t, Booking{}.IsBooked())
}

func TestFormatArea(t *testing.T) {
	assert.Equal(t, "20.0", FormatArea(20))
	assert.Equal(t, "12.5", FormatArea(12.5))
	assert.Equal(t, "0.0", FormatArea(0))
	assert.Equal(t, "3.25", FormatArea(3.25))
}

func TestValidateAvailability(t *testing.T) {
	testCases := []struct {
		name  string
		start time.Time
		days  int
		valid bool
	}{
		{name: "ordinary block", start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), days: 3, valid: true},
		{name: "before unix epoch", start: time.Date(1960, 5, 1, 0, 0, 0, 0, time.UTC), days: 3, valid: true},
		{name: "first supported day", start: MinAvailableDate, days: 1, valid: true},
		{name: "ends on last supported day", start: time.Date(2299, 12, 30, 0, 0, 0, 0, time.UTC), days: 1, valid: true},
		{name: "zero days", start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), days: 0},
		{name: "too early", start: time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC), days: 1},
		{name: "runs past last supported day", start: time.Date(2299, 12, 30, 0, 0, 0, 0, time.UTC), days: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAvailability(tc.start, tc.days)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidAvailability))
			}
		})
	}
}
