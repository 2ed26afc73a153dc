package models

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Account represents a host (cage owner) account
type Account struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	CageIDs   []string
}

// Cage represents a boarding enclosure offered by a host
type Cage struct {
	ID             string
	OwnerID        string
	Name           string
	SquareMetres   float64
	Carpeted       bool
	HasToys        bool
	AllowDangerous bool
	Price          float64
	RegisteredAt   time.Time
	Bookings       []Booking
}

// CageSpec holds the fields a host supplies when registering a cage
type CageSpec struct {
	Name           string
	SquareMetres   float64
	Carpeted       bool
	HasToys        bool
	AllowDangerous bool
	Price          float64
}

// Booking is an availability block on a cage. BookedDate is nil while the
// block is open and set once a guest reserves it.
type Booking struct {
	ID             string
	CheckInDate    time.Time
	CheckOutDate   time.Time
	DurationInDays int
	BookedDate     *time.Time
	GuestOwnerID   string
}

// Days returns the length of the block computed from its check-in and check-out dates
func (b Booking) Days() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}

// IsBooked reports whether a guest has reserved the block
func (b Booking) IsBooked() bool {
	return b.BookedDate != nil
}

// Availability blocks must fall inside this range; it is the span of a
// ClickHouse Date32 column, the narrowest store the blocks are written to.
var (
	MinAvailableDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	MaxAvailableDate = time.Date(2299, 12, 31, 0, 0, 0, 0, time.UTC)
)

// ErrInvalidAvailability is returned for blocks that are empty or out of range
var ErrInvalidAvailability = errors.New("invalid availability block")

// ValidateAvailability checks a block of days starting on start's date
func ValidateAvailability(start time.Time, days int) error {
	if days < 1 {
		return fmt.Errorf("%w: length %d must be at least one day", ErrInvalidAvailability, days)
	}
	checkIn := DateOnly(start)
	checkOut := checkIn.AddDate(0, 0, days)
	if checkIn.Before(MinAvailableDate) || checkOut.After(MaxAvailableDate) {
		return fmt.Errorf("%w: dates must be between %s and %s", ErrInvalidAvailability,
			MinAvailableDate.Format("2006-01-02"), MaxAvailableDate.Format("2006-01-02"))
	}
	return nil
}

// NewAvailability builds an open block of the given length starting on start's date
func NewAvailability(id string, start time.Time, days int) Booking {
	checkIn := DateOnly(start)
	return Booking{
		ID:             id,
		CheckInDate:    checkIn,
		CheckOutDate:   checkIn.AddDate(0, 0, days),
		DurationInDays: days,
	}
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatArea renders square metres with at least one decimal place (20.0, 12.5)
func FormatArea(sqm float64) string {
	if sqm == float64(int64(sqm)) {
		return fmt.Sprintf("%.1f", sqm)
	}
	return strconv.FormatFloat(sqm, 'f', -1, 64)
}
