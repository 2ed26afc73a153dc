package storage

import (
	"context"
	"errors"
	"time"

	"snakebnb/internal/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// Storage defines the interface for data storage operations
type Storage interface {
	// Account operations

	// FindAccountByEmail returns ErrNotFound when no account uses the email
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	CreateAccount(ctx context.Context, name, email string) (*models.Account, error)
	// GetAccount reloads an account, including its current cage ids
	GetAccount(ctx context.Context, id string) (*models.Account, error)

	// Cage operations

	// FindCagesForAccount returns the account's cages in registration order,
	// each with its bookings ordered by check-in date
	FindCagesForAccount(ctx context.Context, account *models.Account) ([]models.Cage, error)
	RegisterCage(ctx context.Context, account *models.Account, spec models.CageSpec) (*models.Cage, error)

	// Availability operations

	// AddAvailableDate appends an open block of days starting on start to the cage
	AddAvailableDate(ctx context.Context, cageID string, start time.Time, days int) (*models.Booking, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
