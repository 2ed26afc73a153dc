package stubs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"snakebnb/internal/models"
	"snakebnb/internal/storage"
)

// MockDB is an in-memory implementation of the Storage interface. It backs
// the default "memory" backend and doubles as the test store.
type MockDB struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
	byEmail  map[string]string
	cages    map[string]*models.Cage
	now      func() time.Time
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		accounts: make(map[string]*models.Account),
		byEmail:  make(map[string]string),
		cages:    make(map[string]*models.Cage),
		now:      time.Now,
	}
}

// Initialize does nothing; the in-memory store starts empty
func (m *MockDB) Initialize(ctx context.Context) error {
	return nil
}

// FindAccountByEmail looks an account up by its exact email
func (m *MockDB) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyAccount(m.accounts[id]), nil
}

// CreateAccount stores a new account and returns it with its assigned id
func (m *MockDB) CreateAccount(ctx context.Context, name, email string) (*models.Account, error) {
	email = normalizeEmail(email)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[email]; exists {
		return nil, fmt.Errorf("account with email %s already exists", email)
	}

	account := &models.Account{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: m.now(),
	}
	m.accounts[account.ID] = account
	m.byEmail[email] = account.ID

	return copyAccount(account), nil
}

// GetAccount returns a fresh copy of the account
func (m *MockDB) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyAccount(account), nil
}

// FindCagesForAccount returns all cages owned by the account
func (m *MockDB) FindCagesForAccount(ctx context.Context, account *models.Account) ([]models.Cage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var cages []models.Cage
	for _, cage := range m.cages {
		if cage.OwnerID == account.ID {
			cages = append(cages, copyCage(cage))
		}
	}

	// Sort by registration time, then by name for stability
	sort.Slice(cages, func(i, j int) bool {
		if !cages[i].RegisteredAt.Equal(cages[j].RegisteredAt) {
			return cages[i].RegisteredAt.Before(cages[j].RegisteredAt)
		}
		return cages[i].Name < cages[j].Name
	})

	return cages, nil
}

// RegisterCage creates a cage owned by the account
func (m *MockDB) RegisterCage(ctx context.Context, account *models.Account, spec models.CageSpec) (*models.Cage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	owner, ok := m.accounts[account.ID]
	if !ok {
		return nil, fmt.Errorf("failed to register cage: account %s: %w", account.ID, storage.ErrNotFound)
	}

	cage := &models.Cage{
		ID:             uuid.NewString(),
		OwnerID:        owner.ID,
		Name:           spec.Name,
		SquareMetres:   spec.SquareMetres,
		Carpeted:       spec.Carpeted,
		HasToys:        spec.HasToys,
		AllowDangerous: spec.AllowDangerous,
		Price:          spec.Price,
		RegisteredAt:   m.now(),
	}
	m.cages[cage.ID] = cage
	owner.CageIDs = append(owner.CageIDs, cage.ID)

	result := copyCage(cage)
	return &result, nil
}

// AddAvailableDate appends an open availability block to the cage
func (m *MockDB) AddAvailableDate(ctx context.Context, cageID string, start time.Time, days int) (*models.Booking, error) {
	if err := models.ValidateAvailability(start, days); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cage, ok := m.cages[cageID]
	if !ok {
		return nil, fmt.Errorf("failed to add available date: cage %s: %w", cageID, storage.ErrNotFound)
	}

	booking := models.NewAvailability(uuid.NewString(), start, days)
	cage.Bookings = append(cage.Bookings, booking)
	sortBookings(cage.Bookings)

	return &booking, nil
}

// MarkBooked reserves an availability block as the guest booking flow would.
// It exists so tests and demo data can produce reserved blocks.
func (m *MockDB) MarkBooked(ctx context.Context, cageID, bookingID, guestOwnerID string, bookedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cage, ok := m.cages[cageID]
	if !ok {
		return fmt.Errorf("cage %s: %w", cageID, storage.ErrNotFound)
	}
	for i := range cage.Bookings {
		if cage.Bookings[i].ID == bookingID {
			at := bookedAt
			cage.Bookings[i].BookedDate = &at
			cage.Bookings[i].GuestOwnerID = guestOwnerID
			return nil
		}
	}
	return fmt.Errorf("booking %s: %w", bookingID, storage.ErrNotFound)
}

// AccountCount returns the number of stored accounts
func (m *MockDB) AccountCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accounts)
}

// Close does nothing for mock DB
func (m *MockDB) Close() error {
	return nil
}

func copyAccount(a *models.Account) *models.Account {
	c := *a
	c.CageIDs = append([]string(nil), a.CageIDs...)
	return &c
}

func copyCage(c *models.Cage) models.Cage {
	out := *c
	out.Bookings = make([]models.Booking, len(c.Bookings))
	for i, b := range c.Bookings {
		if b.BookedDate != nil {
			at := *b.BookedDate
			b.BookedDate = &at
		}
		out.Bookings[i] = b
	}
	return out
}

func sortBookings(bookings []models.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CheckInDate.Before(bookings[j].CheckInDate)
	})
}

// normalizeEmail matches the session's email handling so direct callers get the same keys
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
