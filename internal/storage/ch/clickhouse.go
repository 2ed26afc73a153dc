package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"

	"snakebnb/internal/models"
	"snakebnb/internal/storage"
)

type ClickHouseDB struct {
	conn clickhouse.Conn
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(host string, port int, database, user, password string, useTLS bool) (*ClickHouseDB, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (db *ClickHouseDB) Initialize(ctx context.Context) error {
	return nil
}

// FindAccountByEmail looks an account up by email
func (db *ClickHouseDB) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return db.findAccount(ctx, `SELECT id, name, email, created_at FROM accounts WHERE email = ? ORDER BY created_at LIMIT 1`, email)
}

// GetAccount reloads an account together with its cage ids
func (db *ClickHouseDB) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return db.findAccount(ctx, `SELECT id, name, email, created_at FROM accounts WHERE id = ? LIMIT 1`, id)
}

func (db *ClickHouseDB) findAccount(ctx context.Context, query string, arg any) (*models.Account, error) {
	rows, err := db.conn.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to find account: %w", err)
		}
		return nil, storage.ErrNotFound
	}

	var account models.Account
	if err := rows.Scan(&account.ID, &account.Name, &account.Email, &account.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	rows.Close()

	account.CageIDs, err = db.cageIDs(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (db *ClickHouseDB) cageIDs(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := db.conn.Query(ctx, `SELECT id FROM cages WHERE owner_id = ? ORDER BY registered_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cage ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan cage id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateAccount inserts a new account
func (db *ClickHouseDB) CreateAccount(ctx context.Context, name, email string) (*models.Account, error) {
	account := &models.Account{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	err := db.conn.Exec(ctx, `INSERT INTO accounts (id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		account.ID, account.Name, account.Email, account.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// FindCagesForAccount returns the account's cages with their bookings
func (db *ClickHouseDB) FindCagesForAccount(ctx context.Context, account *models.Account) ([]models.Cage, error) {
	rows, err := db.conn.Query(ctx, `
		SELECT id, owner_id, name, square_metres, carpeted, has_toys, allow_dangerous, price, registered_at
		FROM cages
		WHERE owner_id = ?
		ORDER BY registered_at, name
	`, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cages: %w", err)
	}
	defer rows.Close()

	var cages []models.Cage
	for rows.Next() {
		var cage models.Cage
		if err := rows.Scan(&cage.ID, &cage.OwnerID, &cage.Name, &cage.SquareMetres,
			&cage.Carpeted, &cage.HasToys, &cage.AllowDangerous, &cage.Price, &cage.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan cage: %w", err)
		}
		cages = append(cages, cage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list cages: %w", err)
	}
	rows.Close()

	if len(cages) == 0 {
		return cages, nil
	}

	bookings, err := db.bookingsForOwner(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	for i := range cages {
		cages[i].Bookings = bookings[cages[i].ID]
	}
	return cages, nil
}

// bookingsForOwner loads the bookings of all the owner's cages in one query,
// keyed by cage id and ordered by check-in date
func (db *ClickHouseDB) bookingsForOwner(ctx context.Context, ownerID string) (map[string][]models.Booking, error) {
	rows, err := db.conn.Query(ctx, `
		SELECT cage_id, id, check_in_date, check_out_date, duration_in_days, booked_date, guest_owner_id
		FROM bookings
		WHERE cage_id IN (SELECT id FROM cages WHERE owner_id = ?)
		ORDER BY cage_id, check_in_date
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	byCage := make(map[string][]models.Booking)
	for rows.Next() {
		var (
			cageID   string
			booking  models.Booking
			duration int32
		)
		if err := rows.Scan(&cageID, &booking.ID, &booking.CheckInDate, &booking.CheckOutDate,
			&duration, &booking.BookedDate, &booking.GuestOwnerID); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		booking.DurationInDays = int(duration)
		byCage[cageID] = append(byCage[cageID], booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return byCage, nil
}

// RegisterCage inserts a new cage owned by the account
func (db *ClickHouseDB) RegisterCage(ctx context.Context, account *models.Account, spec models.CageSpec) (*models.Cage, error) {
	cage := &models.Cage{
		ID:             uuid.NewString(),
		OwnerID:        account.ID,
		Name:           spec.Name,
		SquareMetres:   spec.SquareMetres,
		Carpeted:       spec.Carpeted,
		HasToys:        spec.HasToys,
		AllowDangerous: spec.AllowDangerous,
		Price:          spec.Price,
		RegisteredAt:   time.Now().UTC(),
	}

	err := db.conn.Exec(ctx, `
		INSERT INTO cages (id, owner_id, name, square_metres, carpeted, has_toys, allow_dangerous, price, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, cage.ID, cage.OwnerID, cage.Name, cage.SquareMetres, cage.Carpeted, cage.HasToys,
		cage.AllowDangerous, cage.Price, cage.RegisteredAt)
	if err != nil {
		return nil, fmt.Errorf("failed to register cage: %w", err)
	}
	return cage, nil
}

// AddAvailableDate inserts an open availability block for the cage
func (db *ClickHouseDB) AddAvailableDate(ctx context.Context, cageID string, start time.Time, days int) (*models.Booking, error) {
	if err := models.ValidateAvailability(start, days); err != nil {
		return nil, err
	}

	booking := models.NewAvailability(uuid.NewString(), start, days)
	err := db.conn.Exec(ctx, `
		INSERT INTO bookings (id, cage_id, check_in_date, check_out_date, duration_in_days, booked_date, guest_owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, booking.ID, cageID, booking.CheckInDate, booking.CheckOutDate, int32(booking.DurationInDays),
		booking.BookedDate, booking.GuestOwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to add available date: %w", err)
	}
	return &booking, nil
}

// Close closes the database connection
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
