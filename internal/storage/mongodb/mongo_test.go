package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mongoTC "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"

	"snakebnb/internal/models"
	"snakebnb/internal/storage"
)

func setupTestDB(t *testing.T) (*MongoDB, func()) {
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongoTC.Run(ctx, "mongo:7")
	require.NoError(t, err, "Failed to start MongoDB container")

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := NewMongoDB(uri, "snake_bnb_test")
	require.NoError(t, err, "Failed to connect to MongoDB")

	err = db.Initialize(ctx)
	require.NoError(t, err, "Failed to create indexes")

	cleanup := func() {
		db.Close()
		mongoContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestCageDoc_ToModel_SortsBookings(t *testing.T) {
	booked := time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC)
	doc := cageDoc{
		ID:           "cage-1",
		OwnerID:      "owner-1",
		Name:         "Pit A",
		SquareMetres: 20,
		Bookings: []bookingDoc{
			{
				ID:           "b2",
				CheckInDate:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
				CheckOutDate: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC),
				BookedDate:   &booked,
			},
			{
				ID:           "b1",
				CheckInDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				CheckOutDate: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	cage := doc.toModel()

	require.Len(t, cage.Bookings, 2)
	assert.Equal(t, "b1", cage.Bookings[0].ID)
	assert.Equal(t, 3, cage.Bookings[0].Days())
	assert.False(t, cage.Bookings[0].IsBooked())
	assert.Equal(t, "b2", cage.Bookings[1].ID)
	assert.True(t, cage.Bookings[1].IsBooked())
}

func TestBookingDoc_RoundTripsThroughBSON(t *testing.T) {
	booking := models.NewAvailability("b1", time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC), 3)

	raw, err := bson.Marshal(fromBooking(booking))
	require.NoError(t, err)

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "check_in_date")
	assert.Contains(t, fields, "check_out_date")
	assert.NotContains(t, fields, "booked_date", "open blocks must not carry a booked_date")
}

func TestOwnerDoc_ToModel_CopiesCageIDs(t *testing.T) {
	doc := ownerDoc{ID: "o1", Name: "Ann", Email: "ann@x.com", CageIDs: []string{"c1"}}

	account := doc.toModel()
	doc.CageIDs[0] = "changed"

	assert.Equal(t, []string{"c1"}, account.CageIDs)
}

func TestMongoDB_Accounts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := db.FindAccountByEmail(ctx, "ann@x.com")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	_, err = db.GetAccount(ctx, "missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	account, err := db.CreateAccount(ctx, "Ann", "ann@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.Empty(t, account.CageIDs)

	found, err := db.FindAccountByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)
	assert.Equal(t, "Ann", found.Name)

	_, err = db.CreateAccount(ctx, "Other Ann", "ann@x.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestMongoDB_CagesAndAvailability(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	account, err := db.CreateAccount(ctx, "Ann", "ann@x.com")
	require.NoError(t, err)

	cage, err := db.RegisterCage(ctx, account, models.CageSpec{
		Name:         "Pit A",
		SquareMetres: 20,
		Carpeted:     true,
		Price:        35,
	})
	require.NoError(t, err)

	refreshed, err := db.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{cage.ID}, refreshed.CageIDs)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = db.AddAvailableDate(ctx, cage.ID, start, 3)
	require.NoError(t, err)
	_, err = db.AddAvailableDate(ctx, cage.ID, time.Date(1960, 5, 1, 0, 0, 0, 0, time.UTC), 2)
	require.NoError(t, err)

	cages, err := db.FindCagesForAccount(ctx, account)
	require.NoError(t, err)
	require.Len(t, cages, 1)
	assert.Equal(t, "Pit A", cages[0].Name)
	assert.True(t, cages[0].Carpeted)
	require.Len(t, cages[0].Bookings, 2)
	assert.Equal(t, "1960-05-01", cages[0].Bookings[0].CheckInDate.UTC().Format("2006-01-02"))
	assert.Equal(t, start, cages[0].Bookings[1].CheckInDate.UTC())
	assert.Equal(t, 3, cages[0].Bookings[1].Days())
	assert.False(t, cages[0].Bookings[1].IsBooked())
}

func TestMongoDB_AddAvailableDate_UnknownCage(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.AddAvailableDate(context.Background(), "missing", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 3)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestMongoDB_RegisterCage_UnknownAccountLeavesNoCage(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	ghost := &models.Account{ID: "missing", Name: "Ghost", Email: "ghost@x.com"}

	_, err := db.RegisterCage(ctx, ghost, models.CageSpec{Name: "Pit A"})
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	cages, err := db.FindCagesForAccount(ctx, ghost)
	require.NoError(t, err)
	assert.Empty(t, cages)
}
