package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"snakebnb/internal/models"
	"snakebnb/internal/storage"
)

const (
	ownersCollection = "owners"
	cagesCollection  = "cages"
	opTimeout        = 5 * time.Second
)

// MongoDB stores owners and cages as documents; bookings are embedded in their cage
type MongoDB struct {
	client *mongo.Client
	owners *mongo.Collection
	cages  *mongo.Collection
}

type ownerDoc struct {
	ID             string    `bson:"_id"`
	Name           string    `bson:"name"`
	Email          string    `bson:"email"`
	RegisteredDate time.Time `bson:"registered_date"`
	CageIDs        []string  `bson:"cage_ids"`
}

type cageDoc struct {
	ID             string       `bson:"_id"`
	OwnerID        string       `bson:"owner_id"`
	Name           string       `bson:"name"`
	SquareMetres   float64      `bson:"square_metres"`
	Carpeted       bool         `bson:"is_carpeted"`
	HasToys        bool         `bson:"has_toys"`
	AllowDangerous bool         `bson:"allow_dangerous_snakes"`
	Price          float64      `bson:"price"`
	RegisteredDate time.Time    `bson:"registered_date"`
	Bookings       []bookingDoc `bson:"bookings"`
}

type bookingDoc struct {
	ID             string     `bson:"id"`
	CheckInDate    time.Time  `bson:"check_in_date"`
	CheckOutDate   time.Time  `bson:"check_out_date"`
	DurationInDays int        `bson:"duration_in_days"`
	BookedDate     *time.Time `bson:"booked_date,omitempty"`
	GuestOwnerID   string     `bson:"guest_owner_id,omitempty"`
}

// NewMongoDB connects to MongoDB and verifies the connection
func NewMongoDB(uri, database string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)
	return &MongoDB{
		client: client,
		owners: db.Collection(ownersCollection),
		cages:  db.Collection(cagesCollection),
	}, nil
}

// Initialize creates the indexes the lookups rely on
func (m *MongoDB) Initialize(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := m.owners.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create owners index: %w", err)
	}

	_, err = m.cages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "registered_date", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create cages index: %w", err)
	}
	return nil
}

// FindAccountByEmail looks an owner document up by email
func (m *MongoDB) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return m.findOwner(ctx, bson.M{"email": email})
}

// GetAccount reloads an owner document by id
func (m *MongoDB) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return m.findOwner(ctx, bson.M{"_id": id})
}

func (m *MongoDB) findOwner(ctx context.Context, filter bson.M) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc ownerDoc
	if err := m.owners.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return doc.toModel(), nil
}

// CreateAccount inserts a new owner document
func (m *MongoDB) CreateAccount(ctx context.Context, name, email string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := ownerDoc{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		RegisteredDate: time.Now().UTC(),
		CageIDs:        []string{},
	}
	if _, err := m.owners.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("account with email %s already exists: %w", email, err)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return doc.toModel(), nil
}

// FindCagesForAccount returns the owner's cages with embedded bookings
func (m *MongoDB) FindCagesForAccount(ctx context.Context, account *models.Account) ([]models.Cage, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "registered_date", Value: 1}, {Key: "name", Value: 1}})
	cur, err := m.cages.Find(ctx, bson.M{"owner_id": account.ID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cages: %w", err)
	}
	defer cur.Close(ctx)

	var docs []cageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode cages: %w", err)
	}

	cages := make([]models.Cage, 0, len(docs))
	for _, doc := range docs {
		cages = append(cages, doc.toModel())
	}
	return cages, nil
}

// RegisterCage inserts the cage and records its id on the owner
func (m *MongoDB) RegisterCage(ctx context.Context, account *models.Account, spec models.CageSpec) (*models.Cage, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := cageDoc{
		ID:             uuid.NewString(),
		OwnerID:        account.ID,
		Name:           spec.Name,
		SquareMetres:   spec.SquareMetres,
		Carpeted:       spec.Carpeted,
		HasToys:        spec.HasToys,
		AllowDangerous: spec.AllowDangerous,
		Price:          spec.Price,
		RegisteredDate: time.Now().UTC(),
		Bookings:       []bookingDoc{},
	}
	if _, err := m.cages.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to register cage: %w", err)
	}

	res, err := m.owners.UpdateOne(ctx,
		bson.M{"_id": account.ID},
		bson.M{"$push": bson.M{"cage_ids": doc.ID}},
	)
	if err != nil {
		m.dropCage(ctx, doc.ID)
		return nil, fmt.Errorf("failed to attach cage to account: %w", err)
	}
	if res.MatchedCount == 0 {
		m.dropCage(ctx, doc.ID)
		return nil, fmt.Errorf("failed to attach cage to account %s: %w", account.ID, storage.ErrNotFound)
	}

	cage := doc.toModel()
	return &cage, nil
}

// dropCage removes a cage document that never got attached to its owner
func (m *MongoDB) dropCage(ctx context.Context, id string) {
	_, _ = m.cages.DeleteOne(ctx, bson.M{"_id": id})
}

// AddAvailableDate pushes an open block onto the cage's bookings
func (m *MongoDB) AddAvailableDate(ctx context.Context, cageID string, start time.Time, days int) (*models.Booking, error) {
	if err := models.ValidateAvailability(start, days); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	booking := models.NewAvailability(uuid.NewString(), start, days)
	res, err := m.cages.UpdateOne(ctx,
		bson.M{"_id": cageID},
		bson.M{"$push": bson.M{"bookings": fromBooking(booking)}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add available date: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("failed to add available date: cage %s: %w", cageID, storage.ErrNotFound)
	}
	return &booking, nil
}

// Close disconnects the client
func (m *MongoDB) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (d ownerDoc) toModel() *models.Account {
	return &models.Account{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		CreatedAt: d.RegisteredDate,
		CageIDs:   append([]string(nil), d.CageIDs...),
	}
}

func (d cageDoc) toModel() models.Cage {
	cage := models.Cage{
		ID:             d.ID,
		OwnerID:        d.OwnerID,
		Name:           d.Name,
		SquareMetres:   d.SquareMetres,
		Carpeted:       d.Carpeted,
		HasToys:        d.HasToys,
		AllowDangerous: d.AllowDangerous,
		Price:          d.Price,
		RegisteredAt:   d.RegisteredDate,
		Bookings:       make([]models.Booking, 0, len(d.Bookings)),
	}
	for _, b := range d.Bookings {
		cage.Bookings = append(cage.Bookings, models.Booking{
			ID:             b.ID,
			CheckInDate:    b.CheckInDate,
			CheckOutDate:   b.CheckOutDate,
			DurationInDays: b.DurationInDays,
			BookedDate:     b.BookedDate,
			GuestOwnerID:   b.GuestOwnerID,
		})
	}
	sort.SliceStable(cage.Bookings, func(i, j int) bool {
		return cage.Bookings[i].CheckInDate.Before(cage.Bookings[j].CheckInDate)
	})
	return cage
}

func fromBooking(b models.Booking) bookingDoc {
	return bookingDoc{
		ID:             b.ID,
		CheckInDate:    b.CheckInDate,
		CheckOutDate:   b.CheckOutDate,
		DurationInDays: b.DurationInDays,
		BookedDate:     b.BookedDate,
		GuestOwnerID:   b.GuestOwnerID,
	}
}
