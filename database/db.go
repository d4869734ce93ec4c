package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"parcel-delivery/logger"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names in the parcel database.
const (
	UsersCollection     = "users"
	ParcelsCollection   = "parcels"
	RidersCollection    = "riders"
	PaymentsCollection  = "payments"
	TrackingsCollection = "trackings"
	LogsCollection      = "logs"
)

var DB *mongo.Database

// InitDB connects to MongoDB and prepares the collection indexes.
func InitDB() (*mongo.Database, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		return nil, fmt.Errorf("MONGO_URI is not set")
	}

	dbName := os.Getenv("MONGO_DATABASE")
	if dbName == "" {
		dbName = "parcelDB"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Error("Failed to connect to MongoDB", err)
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("Failed to ping MongoDB", err)
		return nil, err
	}
	logger.Success("Successfully connected to MongoDB")

	DB = client.Database(dbName)

	// Create indexes for better performance
	if err := createIndexes(ctx, DB); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// createIndexes creates the unique and query-path indexes used by the stores.
func createIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{
			collection: UsersCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		{
			collection: RidersCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		{
			collection: ParcelsCollection,
			model:      mongo.IndexModel{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		{
			collection: ParcelsCollection,
			model:      mongo.IndexModel{Keys: bson.D{{Key: "delivery_status", Value: 1}}},
		},
		{
			collection: ParcelsCollection,
			model:      mongo.IndexModel{Keys: bson.D{{Key: "assigned_rider_email", Value: 1}}},
		},
		{
			collection: PaymentsCollection,
			model:      mongo.IndexModel{Keys: bson.D{{Key: "user_email", Value: 1}, {Key: "paid_at", Value: -1}}},
		},
		{
			collection: TrackingsCollection,
			model:      mongo.IndexModel{Keys: bson.D{{Key: "tracking_id", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
		{
			collection: LogsCollection,
			model:      mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}

	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.collection, err)
		}
	}

	return nil
}

// WithTransaction runs fn inside a MongoDB session transaction so
// multi-document updates (assign-rider, cashout, confirm-payment) commit or
// abort together.
func WithTransaction(ctx context.Context, db *mongo.Database, fn func(sc mongo.SessionContext) error) error {
	session, err := db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// GetDB returns the database instance
func GetDB() *mongo.Database {
	return DB
}
