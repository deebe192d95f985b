package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second

	duplicateKeyCode = 11000
)

const (
	collectionBookings          = "bookings"
	collectionAssignments       = "vehicle_assignments"
	collectionCrossings         = "toll_crossings"
	collectionPings             = "location_pings"
	collectionRegistrations     = "sim_registrations"
	collectionRegistrationSlots = "sim_registration_slots"
	collectionUsage             = "api_usage"
	collectionProviderCalls     = "provider_calls"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes the tracking repositories rely on. The
// unique (shipment_id, identity_key) indexes make event merges idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	unique := options.Index().SetUnique(true)
	plan := map[string][]mongo.IndexModel{
		collectionCrossings: {
			{Keys: bson.D{{Key: "shipment_id", Value: 1}, {Key: "identity_key", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "shipment_id", Value: 1}, {Key: "crossing_time", Value: 1}}},
		},
		collectionPings: {
			{Keys: bson.D{{Key: "shipment_id", Value: 1}, {Key: "identity_key", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "shipment_id", Value: 1}, {Key: "recorded_at", Value: -1}}},
		},
		collectionRegistrations: {
			{Keys: bson.D{{Key: "shipment_id", Value: 1}, {Key: "driver_phone", Value: 1}, {Key: "expires_at", Value: -1}}},
		},
		collectionAssignments: {
			{Keys: bson.D{{Key: "shipment_id", Value: 1}, {Key: "status", Value: 1}, {Key: "assigned_at", Value: -1}}},
		},
		collectionProviderCalls: {
			{Keys: bson.D{{Key: "shipment_id", Value: 1}, {Key: "called_at", Value: -1}}},
		},
	}

	for name, indexes := range plan {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}
	return nil
}

// insertedCount turns an unordered InsertMany outcome into the number of new
// documents. Duplicate-key failures are expected and ignored; anything else
// is returned.
func insertedCount(attempted int, err error) (int, error) {
	if err == nil {
		return attempted, nil
	}
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || bwe.WriteConcernError != nil {
		return 0, err
	}
	dups := 0
	for _, we := range bwe.WriteErrors {
		if we.Code != duplicateKeyCode {
			return 0, err
		}
		dups++
	}
	return attempted - dups, nil
}
