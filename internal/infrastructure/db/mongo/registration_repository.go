package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

type RegistrationRepository struct {
	col   *mongo.Collection
	slots *mongo.Collection
}

func NewRegistrationRepository(db *mongo.Database) ports.RegistrationRepository {
	return &RegistrationRepository{
		col:   db.Collection(collectionRegistrations),
		slots: db.Collection(collectionRegistrationSlots),
	}
}

// registrationSlot holds the live registration of one shipment and phone.
// Its _id is the pair, so the unique _id index serializes Register calls.
type registrationSlot struct {
	Key          string                 `bson:"_id"`
	ExpiresAt    time.Time              `bson:"expires_at"`
	Registration domain.SimRegistration `bson:"registration"`
}

func slotKey(shipmentID, phone string) string {
	return shipmentID + "|" + phone
}

// Register takes the slot when it is empty or expired. A live slot makes the
// upsert collide on _id, and the registration it holds is returned instead.
func (r *RegistrationRepository) Register(ctx context.Context, reg *domain.SimRegistration, now time.Time) (*domain.SimRegistration, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	key := slotKey(reg.ShipmentID, reg.Phone)
	filter := bson.M{"_id": key, "expires_at": bson.M{"$lte": now.UTC()}}
	update := bson.M{"$set": bson.M{"expires_at": reg.ExpiresAt.UTC(), "registration": reg}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var slot registrationSlot
	err := r.slots.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot)
	if mongo.IsDuplicateKeyError(err) {
		if err := r.slots.FindOne(ctx, bson.M{"_id": key}).Decode(&slot); err != nil {
			return nil, false, fmt.Errorf("register sim: load slot: %w", err)
		}
		existing := slot.Registration
		return &existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("register sim: %w", err)
	}
	if slot.Registration.ID != reg.ID {
		existing := slot.Registration
		return &existing, false, nil
	}

	if _, err := r.col.InsertOne(ctx, reg); err != nil {
		return nil, false, fmt.Errorf("register sim: %w", err)
	}
	clone := *reg
	return &clone, true, nil
}

func (r *RegistrationRepository) FindActive(ctx context.Context, shipmentID, phone string, now time.Time) (*domain.SimRegistration, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"shipment_id": shipmentID,
		"expires_at":  bson.M{"$gt": now.UTC()},
	}
	if phone != "" {
		filter["driver_phone"] = phone
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "registered_at", Value: -1}})

	var reg domain.SimRegistration
	err := r.col.FindOne(ctx, filter, opts).Decode(&reg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("find active registration: %w", err)
	}
	return &reg, nil
}
