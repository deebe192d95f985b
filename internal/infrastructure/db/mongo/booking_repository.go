package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

// BookingRepository reads the booking subsystem's collections.
type BookingRepository struct {
	bookings    *mongo.Collection
	assignments *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) ports.BookingRepository {
	return &BookingRepository{
		bookings:    db.Collection(collectionBookings),
		assignments: db.Collection(collectionAssignments),
	}
}

func (r *BookingRepository) FindShipment(ctx context.Context, shipmentID string) (*domain.Shipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Shipment
	err := r.bookings.FindOne(ctx, bson.M{"_id": shipmentID}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, fmt.Errorf("find shipment: %w", err)
	}
	return &s, nil
}

// FindActiveAssignment returns the most recently assigned ACTIVE vehicle.
func (r *BookingRepository) FindActiveAssignment(ctx context.Context, shipmentID string) (*domain.VehicleAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"shipment_id": shipmentID, "status": string(domain.AssignmentActive)}
	opts := options.FindOne().SetSort(bson.D{{Key: "assigned_at", Value: -1}})

	var a domain.VehicleAssignment
	err := r.assignments.FindOne(ctx, filter, opts).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("find active assignment: %w", err)
	}
	return &a, nil
}
