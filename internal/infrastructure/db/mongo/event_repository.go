package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	crossings *mongo.Collection
	pings     *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.EventRepository {
	return &EventRepository{
		crossings: db.Collection(collectionCrossings),
		pings:     db.Collection(collectionPings),
	}
}

// InsertCrossings inserts unordered so one known crossing does not stop the rest.
func (r *EventRepository) InsertCrossings(ctx context.Context, events []domain.CrossingEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, len(events))
	for i := range events {
		e := events[i]
		e.CrossedAt = e.CrossedAt.UTC()
		docs[i] = e
	}
	_, err := r.crossings.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	n, err := insertedCount(len(docs), err)
	if err != nil {
		return 0, fmt.Errorf("insert crossings: %w", err)
	}
	return n, nil
}

// ListCrossings returns all crossings of a shipment, oldest first.
func (r *EventRepository) ListCrossings(ctx context.Context, shipmentID string) ([]domain.CrossingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "crossing_time", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.crossings.Find(ctx, bson.M{"shipment_id": shipmentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list crossings: %w", err)
	}
	defer cursor.Close(ctx)

	var events []domain.CrossingEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode crossings: %w", err)
	}
	return events, nil
}

func (r *EventRepository) InsertPings(ctx context.Context, pings []domain.PingEvent) (int, error) {
	if len(pings) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, len(pings))
	for i := range pings {
		p := pings[i]
		p.RecordedAt = p.RecordedAt.UTC()
		docs[i] = p
	}
	_, err := r.pings.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	n, err := insertedCount(len(docs), err)
	if err != nil {
		return 0, fmt.Errorf("insert pings: %w", err)
	}
	return n, nil
}

// ListPings returns up to limit pings, newest first. limit <= 0 returns all.
func (r *EventRepository) ListPings(ctx context.Context, shipmentID string, limit int) ([]domain.PingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "recorded_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.pings.Find(ctx, bson.M{"shipment_id": shipmentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list pings: %w", err)
	}
	defer cursor.Close(ctx)

	var pings []domain.PingEvent
	if err := cursor.All(ctx, &pings); err != nil {
		return nil, fmt.Errorf("decode pings: %w", err)
	}
	return pings, nil
}
