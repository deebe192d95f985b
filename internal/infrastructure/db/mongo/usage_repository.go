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
)

// UsageRepository keeps one api_usage document per calendar month.
type UsageRepository struct {
	col *mongo.Collection
}

func NewUsageRepository(db *mongo.Database) *UsageRepository {
	return &UsageRepository{col: db.Collection(collectionUsage)}
}

func (r *UsageRepository) Get(ctx context.Context, period string) (*domain.UsagePeriod, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.UsagePeriod
	err := r.col.FindOne(ctx, bson.M{"_id": period}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPeriodNotFound
		}
		return nil, fmt.Errorf("get usage: %w", err)
	}
	return &u, nil
}

// Increment bumps the counters with $inc so concurrent refreshes never lose a call.
func (r *UsageRepository) Increment(ctx context.Context, period string, cost domain.Money, defaultLimit int64, at time.Time) (*domain.UsagePeriod, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$inc":         bson.M{"current_month_usage": int64(1), "current_month_cost": int64(cost)},
		"$set":         bson.M{"updated_at": at.UTC()},
		"$setOnInsert": bson.M{"monthly_api_limit": defaultLimit},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var u domain.UsagePeriod
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": period}, update, opts).Decode(&u); err != nil {
		return nil, fmt.Errorf("increment usage: %w", err)
	}
	return &u, nil
}

// SetLimit overrides the monthly call limit of a period.
func (r *UsageRepository) SetLimit(ctx context.Context, period string, limit int64, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"monthly_api_limit": limit, "updated_at": at.UTC()}}
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": period}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("set usage limit: %w", err)
	}
	return nil
}
