package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

// ProviderCallRepository appends to the provider_calls audit collection.
type ProviderCallRepository struct {
	col *mongo.Collection
}

func NewProviderCallRepository(db *mongo.Database) ports.ProviderCallLog {
	return &ProviderCallRepository{col: db.Collection(collectionProviderCalls)}
}

func (r *ProviderCallRepository) Record(ctx context.Context, call *domain.ProviderCall) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, call); err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("record provider call: %w", err)
	}
	return nil
}
