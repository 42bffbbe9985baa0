package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SuggestionQuotaRepository stores daily new-term counters as one document
// per (user, day).
type SuggestionQuotaRepository struct {
	col *mongo.Collection
}

func NewSuggestionQuotaRepository(db *mongo.Database) *SuggestionQuotaRepository {
	return &SuggestionQuotaRepository{col: db.Collection(colQuotas)}
}

func (r *SuggestionQuotaRepository) SuggestionCount(ctx context.Context, userID, dayKey string) (int, error) {
	var doc bson.M
	err := r.col.FindOne(ctx, bson.M{"userId": userID, "dayKey": dayKey}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return docInt(doc, "suggestionCount", 0), nil
}

func (r *SuggestionQuotaRepository) IncrementSuggestionCount(ctx context.Context, userID, dayKey string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID, "dayKey": dayKey},
		bson.M{"$inc": bson.M{"suggestionCount": 1}},
		options.Update().SetUpsert(true),
	)
	return err
}
