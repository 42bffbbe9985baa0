package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UsageRepository stores consumption counters as one document per
// (user, period).
type UsageRepository struct {
	col *mongo.Collection
}

func NewUsageRepository(db *mongo.Database) *UsageRepository {
	return &UsageRepository{col: db.Collection(colUsage)}
}

func (r *UsageRepository) ScanCount(ctx context.Context, userID, periodKey string) (int, error) {
	var doc bson.M
	err := r.col.FindOne(ctx, bson.M{"userId": userID, "periodKey": periodKey}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return docInt(doc, "scanCount", 0), nil
}

// AddConsumption uses the server-side $inc upsert, the native atomic
// increment-or-insert of this backend.
func (r *UsageRepository) AddConsumption(ctx context.Context, userID, periodKey string, amount int) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID, "periodKey": periodKey},
		bson.M{"$inc": bson.M{"scanCount": amount}},
		options.Update().SetUpsert(true),
	)
	return err
}
