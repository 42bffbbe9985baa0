package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RankingWeightRepository stores one document per tunable, keyed by the
// weight name.
type RankingWeightRepository struct {
	col *mongo.Collection
}

func NewRankingWeightRepository(db *mongo.Database) *RankingWeightRepository {
	return &RankingWeightRepository{col: db.Collection(colRanking)}
}

func (r *RankingWeightRepository) GetAll(ctx context.Context) (map[string]float64, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	weights := make(map[string]float64)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		key := docString(doc, "_id", "")
		if key == "" {
			continue
		}
		weights[key] = docFloat(doc, "value", 0)
	}
	return weights, cursor.Err()
}

func (r *RankingWeightRepository) SetMany(ctx context.Context, weights map[string]float64) error {
	if len(weights) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(weights))
	for key, value := range weights {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": key}).
			SetUpdate(bson.M{"$set": bson.M{"value": value}}).
			SetUpsert(true))
	}

	_, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}
