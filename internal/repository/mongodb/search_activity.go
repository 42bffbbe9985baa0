package mongodb

import (
	"context"
	"time"

	"github.com/hunterapp/hunterd/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SearchActivityRepository stores one counter document per searched term.
type SearchActivityRepository struct {
	col *mongo.Collection
}

func NewSearchActivityRepository(db *mongo.Database) *SearchActivityRepository {
	return &SearchActivityRepository{col: db.Collection(colActivity)}
}

// RecordSearches applies one $inc upsert per term through a single bulk
// write. Each document update is atomic; the batch as a whole is not, which
// is the per-document guarantee of this backend.
func (r *SearchActivityRepository) RecordSearches(ctx context.Context, terms []string, searchedAt time.Time) error {
	if len(terms) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(terms))
	for _, term := range terms {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"term": term}).
			SetUpdate(bson.M{
				"$inc": bson.M{"count": 1},
				"$set": bson.M{"lastSearch": searchedAt},
			}).
			SetUpsert(true))
	}

	_, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (r *SearchActivityRepository) TopSearches(ctx context.Context, limit int) ([]*domain.SearchActivity, error) {
	cursor, err := r.col.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "count", Value: -1}, {Key: "lastSearch", Value: -1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*domain.SearchActivity
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		results = append(results, &domain.SearchActivity{
			Term:           docString(doc, "term", ""),
			Count:          docInt(doc, "count", 0),
			LastSearchedAt: docTime(doc, "lastSearch", time.Time{}),
		})
	}
	return results, cursor.Err()
}
