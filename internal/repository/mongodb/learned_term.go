package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/hunterapp/hunterd/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LearnedTermRepository persists learned vocabulary as one document per term.
// (term, category) uniqueness relies on a check-then-write sequence: two
// concurrent first sightings of the same term can leave a duplicate document,
// which the relational backend's constraint would have rejected.
type LearnedTermRepository struct {
	col *mongo.Collection
}

func NewLearnedTermRepository(db *mongo.Database) *LearnedTermRepository {
	return &LearnedTermRepository{col: db.Collection(colTerms)}
}

// FindForUpdate looks up a term by its composite key. No row lock exists on
// this backend; concurrent increments may interleave, and the losing update
// is an accepted outcome here.
func (r *LearnedTermRepository) FindForUpdate(ctx context.Context, term, category string) (*domain.LearnedTerm, error) {
	var doc bson.M
	err := r.col.FindOne(ctx, bson.M{"term": term, "category": category}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mapLearnedTerm(doc), nil
}

func (r *LearnedTermRepository) RecordSighting(ctx context.Context, id string, seenAt time.Time) (*domain.LearnedTerm, error) {
	after := options.After
	var doc bson.M
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"frequency": 1},
			"$set": bson.M{"lastSeen": seenAt},
		},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrTermNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapLearnedTerm(doc), nil
}

func (r *LearnedTermRepository) Approve(ctx context.Context, id string, at time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isApproved": true, "lastSeen": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTermNotFound
	}
	return nil
}

func (r *LearnedTermRepository) CreateIfAbsent(ctx context.Context, t *domain.LearnedTerm) (bool, error) {
	if err := domain.ValidateLearnedTerm(t); err != nil {
		return false, err
	}

	existing, err := r.FindForUpdate(ctx, t.Term, t.Category)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	_, err = r.col.InsertOne(ctx, bson.M{
		"_id":           t.ID,
		"term":          t.Term,
		"category":      t.Category,
		"definition":    t.Definition,
		"frequency":     t.Frequency,
		"isApproved":    t.IsApproved,
		"lastSeen":      t.LastSeen,
		"contributedBy": t.ContributedBy,
	})
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *LearnedTermRepository) ListApproved(ctx context.Context) ([]*domain.LearnedTerm, error) {
	return r.list(ctx, bson.M{"isApproved": true}, bson.D{{Key: "frequency", Value: -1}, {Key: "term", Value: 1}})
}

func (r *LearnedTermRepository) ListPending(ctx context.Context) ([]*domain.LearnedTerm, error) {
	return r.list(ctx, bson.M{"isApproved": false}, bson.D{{Key: "frequency", Value: -1}, {Key: "lastSeen", Value: -1}})
}

func (r *LearnedTermRepository) list(ctx context.Context, filter bson.M, sort bson.D) ([]*domain.LearnedTerm, error) {
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*domain.LearnedTerm
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		results = append(results, mapLearnedTerm(doc))
	}
	return results, cursor.Err()
}

func (r *LearnedTermRepository) GetByID(ctx context.Context, id string) (*domain.LearnedTerm, error) {
	var doc bson.M
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrTermNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapLearnedTerm(doc), nil
}

func (r *LearnedTermRepository) UpdateDetails(ctx context.Context, id, term, definition, category string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"term": term, "definition": definition, "category": category}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTermNotFound
	}
	return nil
}

func (r *LearnedTermRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrTermNotFound
	}
	return nil
}

func mapLearnedTerm(doc bson.M) *domain.LearnedTerm {
	return &domain.LearnedTerm{
		ID:            docString(doc, "_id", ""),
		Term:          docString(doc, "term", ""),
		Category:      docString(doc, "category", domain.DefaultCategory),
		Definition:    docString(doc, "definition", ""),
		Frequency:     docInt(doc, "frequency", 1),
		IsApproved:    docBool(doc, "isApproved", false),
		LastSeen:      docTime(doc, "lastSeen", time.Time{}),
		ContributedBy: docString(doc, "contributedBy", ""),
	}
}
