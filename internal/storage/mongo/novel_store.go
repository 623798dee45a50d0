package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/storyhive/storyhive/internal/storage"
	"github.com/storyhive/storyhive/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type novelStore struct {
	coll *mongo.Collection
}

// NewNovelStore initializes a MongoDB-backed novel store.
func NewNovelStore(db *mongo.Database, collectionName string) storage.NovelStore {
	if collectionName == "" {
		collectionName = "novels"
	}
	return &novelStore{coll: db.Collection(collectionName)}
}

func (s *novelStore) Create(ctx context.Context, novel *model.Novel) error {
	novel.GenerateIDIfEmpty()

	now := time.Now().UTC()
	if novel.CreatedAt.IsZero() {
		novel.CreatedAt = now
	}
	novel.UpdatedAt = now
	if novel.Ratings == nil {
		novel.Ratings = []model.Rating{}
	}
	novel.Stats = recomputeStats(novel.Ratings)

	_, err := s.coll.InsertOne(ctx, novel)
	if mongo.IsDuplicateKeyError(err) {
		return model.ErrExists
	}
	return model.WrapError(err)
}

func (s *novelStore) Get(ctx context.Context, id string) (*model.Novel, error) {
	var novel model.Novel
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&novel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, model.WrapError(err)
	}
	return &novel, nil
}

func (s *novelStore) GetByIDs(ctx context.Context, ids []string) ([]*model.Novel, error) {
	if len(ids) == 0 {
		return []*model.Novel{}, nil
	}

	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, model.WrapError(err)
	}
	defer cursor.Close(ctx)

	var novels []*model.Novel
	if err := cursor.All(ctx, &novels); err != nil {
		return nil, model.WrapError(err)
	}
	return novels, nil
}

func (s *novelStore) Find(ctx context.Context, q model.DiscoverQuery) ([]*model.Novel, error) {
	findOptions := options.Find().
		SetSort(sortFor(q.SortBy)).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))

	cursor, err := s.coll.Find(ctx, buildNovelFilter(q), findOptions)
	if err != nil {
		return nil, model.WrapError(err)
	}
	defer cursor.Close(ctx)

	var novels []*model.Novel
	if err := cursor.All(ctx, &novels); err != nil {
		return nil, model.WrapError(err)
	}
	if novels == nil {
		novels = []*model.Novel{}
	}
	return novels, nil
}

func (s *novelStore) Count(ctx context.Context, q model.DiscoverQuery) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, buildNovelFilter(q))
	return n, model.WrapError(err)
}

func (s *novelStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*model.Novel, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	return s.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (s *novelStore) Delete(ctx context.Context, id string) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return model.WrapError(err)
	}
	if result.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *novelStore) IncrementViews(ctx context.Context, id string) (*model.Novel, error) {
	update := bson.M{
		"$inc": bson.M{"view_count": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	return s.findOneAndUpdate(ctx, id, update)
}

// SetRating replaces the user's entry in the ratings array and recomputes the
// derived stats from the resulting array, all inside one pipeline update. The
// replacement and the recomputation are a single document-level atomic
// operation, so concurrent votes from different users cannot lose updates.
func (s *novelStore) SetRating(ctx context.Context, novelID, userID string, value int) (*model.Novel, error) {
	next := bson.M{"$concatArrays": bson.A{
		ratingsWithout(userID),
		bson.A{bson.M{"user": userID, "value": value}},
	}}
	return s.findOneAndUpdate(ctx, novelID, ratingPipeline(next))
}

// UnsetRating drops the user's entry, if present, and recomputes the stats.
// Removing an absent vote is a no-op, not an error.
func (s *novelStore) UnsetRating(ctx context.Context, novelID, userID string) (*model.Novel, error) {
	return s.findOneAndUpdate(ctx, novelID, ratingPipeline(ratingsWithout(userID)))
}

func (s *novelStore) SetCover(ctx context.Context, id string, cover *model.Cover) (*model.Novel, error) {
	update := bson.M{"$set": bson.M{
		"cover":      cover,
		"updated_at": time.Now().UTC(),
	}}
	return s.findOneAndUpdate(ctx, id, update)
}

func (s *novelStore) RemoveCover(ctx context.Context, id string) (*model.Novel, error) {
	update := bson.M{
		"$unset": bson.M{"cover": 1},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	}
	return s.findOneAndUpdate(ctx, id, update)
}

func (s *novelStore) findOneAndUpdate(ctx context.Context, id string, update interface{}) (*model.Novel, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var novel model.Novel
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&novel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, model.WrapError(err)
	}
	return &novel, nil
}

// EnsureIndexes creates the indexes the browse and listing paths sort and
// filter on.
func (s *novelStore) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "genres", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "author.id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "calculated_stats.average_rating", Value: -1}}},
		{Keys: bson.D{{Key: "view_count", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "updated_at", Value: -1}}},
	}
	_, err := s.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func recomputeStats(ratings []model.Rating) model.RatingStats {
	if len(ratings) == 0 {
		return model.RatingStats{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Value
	}
	avg := float64(sum) / float64(len(ratings))
	return model.RatingStats{AverageRating: &avg, RatingCount: len(ratings)}
}
