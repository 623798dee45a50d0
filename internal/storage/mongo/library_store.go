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

type libraryStore struct {
	coll *mongo.Collection
}

// NewLibraryStore initializes a MongoDB-backed library store.
func NewLibraryStore(db *mongo.Database, collectionName string) storage.LibraryStore {
	if collectionName == "" {
		collectionName = "library"
	}
	return &libraryStore{coll: db.Collection(collectionName)}
}

func pairFilter(userID, novelID string) bson.M {
	return bson.M{"_id": model.LibraryEntryID(userID, novelID)}
}

// Upsert creates or overwrites the entry. The composite _id makes repeated
// calls land on the same document, so the operation is idempotent.
func (s *libraryStore) Upsert(ctx context.Context, userID, novelID string, status model.LibraryStatus, notes string) (*model.LibraryEntry, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"notes":      notes,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"user":       userID,
			"novel":      novelID,
			"created_at": now,
		},
	}
	return s.findOneAndUpsert(ctx, userID, novelID, update)
}

func (s *libraryStore) Get(ctx context.Context, userID, novelID string) (*model.LibraryEntry, error) {
	var entry model.LibraryEntry
	err := s.coll.FindOne(ctx, pairFilter(userID, novelID)).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, model.WrapError(err)
	}
	return &entry, nil
}

// SetStatus updates the status of an existing entry. Any status is reachable
// from any status; no transition table is enforced at this layer.
func (s *libraryStore) SetStatus(ctx context.Context, userID, novelID string, status model.LibraryStatus) (*model.LibraryEntry, error) {
	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var entry model.LibraryEntry
	err := s.coll.FindOneAndUpdate(ctx, pairFilter(userID, novelID), update, opts).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, model.WrapError(err)
	}
	return &entry, nil
}

// MarkReading records reading activity: the entry is created if absent and
// the status forced to CURRENTLY_READING either way. The last read chapter is
// set unconditionally; chapter numbers are not required to be monotonic.
func (s *libraryStore) MarkReading(ctx context.Context, userID, novelID string, chapter int) (*model.LibraryEntry, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"status":            model.StatusCurrentlyReading,
			"last_read_chapter": chapter,
			"updated_at":        now,
		},
		"$setOnInsert": bson.M{
			"user":       userID,
			"novel":      novelID,
			"notes":      "",
			"created_at": now,
		},
	}
	return s.findOneAndUpsert(ctx, userID, novelID, update)
}

func (s *libraryStore) Delete(ctx context.Context, userID, novelID string) error {
	result, err := s.coll.DeleteOne(ctx, pairFilter(userID, novelID))
	if err != nil {
		return model.WrapError(err)
	}
	if result.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *libraryStore) Find(ctx context.Context, userID string, q model.LibraryQuery) ([]*model.LibraryEntry, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))

	cursor, err := s.coll.Find(ctx, libraryFilter(userID, q), findOptions)
	if err != nil {
		return nil, model.WrapError(err)
	}
	defer cursor.Close(ctx)

	var entries []*model.LibraryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, model.WrapError(err)
	}
	if entries == nil {
		entries = []*model.LibraryEntry{}
	}
	return entries, nil
}

func (s *libraryStore) Count(ctx context.Context, userID string, q model.LibraryQuery) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, libraryFilter(userID, q))
	return n, model.WrapError(err)
}

func libraryFilter(userID string, q model.LibraryQuery) bson.M {
	filter := bson.M{"user": userID}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	return filter
}

func (s *libraryStore) findOneAndUpsert(ctx context.Context, userID, novelID string, update bson.M) (*model.LibraryEntry, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var entry model.LibraryEntry
	err := s.coll.FindOneAndUpdate(ctx, pairFilter(userID, novelID), update, opts).Decode(&entry)
	if err != nil {
		return nil, model.WrapError(err)
	}
	return &entry, nil
}

// EnsureIndexes backs the uniqueness invariant with an explicit index besides
// the composite _id, and supports the per-user listing sort.
func (s *libraryStore) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "novel", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "updated_at", Value: -1}}},
	}
	_, err := s.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
