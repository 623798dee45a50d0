package mongo

import (
	"regexp"

	"github.com/storyhive/storyhive/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// buildNovelFilter translates the structured discovery predicates into a
// MongoDB filter. All predicates are AND-combined; free text becomes a
// case-insensitive substring match over title and description.
func buildNovelFilter(q model.DiscoverQuery) bson.M {
	filter := bson.M{}

	if q.Status != "" {
		filter["status"] = q.Status
	}
	if len(q.Genres) > 0 {
		filter["genres"] = bson.M{"$in": q.Genres}
	}
	if len(q.Tags) > 0 {
		filter["tags"] = bson.M{"$in": q.Tags}
	}
	if q.MinRating > 0 {
		filter["calculated_stats.average_rating"] = bson.M{"$gte": q.MinRating}
	}
	if q.AuthorID != "" {
		filter["author.id"] = q.AuthorID
	}
	if q.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	return filter
}

// sortFor maps a sort key to its MongoDB sort document. One key is active at
// a time; the default is newest first.
func sortFor(key model.SortKey) bson.D {
	switch key {
	case model.SortRating:
		return bson.D{{Key: "calculated_stats.average_rating", Value: -1}}
	case model.SortViews:
		return bson.D{{Key: "view_count", Value: -1}}
	case model.SortRecent:
		return bson.D{{Key: "updated_at", Value: -1}}
	case model.SortChapters:
		return bson.D{{Key: "total_chapters", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

// ratingsWithout is the pipeline expression for the ratings array with the
// given user's entry filtered out.
func ratingsWithout(userID string) bson.M {
	return bson.M{"$filter": bson.M{
		"input": bson.M{"$ifNull": bson.A{"$ratings", bson.A{}}},
		"as":    "r",
		"cond":  bson.M{"$ne": bson.A{"$$r.user", userID}},
	}}
}

// ratingPipeline builds the two-stage update that replaces the ratings array
// with the given expression and then recomputes the derived stats from the
// new array. $avg over an empty array yields null, which keeps the
// averageRating-undefined-when-count-zero invariant for free.
func ratingPipeline(ratingsExpr interface{}) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{"ratings": ratingsExpr}}},
		bson.D{{Key: "$set", Value: bson.M{
			"calculated_stats": bson.M{
				"average_rating": bson.M{"$avg": "$ratings.value"},
				"rating_count":   bson.M{"$size": "$ratings"},
			},
			"updated_at": "$$NOW",
		}}},
	}
}
