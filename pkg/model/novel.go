package model

import (
	"time"

	"github.com/google/uuid"
)

// NovelStatus is the publication state of a novel.
type NovelStatus string

const (
	NovelOngoing   NovelStatus = "ongoing"
	NovelCompleted NovelStatus = "completed"
	NovelHiatus    NovelStatus = "hiatus"
)

// IsValid checks if the status is one of the known publication states.
func (s NovelStatus) IsValid() bool {
	switch s {
	case NovelOngoing, NovelCompleted, NovelHiatus:
		return true
	}
	return false
}

// Author is the denormalized author reference embedded in a novel record.
type Author struct {
	ID       string `bson:"id" json:"id"`
	Username string `bson:"username" json:"username"`
}

// Rating values are whole stars.
const (
	RatingMin = 1
	RatingMax = 5
)

// Rating is a single user's vote on a novel. Votes live inside the novel
// record so that aggregate recomputation can happen in one atomic update.
type Rating struct {
	UserID string `bson:"user" json:"user"`
	Value  int    `bson:"value" json:"value"`
}

// RatingStats is the derived aggregate over a novel's rating set.
// AverageRating is nil exactly when RatingCount is zero.
type RatingStats struct {
	AverageRating *float64 `bson:"average_rating,omitempty" json:"averageRating,omitempty"`
	RatingCount   int      `bson:"rating_count" json:"ratingCount"`
}

// Cover is an optional binary cover image. It is never projected into the
// search index.
type Cover struct {
	Data        []byte `bson:"data" json:"-"`
	ContentType string `bson:"content_type" json:"contentType"`
}

// Novel is the authoritative catalog record.
type Novel struct {
	ID            string      `bson:"_id" json:"id"`
	Title         string      `bson:"title" json:"title"`
	Description   string      `bson:"description" json:"description"`
	Author        Author      `bson:"author" json:"author"`
	Genres        []string    `bson:"genres" json:"genres"`
	Tags          []string    `bson:"tags" json:"tags"`
	Status        NovelStatus `bson:"status" json:"status"`
	TotalChapters int         `bson:"total_chapters" json:"totalChapters"`
	ViewCount     int64       `bson:"view_count" json:"viewCount"`
	Ratings       []Rating    `bson:"ratings" json:"-"`
	Stats         RatingStats `bson:"calculated_stats" json:"calculatedStats"`
	Cover         *Cover      `bson:"cover,omitempty" json:"-"`
	CreatedAt     time.Time   `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `bson:"updated_at" json:"updatedAt"`
}

// GenerateIDIfEmpty assigns a fresh identifier when none is set.
func (n *Novel) GenerateIDIfEmpty() {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
}

// UserRating returns the rating this user gave, if any.
func (n *Novel) UserRating(userID string) (int, bool) {
	for _, r := range n.Ratings {
		if r.UserID == userID {
			return r.Value, true
		}
	}
	return 0, false
}

// SearchDocument is the projection of a Novel stored in the search index.
// The binary cover and the raw per-user rating set are stripped; the derived
// stats stay because they are searchable and sortable.
type SearchDocument struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Author        Author      `json:"author"`
	Genres        []string    `json:"genres"`
	Tags          []string    `json:"tags"`
	Status        NovelStatus `json:"status"`
	TotalChapters int         `json:"totalChapters"`
	ViewCount     int64       `json:"viewCount"`
	Stats         RatingStats `json:"calculatedStats"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// NewSearchDocument projects a novel record for indexing.
func NewSearchDocument(n *Novel) SearchDocument {
	return SearchDocument{
		ID:            n.ID,
		Title:         n.Title,
		Description:   n.Description,
		Author:        n.Author,
		Genres:        n.Genres,
		Tags:          n.Tags,
		Status:        n.Status,
		TotalChapters: n.TotalChapters,
		ViewCount:     n.ViewCount,
		Stats:         n.Stats,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}
