package model

import "time"

// LibraryStatus is the reading state a user assigned to a novel.
type LibraryStatus string

const (
	StatusWillRead         LibraryStatus = "WILL_READ"
	StatusCurrentlyReading LibraryStatus = "CURRENTLY_READING"
	StatusCompleted        LibraryStatus = "COMPLETED"
	StatusDropped          LibraryStatus = "DROPPED"
)

// IsValid checks if the status is a known reading state.
func (s LibraryStatus) IsValid() bool {
	switch s {
	case StatusWillRead, StatusCurrentlyReading, StatusCompleted, StatusDropped:
		return true
	}
	return false
}

// LibraryEntry is a user's personal tracking record for a novel.
// At most one entry exists per (user, novel) pair.
type LibraryEntry struct {
	ID              string        `bson:"_id" json:"-"`
	UserID          string        `bson:"user" json:"userId"`
	NovelID         string        `bson:"novel" json:"novelId"`
	Status          LibraryStatus `bson:"status" json:"status"`
	LastReadChapter *int          `bson:"last_read_chapter,omitempty" json:"lastReadChapter,omitempty"`
	Notes           string        `bson:"notes" json:"notes"`
	CreatedAt       time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updatedAt"`
}

// LibraryEntryID builds the composite document identifier for a (user, novel)
// pair. Keying entries this way makes the upsert path race-free without a
// separate uniqueness check.
func LibraryEntryID(userID, novelID string) string {
	return userID + ":" + novelID
}
