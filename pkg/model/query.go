package model

import (
	"net/url"

	"github.com/gorilla/schema"
)

// SortKey selects the single active sort for the structured browse path.
type SortKey string

const (
	SortRating   SortKey = "rating"   // descending average rating
	SortViews    SortKey = "views"    // descending view count
	SortRecent   SortKey = "recent"   // descending update time
	SortChapters SortKey = "chapters" // descending chapter count
	SortDefault  SortKey = ""         // descending creation time
)

// DiscoverQuery carries every predicate a discovery request may combine.
// All predicates are AND-combined.
type DiscoverQuery struct {
	Search    string      `schema:"search"`
	Genres    []string    `schema:"genres"`
	Tags      []string    `schema:"tags"`
	Status    NovelStatus `schema:"status"`
	MinRating float64     `schema:"minRating"`
	AuthorID  string      `schema:"author"`
	SortBy    SortKey     `schema:"sortBy"`
	Page      int         `schema:"page"`
	Limit     int         `schema:"limit"`
}

// HasPredicates reports whether the query carries any discovery predicate.
// A predicate-free query is the plain browse path and never touches the
// search index.
func (q DiscoverQuery) HasPredicates() bool {
	return q.Search != "" ||
		len(q.Genres) > 0 ||
		len(q.Tags) > 0 ||
		q.Status != "" ||
		q.MinRating > 0 ||
		q.AuthorID != ""
}

// Normalize clamps page and limit to usable values.
func (q *DiscoverQuery) Normalize(defaultLimit int) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
}

// Skip is the number of records the structured path skips for this page.
func (q DiscoverQuery) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// ParseDiscoverQuery decodes URL query values into a DiscoverQuery.
func ParseDiscoverQuery(values url.Values) (DiscoverQuery, error) {
	var q DiscoverQuery
	if err := queryDecoder.Decode(&q, values); err != nil {
		return DiscoverQuery{}, Validationf("invalid discovery query: %v", err)
	}
	if q.Status != "" && !q.Status.IsValid() {
		return DiscoverQuery{}, Validationf("unknown status %q", q.Status)
	}
	return q, nil
}

// LibraryQuery narrows a user's library listing.
type LibraryQuery struct {
	Status LibraryStatus `schema:"status"`
	Page   int           `schema:"page"`
	Limit  int           `schema:"limit"`
}

// Normalize clamps page and limit to usable values.
func (q *LibraryQuery) Normalize(defaultLimit int) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
}

// Skip is the number of records skipped for this page.
func (q LibraryQuery) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}
