package entity

import (
	"time"

	"cloud.google.com/go/civil"
)

// Post is a single social-media post as delivered by the ingestion adapter.
// PostedAt is already expressed in the ingestion timezone.
type Post struct {
	ID           string    `json:"id"`
	RawText      string    `json:"raw_text"`
	AuthorHandle string    `json:"author_handle"`
	AuthorName   string    `json:"author_name"`
	PostedAt     time.Time `json:"posted_at"`
	ViewCount    int64     `json:"view_count"`
}

// Date returns the calendar date the post was published on.
func (p Post) Date() civil.Date {
	return civil.DateOf(p.PostedAt)
}

// Author is a tracked account.
type Author struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
}
