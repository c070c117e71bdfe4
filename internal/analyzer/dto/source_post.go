package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang-sentiment-scryper/internal/entity"
)

var (
	errMissingText      = errors.New("record has no text field")
	errMissingTimestamp = errors.New("record has no usable timestamp")
)

// SourceAuthor is the author block of an exported post record.
type SourceAuthor struct {
	Username   string `json:"username"`
	ScreenName string `json:"screen_name"`
	Name       string `json:"name"`
}

// SourcePost is a post record as found in third-party exports. Exporters
// disagree on field names, so every logical attribute has several spellings.
type SourcePost struct {
	ID        json.RawMessage `json:"id"`
	IDStr     string          `json:"id_str"`
	FullText  string          `json:"full_text"`
	Text      string          `json:"text"`
	Content   string          `json:"content"`
	CreatedAt json.RawMessage `json:"created_at"`
	Date      json.RawMessage `json:"date"`
	Timestamp json.RawMessage `json:"timestamp"`
	Views     *int64          `json:"views"`
	ViewCount *int64          `json:"view_count"`
	Username  string          `json:"username"`
	Author    *SourceAuthor   `json:"author"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"Mon Jan 02 15:04:05 -0700 2006",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// ToEntity converts the record into the canonical post, expressing the
// timestamp in loc. Timestamps without an offset are read as loc wall time.
func (s SourcePost) ToEntity(loc *time.Location) (entity.Post, error) {
	text := firstNonEmpty(s.FullText, s.Text, s.Content)
	if text == "" {
		return entity.Post{}, errMissingText
	}

	postedAt, err := s.postedAt(loc)
	if err != nil {
		return entity.Post{}, err
	}

	post := entity.Post{
		ID:        s.id(),
		RawText:   text,
		PostedAt:  postedAt,
		ViewCount: s.viewCount(),
	}
	if s.Author != nil {
		post.AuthorHandle = strings.TrimPrefix(firstNonEmpty(s.Author.Username, s.Author.ScreenName), "@")
		post.AuthorName = s.Author.Name
	}
	if post.AuthorHandle == "" {
		post.AuthorHandle = strings.TrimPrefix(s.Username, "@")
	}
	return post, nil
}

func (s SourcePost) id() string {
	if s.IDStr != "" {
		return s.IDStr
	}
	return rawScalar(s.ID)
}

func (s SourcePost) viewCount() int64 {
	switch {
	case s.Views != nil:
		return *s.Views
	case s.ViewCount != nil:
		return *s.ViewCount
	}
	return 0
}

func (s SourcePost) postedAt(loc *time.Location) (time.Time, error) {
	for _, raw := range []json.RawMessage{s.CreatedAt, s.Date, s.Timestamp} {
		value := rawScalar(raw)
		if value == "" {
			continue
		}
		if ts, err := ParseTimestamp(value, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, errMissingTimestamp
}

// ParseTimestamp accepts the layouts seen in post exports plus unix seconds.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(secs, 0).In(loc), nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

// rawScalar renders a JSON string or number as plain text.
func rawScalar(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
