package entity

import (
	"encoding/json"
	"strconv"

	"cloud.google.com/go/civil"
)

// DailySentiment maps a calendar date to an author's mean score on that day.
// Only days with at least one qualifying post are present.
type DailySentiment map[civil.Date]float64

// AuthorDaily pairs an author handle with its daily sentiment.
type AuthorDaily struct {
	Handle string
	Daily  DailySentiment
}

// NullScore is a sentiment value that may be missing. The zero value is missing.
type NullScore struct {
	Value float64
	Valid bool
}

// Score returns a present NullScore.
func Score(v float64) NullScore {
	return NullScore{Value: v, Valid: true}
}

// MarshalJSON encodes a missing score as null.
func (n NullScore) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON accepts a number or null.
func (n *NullScore) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullScore{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Score(v)
	return nil
}

// String renders the value, or an empty string when missing.
func (n NullScore) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
