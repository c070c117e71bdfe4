package utils

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"golang-sentiment-scryper/pkg/common"
)

// LoadLocation resolves an IANA zone name, treating an empty name as UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %q: %w", name, err)
	}
	return loc, nil
}

// Today returns the current calendar date in loc.
func Today(loc *time.Location) civil.Date {
	return civil.DateOf(time.Now().In(loc))
}

// ParseDate parses a YYYY-MM-DD value; an empty value yields fallback.
func ParseDate(value string, fallback civil.Date) (civil.Date, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q, expected %s: %w", value, common.DateLayout, err)
	}
	return d, nil
}
