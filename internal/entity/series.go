package entity

import (
	"cloud.google.com/go/civil"

	"golang-sentiment-scryper/pkg/common"
)

// SeriesRow is one date of a SentimentSeries. Values is aligned with
// SentimentSeries.Authors.
type SeriesRow struct {
	Date    civil.Date  `json:"date"`
	Values  []NullScore `json:"values"`
	Overall NullScore   `json:"overall"`
}

// SentimentSeries is the date-indexed, multi-author sentiment table. Rows are
// strictly ascending by date with no duplicates.
type SentimentSeries struct {
	Authors []string    `json:"authors"`
	Rows    []SeriesRow `json:"rows"`
}

// IsEmpty reports whether the series has no rows.
func (s SentimentSeries) IsEmpty() bool {
	return len(s.Rows) == 0
}

// Columns lists the column names. The Overall column exists once there is
// at least one row.
func (s SentimentSeries) Columns() []string {
	cols := make([]string, 0, len(s.Authors)+1)
	cols = append(cols, s.Authors...)
	if !s.IsEmpty() {
		cols = append(cols, common.OverallColumn)
	}
	return cols
}

// Column returns the values of a column by name, or false if it is unknown.
func (s SentimentSeries) Column(name string) ([]NullScore, bool) {
	if name == common.OverallColumn {
		if s.IsEmpty() {
			return nil, false
		}
		out := make([]NullScore, len(s.Rows))
		for i, row := range s.Rows {
			out[i] = row.Overall
		}
		return out, true
	}

	idx := s.authorIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]NullScore, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = row.Values[idx]
	}
	return out, true
}

// Lookup returns the cell for a column on a date. Unknown columns and dates
// yield a missing score.
func (s SentimentSeries) Lookup(column string, date civil.Date) NullScore {
	row, ok := s.row(date)
	if !ok {
		return NullScore{}
	}
	if column == common.OverallColumn {
		return row.Overall
	}
	idx := s.authorIndex(column)
	if idx < 0 {
		return NullScore{}
	}
	return row.Values[idx]
}

// Between returns the rows with start <= date <= end. Columns are unchanged.
func (s SentimentSeries) Between(start, end civil.Date) SentimentSeries {
	out := SentimentSeries{Authors: s.Authors}
	for _, row := range s.Rows {
		if row.Date.Before(start) || row.Date.After(end) {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// OverallScores returns the present Overall values in date order.
func (s SentimentSeries) OverallScores() []float64 {
	scores := make([]float64, 0, len(s.Rows))
	for _, row := range s.Rows {
		if row.Overall.Valid {
			scores = append(scores, row.Overall.Value)
		}
	}
	return scores
}

func (s SentimentSeries) authorIndex(name string) int {
	for i, a := range s.Authors {
		if a == name {
			return i
		}
	}
	return -1
}

func (s SentimentSeries) row(date civil.Date) (SeriesRow, bool) {
	lo, hi := 0, len(s.Rows)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.Rows[mid].Date.Before(date) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(s.Rows) && s.Rows[lo].Date == date {
		return s.Rows[lo], true
	}
	return SeriesRow{}, false
}
