package sentiment

import (
	"sort"

	"cloud.google.com/go/civil"

	"golang-sentiment-scryper/internal/entity"
)

// Merge joins per-author daily sentiment into one table indexed by the sorted
// union of dates. Columns follow the order of authors; a repeated handle is
// ignored after its first occurrence. Cells without data are missing, and the
// Overall cell is the mean of the present cells of its row.
func Merge(authors []entity.AuthorDaily) entity.SentimentSeries {
	series := entity.SentimentSeries{}
	seen := make(map[string]bool, len(authors))
	columns := make([]entity.DailySentiment, 0, len(authors))
	dateSet := make(map[civil.Date]struct{})

	for _, a := range authors {
		if seen[a.Handle] {
			continue
		}
		seen[a.Handle] = true
		series.Authors = append(series.Authors, a.Handle)
		columns = append(columns, a.Daily)
		for date := range a.Daily {
			dateSet[date] = struct{}{}
		}
	}

	dates := make([]civil.Date, 0, len(dateSet))
	for date := range dateSet {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, date := range dates {
		row := entity.SeriesRow{Date: date, Values: make([]entity.NullScore, len(columns))}
		present := make([]float64, 0, len(columns))
		for i, daily := range columns {
			if v, ok := daily[date]; ok {
				row.Values[i] = entity.Score(v)
				present = append(present, v)
			}
		}
		if len(present) > 0 {
			row.Overall = entity.Score(mean(present))
		}
		series.Rows = append(series.Rows, row)
	}

	return series
}
