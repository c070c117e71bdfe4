package sentiment

import (
	"sort"
	"strings"

	"cloud.google.com/go/civil"

	"golang-sentiment-scryper/internal/entity"
)

// AggregateDaily scores the posts written by handle and reduces them to one
// mean score per calendar date. Posts whose normalized text is empty, or that
// belong to another author, contribute nothing.
func AggregateDaily(handle string, posts []entity.Post, scorer *Scorer) entity.DailySentiment {
	byDate := make(map[civil.Date][]float64)
	for _, post := range posts {
		if !strings.EqualFold(post.AuthorHandle, handle) {
			continue
		}
		text := Normalize(post.RawText)
		if !Qualifies(text) {
			continue
		}
		date := post.Date()
		byDate[date] = append(byDate[date], scorer.Score(text))
	}

	daily := make(entity.DailySentiment, len(byDate))
	for date, scores := range byDate {
		daily[date] = mean(scores)
	}
	return daily
}

// mean sorts before summing so the result does not depend on input order.
func mean(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return sum / float64(len(sorted))
}
