package sentiment

import "golang-sentiment-scryper/internal/entity"

// Summarize classifies every score and counts the labels. Labels that do not
// occur are left out of the result.
func Summarize(scores []float64) entity.Distribution {
	dist := make(entity.Distribution)
	for _, score := range scores {
		dist[Classify(score)]++
	}
	return dist
}
