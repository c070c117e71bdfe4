package sentiment

import "golang-sentiment-scryper/internal/entity"

const (
	extremelyBullishFloor = 80
	bullishFloor          = 55
	neutralFloor          = 30
	bearishFloor          = 20
)

// Classify maps a score to its regime. Each threshold belongs to the upper
// bucket. Any float, including out-of-range values, gets a label; NaN fails
// every comparison and lands in Extremely Bearish.
func Classify(score float64) entity.SentimentLabel {
	switch {
	case score >= extremelyBullishFloor:
		return entity.ExtremelyBullish
	case score >= bullishFloor:
		return entity.Bullish
	case score >= neutralFloor:
		return entity.Neutral
	case score >= bearishFloor:
		return entity.Bearish
	default:
		return entity.ExtremelyBearish
	}
}

// Regimes returns the score bands on the 0-100 scale, most bearish first,
// with the colors used for chart zones.
func Regimes() []entity.Regime {
	return []entity.Regime{
		{Label: entity.ExtremelyBearish, Lower: 0, Upper: bearishFloor, Color: "green"},
		{Label: entity.Bearish, Lower: bearishFloor, Upper: neutralFloor, Color: "lightgreen"},
		{Label: entity.Neutral, Lower: neutralFloor, Upper: bullishFloor, Color: "blue"},
		{Label: entity.Bullish, Lower: bullishFloor, Upper: extremelyBullishFloor, Color: "orange"},
		{Label: entity.ExtremelyBullish, Lower: extremelyBullishFloor, Upper: 100, Color: "red"},
	}
}
