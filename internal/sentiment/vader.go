package sentiment

import "github.com/jonreiter/govader"

// VaderEngine scores text with the VADER lexicon and rules.
type VaderEngine struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderEngine loads the VADER lexicon. Build it once and share it; the
// analyzer is read-only after construction.
func NewVaderEngine() *VaderEngine {
	return &VaderEngine{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Compound implements PolarityEngine.
func (e *VaderEngine) Compound(text string) float64 {
	return e.analyzer.PolarityScores(text).Compound
}
