package sentiment

import "math"

// PolarityEngine returns the compound polarity of a text in [-1, 1].
type PolarityEngine interface {
	Compound(text string) float64
}

// PolarityFunc adapts a plain function to PolarityEngine.
type PolarityFunc func(text string) float64

// Compound calls f(text).
func (f PolarityFunc) Compound(text string) float64 {
	return f(text)
}

// Scorer rescales an engine's compound polarity to the 0-100 sentiment scale.
type Scorer struct {
	engine PolarityEngine
}

// NewScorer creates a Scorer backed by engine.
func NewScorer(engine PolarityEngine) *Scorer {
	return &Scorer{engine: engine}
}

// Score returns (compound + 1) * 50 for normalized, non-empty text.
func (s *Scorer) Score(text string) float64 {
	compound := s.engine.Compound(text)
	switch {
	case math.IsNaN(compound):
		compound = 0
	case compound > 1:
		compound = 1
	case compound < -1:
		compound = -1
	}
	return (compound + 1) * 50
}
