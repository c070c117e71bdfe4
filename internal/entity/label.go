package entity

import "fmt"

// SentimentLabel is one of the five ordered sentiment regimes.
type SentimentLabel int

const (
	ExtremelyBearish SentimentLabel = iota
	Bearish
	Neutral
	Bullish
	ExtremelyBullish
)

// Labels lists every label from most bearish to most bullish.
var Labels = []SentimentLabel{ExtremelyBearish, Bearish, Neutral, Bullish, ExtremelyBullish}

// UnknownLabel is exported when a post has no sentiment score.
const UnknownLabel = "Unknown"

var labelNames = map[SentimentLabel]string{
	ExtremelyBearish: "Extremely Bearish",
	Bearish:          "Bearish",
	Neutral:          "Neutral",
	Bullish:          "Bullish",
	ExtremelyBullish: "Extremely Bullish",
}

func (l SentimentLabel) String() string {
	if name, ok := labelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("SentimentLabel(%d)", int(l))
}

// MarshalText lets labels be used as JSON values and map keys.
func (l SentimentLabel) MarshalText() ([]byte, error) {
	if _, ok := labelNames[l]; !ok {
		return nil, fmt.Errorf("unknown sentiment label %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText parses a label name.
func (l *SentimentLabel) UnmarshalText(text []byte) error {
	for label, name := range labelNames {
		if name == string(text) {
			*l = label
			return nil
		}
	}
	return fmt.Errorf("unknown sentiment label %q", string(text))
}

// Regime is the score band of a label: Lower <= score < Upper. The lowest
// band is unbounded below and the highest unbounded above; the bounds here
// are the chart limits of the 0-100 scale.
type Regime struct {
	Label SentimentLabel `json:"label"`
	Lower float64        `json:"lower"`
	Upper float64        `json:"upper"`
	Color string         `json:"color"`
}

// Distribution counts labels. Labels that never occurred are absent.
type Distribution map[SentimentLabel]int

// Count returns the occurrences of label, zero when absent.
func (d Distribution) Count(label SentimentLabel) int {
	return d[label]
}

// Total returns the number of classified scores.
func (d Distribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// LabelCount is one entry of an ordered distribution.
type LabelCount struct {
	Label SentimentLabel `json:"label"`
	Count int            `json:"count"`
}

// Ordered returns the present labels from most bearish to most bullish.
func (d Distribution) Ordered() []LabelCount {
	out := make([]LabelCount, 0, len(d))
	for _, label := range Labels {
		if n, ok := d[label]; ok {
			out = append(out, LabelCount{Label: label, Count: n})
		}
	}
	return out
}
