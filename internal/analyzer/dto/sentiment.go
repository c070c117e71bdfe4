package dto

import (
	"cloud.google.com/go/civil"

	"golang-sentiment-scryper/internal/entity"
)

// AddAuthorRequest is the body of POST /authors.
type AddAuthorRequest struct {
	Handle string `json:"handle"`
}

// AddAuthorResult reports the outcome of adding an author.
type AddAuthorResult struct {
	Author    entity.Author `json:"author"`
	Added     bool          `json:"added"`
	PostCount int           `json:"post_count"`
	DayCount  int           `json:"day_count"`
	Reason    string        `json:"reason,omitempty"`
}

// AuthorResponse describes a tracked author.
type AuthorResponse struct {
	Handle     string `json:"handle"`
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
}

// SeriesResponse is the date-filtered sentiment table.
type SeriesResponse struct {
	Start       civil.Date        `json:"start"`
	End         civil.Date        `json:"end"`
	Columns     []string          `json:"columns"`
	PlotColumns []string          `json:"plot_columns"`
	Rows        []SeriesRowOutput `json:"rows"`
}

// SeriesRowOutput is one row keyed by column name.
type SeriesRowOutput struct {
	Date   civil.Date                  `json:"date"`
	Values map[string]entity.NullScore `json:"values"`
}

// DistributionResponse lists present labels in regime order.
type DistributionResponse struct {
	Total  int                 `json:"total"`
	Counts []entity.LabelCount `json:"counts"`
}

// PriceResponse is the price series of the tracked asset.
type PriceResponse struct {
	Start  civil.Date         `json:"start"`
	End    civil.Date         `json:"end"`
	Prices entity.PriceSeries `json:"prices"`
}

// DashboardResponse bundles everything the dashboard renders.
type DashboardResponse struct {
	Authors      []AuthorResponse     `json:"authors"`
	Series       SeriesResponse       `json:"series"`
	Distribution DistributionResponse `json:"distribution"`
	Regimes      []entity.Regime      `json:"regimes"`
	Prices       *PriceResponse       `json:"prices,omitempty"`
	PriceError   string               `json:"price_error,omitempty"`
}

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthorSummary condenses one column of the series over a report period.
type AuthorSummary struct {
	Handle     string           `json:"handle"`
	Name       string           `json:"name"`
	Days       int              `json:"days"`
	Average    entity.NullScore `json:"average"`
	Latest     entity.NullScore `json:"latest"`
	LatestDate civil.Date       `json:"latest_date"`
	Label      string           `json:"label"`
}

// SentimentReport is the periodic summary pushed to chat.
type SentimentReport struct {
	Start        civil.Date           `json:"start"`
	End          civil.Date           `json:"end"`
	Authors      []AuthorSummary      `json:"authors"`
	Overall      AuthorSummary        `json:"overall"`
	Distribution DistributionResponse `json:"distribution"`
}
