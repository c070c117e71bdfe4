package dto

import (
	"cloud.google.com/go/civil"

	"golang-sentiment-scryper/internal/entity"
	"golang-sentiment-scryper/pkg/common"
)

// NewSeriesResponse flattens a filtered series into rows keyed by column.
// Overall is only plotted when it differs from a single author's line.
func NewSeriesResponse(series entity.SentimentSeries, start, end civil.Date) SeriesResponse {
	resp := SeriesResponse{
		Start:       start,
		End:         end,
		Columns:     series.Columns(),
		PlotColumns: append([]string{}, series.Authors...),
		Rows:        make([]SeriesRowOutput, 0, len(series.Rows)),
	}
	if len(series.Authors) > 1 {
		resp.PlotColumns = append(resp.PlotColumns, common.OverallColumn)
	}

	for _, row := range series.Rows {
		values := make(map[string]entity.NullScore, len(series.Authors)+1)
		for i, author := range series.Authors {
			values[author] = row.Values[i]
		}
		values[common.OverallColumn] = row.Overall
		resp.Rows = append(resp.Rows, SeriesRowOutput{Date: row.Date, Values: values})
	}
	return resp
}

// NewDistributionResponse orders the counts from most bearish to most bullish.
func NewDistributionResponse(d entity.Distribution) DistributionResponse {
	return DistributionResponse{
		Total:  d.Total(),
		Counts: d.Ordered(),
	}
}

// NewAuthorResponse links the author to their public profile.
func NewAuthorResponse(a entity.Author) AuthorResponse {
	return AuthorResponse{
		Handle:     a.Handle,
		Name:       a.Name,
		ProfileURL: common.ProfileBaseURL + a.Handle,
	}
}
