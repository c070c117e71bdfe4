package dto

// YahooChartResponse is the v8 chart API payload.
type YahooChartResponse struct {
	Chart struct {
		Result []YahooChartResult `json:"result"`
		Error  *YahooError        `json:"error"`
	} `json:"chart"`
}

type YahooChartResult struct {
	Meta       YahooChartMeta  `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators YahooIndicators `json:"indicators"`
}

type YahooChartMeta struct {
	Symbol       string `json:"symbol"`
	Currency     string `json:"currency"`
	ExchangeName string `json:"exchangeName"`
	Timezone     string `json:"exchangeTimezoneName"`
}

type YahooIndicators struct {
	Quote []YahooQuote `json:"quote"`
}

// YahooQuote holds nullable closes; Yahoo sends null for missing sessions.
type YahooQuote struct {
	Close []*float64 `json:"close"`
}

type YahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
