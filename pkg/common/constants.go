package common

const (
	CacheKeyPrices = "sentiment.prices"
	CacheKeyPosts  = "sentiment.posts"

	// OverallColumn names the derived cross-author mean column.
	OverallColumn = "Overall"

	ExportFileName = "tweet_sentiment_data.csv"

	DefaultSymbol    = "BTC-USD"
	DefaultStartDate = "2017-01-01"
	DateLayout       = "2006-01-02"

	ProfileBaseURL = "https://twitter.com/"

	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)
