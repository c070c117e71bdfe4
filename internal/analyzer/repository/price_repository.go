package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/entity"
	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/logger"
)

// PriceRepository provides daily closes of the tracked asset. Both bounds are
// inclusive.
type PriceRepository interface {
	FetchPrices(ctx context.Context, start, end civil.Date) (entity.PriceSeries, error)
}

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	cache          PriceCache
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a price source backed by the Yahoo
// Finance chart API, reading through cache.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger, cache PriceCache) PriceRepository {
	perMinute := cfg.YahooFinance.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	secondsPerRequest := time.Minute / time.Duration(perMinute)
	timeout := cfg.YahooFinance.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &yahooFinanceRepository{
		cfg:   cfg,
		log:   log,
		cache: cache,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *yahooFinanceRepository) FetchPrices(ctx context.Context, start, end civil.Date) (entity.PriceSeries, error) {
	if start.After(end) {
		return nil, entity.ErrInvalidDateRange
	}
	symbol := r.cfg.YahooFinance.Symbol
	cacheKey := fmt.Sprintf("%s:%s:%s:%s", common.CacheKeyPrices, symbol, start, end)

	if r.cache != nil {
		cached, found, err := r.cache.Get(ctx, cacheKey)
		if err != nil {
			r.log.WarnContext(ctx, "Failed to read price cache", logger.StringField("key", cacheKey), logger.ErrorField(err))
		} else if found {
			return cached, nil
		}
	}

	prices, err := r.fetchChart(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey, prices); err != nil {
			r.log.WarnContext(ctx, "Failed to write price cache", logger.StringField("key", cacheKey), logger.ErrorField(err))
		}
	}
	return prices, nil
}

func (r *yahooFinanceRepository) fetchChart(ctx context.Context, symbol string, start, end civil.Date) (entity.PriceSeries, error) {
	query := url.Values{}
	query.Set("period1", fmt.Sprint(start.In(time.UTC).Unix()))
	query.Set("period2", fmt.Sprint(end.AddDays(1).In(time.UTC).Unix()))
	query.Set("interval", "1d")
	chartURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s",
		strings.TrimRight(r.cfg.YahooFinance.BaseURL, "/"), url.PathEscape(symbol), query.Encode())

	body, status, err := r.sendRequest(ctx, chartURL)
	if err != nil {
		return nil, err
	}

	var response dto.YahooChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		if status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", entity.ErrSymbolNotFound, symbol)
		}
		return nil, fmt.Errorf("%w: decode chart response: %v", entity.ErrSourceUnavailable, err)
	}
	if response.Chart.Error != nil {
		if response.Chart.Error.Code == "Not Found" || status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", entity.ErrSymbolNotFound, symbol)
		}
		return nil, fmt.Errorf("%w: %s", entity.ErrSourceUnavailable, response.Chart.Error.Description)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: yahoo finance returned status %d", entity.ErrSourceUnavailable, status)
	}
	if len(response.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrSymbolNotFound, symbol)
	}

	prices := parseCloses(response.Chart.Result[0], start, end)
	r.log.DebugContext(ctx, "Fetched prices",
		logger.StringField("symbol", symbol),
		logger.IntField("count", len(prices)),
	)
	return prices, nil
}

// parseCloses keeps one close per UTC date inside [start, end]; null closes
// are skipped and a later quote for the same date wins.
func parseCloses(result dto.YahooChartResult, start, end civil.Date) entity.PriceSeries {
	var closes []*float64
	if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}

	byDate := make(map[civil.Date]decimal.Decimal, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		date := civil.DateOf(time.Unix(ts, 0).UTC())
		if date.Before(start) || date.After(end) {
			continue
		}
		byDate[date] = decimal.NewFromFloat(*closes[i])
	}

	prices := make(entity.PriceSeries, 0, len(byDate))
	for date, price := range byDate {
		prices = append(prices, entity.PricePoint{Date: date, Close: price})
	}
	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Date.Before(prices[j].Date)
	})
	return prices
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, chartURL string) ([]byte, int, error) {
	fields := []zap.Field{
		zap.String("url", chartURL),
		zap.Int("max_request_per_minute", r.cfg.YahooFinance.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, chartURL, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, 0, err
	}
	req.Header.Set("User-Agent", common.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to Yahoo Finance API", fields...)
		return nil, 0, fmt.Errorf("%w: %v", entity.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to read response body from Yahoo Finance API", fields...)
		return nil, resp.StatusCode, fmt.Errorf("%w: %v", entity.ErrSourceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		r.log.ErrorContext(ctx, "Received non-OK response from Yahoo Finance API", fields...)
	}
	return body, resp.StatusCode, nil
}
