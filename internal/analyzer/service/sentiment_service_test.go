package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-sentiment-scryper/internal/entity"
	"golang-sentiment-scryper/internal/sentiment"
	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/logger"
)

type mockPostRepository struct {
	mu           sync.Mutex
	calls        int
	fetchPostsFn func(ctx context.Context, handle string) ([]entity.Post, error)
}

func (m *mockPostRepository) FetchPosts(ctx context.Context, handle string) ([]entity.Post, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.fetchPostsFn != nil {
		return m.fetchPostsFn(ctx, handle)
	}
	return nil, nil
}

type mockPriceRepository struct {
	fetchPricesFn func(ctx context.Context, start, end civil.Date) (entity.PriceSeries, error)
}

func (m *mockPriceRepository) FetchPrices(ctx context.Context, start, end civil.Date) (entity.PriceSeries, error) {
	if m.fetchPricesFn != nil {
		return m.fetchPricesFn(ctx, start, end)
	}
	return entity.PriceSeries{}, nil
}

// compounds maps post text to a fixed polarity.
var compounds = map[string]float64{
	"up only":      0.5,
	"down bad":     -0.5,
	"all in":       0.8,
	"meh":          0,
	"moon soon":    0.6,
	"bear market!": -0.9,
}

func newTestScorer() *sentiment.Scorer {
	return sentiment.NewScorer(sentiment.PolarityFunc(func(text string) float64 {
		return compounds[strings.TrimSpace(text)]
	}))
}

func day(d int) civil.Date {
	return civil.Date{Year: 2024, Month: time.January, Day: d}
}

func post(id, handle, name, text string, d int) entity.Post {
	return entity.Post{
		ID:           id,
		RawText:      text,
		AuthorHandle: handle,
		AuthorName:   name,
		PostedAt:     time.Date(2024, time.January, d, 12, 0, 0, 0, time.UTC),
	}
}

func timelines(byHandle map[string][]entity.Post) *mockPostRepository {
	return &mockPostRepository{
		fetchPostsFn: func(_ context.Context, handle string) ([]entity.Post, error) {
			return byHandle[handle], nil
		},
	}
}

func newTestService(posts *mockPostRepository, prices *mockPriceRepository) SentimentService {
	if prices == nil {
		prices = &mockPriceRepository{}
	}
	return NewSentimentService(posts, prices, newTestScorer(), logger.NewNop())
}

func TestSentimentService_AddAuthor_SingleAuthorDay(t *testing.T) {
	svc := newTestService(timelines(map[string][]entity.Post{
		"alice": {
			post("1", "alice", "Alice", "up only", 1),
			post("2", "alice", "Alice", "down bad", 1),
		},
	}), nil)

	result, err := svc.AddAuthor(context.Background(), "@alice")
	require.NoError(t, err)
	assert.True(t, result.Added)
	assert.Equal(t, entity.Author{Handle: "alice", Name: "Alice"}, result.Author)
	assert.Equal(t, 2, result.PostCount)
	assert.Equal(t, 1, result.DayCount)

	series, err := svc.Series(day(1), day(31))
	require.NoError(t, err)
	require.Len(t, series.Rows, 1)
	assert.Equal(t, []string{"alice", common.OverallColumn}, series.Columns())
	assert.Equal(t, entity.Score(50), series.Lookup("alice", day(1)))
	assert.Equal(t, entity.Score(50), series.Lookup(common.OverallColumn, day(1)))

	dist := svc.Distribution()
	assert.Equal(t, 1, dist.Count(entity.Neutral))
	assert.Equal(t, 1, dist.Total())
}

func TestSentimentService_AddAuthor_Idempotent(t *testing.T) {
	repo := timelines(map[string][]entity.Post{
		"alice": {post("1", "alice", "Alice", "up only", 1)},
	})
	svc := newTestService(repo, nil)

	first, err := svc.AddAuthor(context.Background(), "alice")
	require.NoError(t, err)
	before := svc.ExportRows()

	second, err := svc.AddAuthor(context.Background(), " @ALICE ")
	require.NoError(t, err)

	assert.True(t, first.Added)
	assert.False(t, second.Added)
	assert.Equal(t, "alice", second.Author.Handle)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, before, svc.ExportRows())
	assert.Len(t, svc.Authors(), 1)
}

func TestSentimentService_AddAuthor_InvalidHandle(t *testing.T) {
	svc := newTestService(timelines(nil), nil)

	for _, handle := range []string{"", "   ", "@"} {
		_, err := svc.AddAuthor(context.Background(), handle)
		assert.ErrorIs(t, err, entity.ErrInvalidHandle, "handle %q", handle)
	}
	assert.Empty(t, svc.Authors())
}

func TestSentimentService_AddAuthor_FetchFailureLeavesStateUnchanged(t *testing.T) {
	repo := &mockPostRepository{
		fetchPostsFn: func(_ context.Context, _ string) ([]entity.Post, error) {
			return nil, entity.ErrSourceUnavailable
		},
	}
	svc := newTestService(repo, nil)

	result, err := svc.AddAuthor(context.Background(), "alice")
	assert.ErrorIs(t, err, entity.ErrSourceUnavailable)
	assert.Nil(t, result)
	assert.Empty(t, svc.Authors())
	assert.Empty(t, svc.ExportRows())
}

func TestSentimentService_AddAuthor_NoPosts(t *testing.T) {
	svc := newTestService(timelines(nil), nil)

	result, err := svc.AddAuthor(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, result.Added)
	assert.Empty(t, svc.Authors())
}

func TestSentimentService_AddAuthor_NoQualifyingText(t *testing.T) {
	svc := newTestService(timelines(map[string][]entity.Post{
		"linky": {post("1", "linky", "", "https://example.com", 1)},
	}), nil)

	result, err := svc.AddAuthor(context.Background(), "linky")
	require.NoError(t, err)
	assert.True(t, result.Added)
	assert.Equal(t, "linky", result.Author.Name)
	assert.Equal(t, 0, result.DayCount)

	series, err := svc.Series(day(1), day(31))
	require.NoError(t, err)
	assert.True(t, series.IsEmpty())
	assert.Equal(t, []string{"linky"}, series.Columns())

	rows := svc.ExportRows()
	require.Len(t, rows, 1)
	assert.False(t, rows[0].SentimentScore.Valid)
	assert.Equal(t, entity.UnknownLabel, rows[0].SentimentLabel)
}

func TestSentimentService_TwoAuthors(t *testing.T) {
	svc := newTestService(timelines(map[string][]entity.Post{
		"alice": {
			post("a1", "alice", "Alice", "all in", 1),
			post("a2", "alice", "Alice", "meh", 2),
		},
		"bob": {
			post("b1", "bob", "Bob", "bear market!", 2),
			post("b2", "bob", "Bob", "moon soon", 3),
		},
	}), nil)

	ctx := context.Background()
	_, err := svc.AddAuthor(ctx, "alice")
	require.NoError(t, err)
	_, err = svc.AddAuthor(ctx, "bob")
	require.NoError(t, err)

	series, err := svc.Series(day(1), day(31))
	require.NoError(t, err)
	require.Len(t, series.Rows, 3)
	assert.Equal(t, []string{"alice", "bob", common.OverallColumn}, series.Columns())

	assert.Equal(t, entity.Score(90), series.Lookup("alice", day(1)))
	assert.False(t, series.Lookup("bob", day(1)).Valid)
	assert.Equal(t, entity.Score(90), series.Lookup(common.OverallColumn, day(1)))

	assert.Equal(t, entity.Score(50), series.Lookup("alice", day(2)))
	assert.InDelta(t, 5, series.Lookup("bob", day(2)).Value, 1e-9)
	assert.InDelta(t, 27.5, series.Lookup(common.OverallColumn, day(2)).Value, 1e-9)

	assert.InDelta(t, 80, series.Lookup(common.OverallColumn, day(3)).Value, 1e-9)

	dist := svc.Distribution()
	assert.Equal(t, 2, dist.Count(entity.ExtremelyBullish))
	assert.Equal(t, 1, dist.Count(entity.Bearish))
	assert.Equal(t, 0, dist.Count(entity.Neutral))

	filtered, err := svc.Series(day(2), day(2))
	require.NoError(t, err)
	require.Len(t, filtered.Rows, 1)
	assert.Equal(t, 3, svc.Distribution().Total(), "distribution ignores the display range")
}

func TestSentimentService_Series_InvalidRange(t *testing.T) {
	svc := newTestService(timelines(nil), nil)

	_, err := svc.Series(day(5), day(1))
	assert.ErrorIs(t, err, entity.ErrInvalidDateRange)
}

func TestSentimentService_ExportRows(t *testing.T) {
	svc := newTestService(timelines(map[string][]entity.Post{
		"alice": {
			post("1", "alice", "Alice", "up only https://t.co/x", 1),
			post("2", "Alice", "Alice", "all in", 2),
			post("3", "mallory", "Mallory", "down bad", 3),
		},
	}), nil)

	_, err := svc.AddAuthor(context.Background(), "alice")
	require.NoError(t, err)

	rows := svc.ExportRows()
	require.Len(t, rows, 3)

	assert.Equal(t, "1", rows[0].PostID)
	assert.Equal(t, "up only https://t.co/x", rows[0].Content)
	assert.Equal(t, day(1), rows[0].Date)
	assert.Equal(t, entity.Score(75), rows[0].SentimentScore)
	assert.Equal(t, "Bullish", rows[0].SentimentLabel)

	assert.Equal(t, entity.Score(90), rows[1].SentimentScore)
	assert.Equal(t, "Extremely Bullish", rows[1].SentimentLabel)

	assert.False(t, rows[2].SentimentScore.Valid)
	assert.Equal(t, entity.UnknownLabel, rows[2].SentimentLabel)
}

func TestSentimentService_Dashboard(t *testing.T) {
	prices := &mockPriceRepository{
		fetchPricesFn: func(_ context.Context, start, end civil.Date) (entity.PriceSeries, error) {
			return entity.PriceSeries{{Date: start, Close: decimal.NewFromInt(42000)}}, nil
		},
	}
	svc := newTestService(timelines(map[string][]entity.Post{
		"alice": {post("1", "alice", "Alice", "up only", 1)},
	}), prices)

	_, err := svc.AddAuthor(context.Background(), "alice")
	require.NoError(t, err)

	dash, err := svc.Dashboard(context.Background(), day(1), day(31))
	require.NoError(t, err)
	require.Len(t, dash.Authors, 1)
	assert.Equal(t, "https://twitter.com/alice", dash.Authors[0].ProfileURL)
	assert.Equal(t, []string{"alice"}, dash.Series.PlotColumns)
	assert.Equal(t, []string{"alice", common.OverallColumn}, dash.Series.Columns)
	assert.Len(t, dash.Regimes, 5)
	require.NotNil(t, dash.Prices)
	assert.Len(t, dash.Prices.Prices, 1)
	assert.Empty(t, dash.PriceError)
}

func TestSentimentService_Dashboard_PriceFailure(t *testing.T) {
	prices := &mockPriceRepository{
		fetchPricesFn: func(context.Context, civil.Date, civil.Date) (entity.PriceSeries, error) {
			return nil, entity.ErrSourceUnavailable
		},
	}
	svc := newTestService(timelines(nil), prices)

	dash, err := svc.Dashboard(context.Background(), day(1), day(31))
	require.NoError(t, err)
	assert.Nil(t, dash.Prices)
	assert.NotEmpty(t, dash.PriceError)
}

func TestSentimentService_ConcurrentAddAuthor(t *testing.T) {
	repo := timelines(map[string][]entity.Post{
		"alice": {post("1", "alice", "Alice", "up only", 1)},
	})
	svc := newTestService(repo, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddAuthor(context.Background(), "alice")
			_, _ = svc.Series(day(1), day(31))
		}()
	}
	wg.Wait()

	assert.Len(t, svc.Authors(), 1)
	assert.Len(t, svc.ExportRows(), 1)
}
