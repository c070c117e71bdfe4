package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cloud.google.com/go/civil"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/analyzer/repository"
	"golang-sentiment-scryper/internal/entity"
	"golang-sentiment-scryper/internal/sentiment"
	"golang-sentiment-scryper/pkg/logger"
)

// SentimentService is one analysis session: the tracked authors, their posts
// and the per-author daily sentiment derived from them.
type SentimentService interface {
	AddAuthor(ctx context.Context, handle string) (*dto.AddAuthorResult, error)
	Authors() []entity.Author
	Series(start, end civil.Date) (entity.SentimentSeries, error)
	Distribution() entity.Distribution
	ExportRows() []entity.ExportRow
	Prices(ctx context.Context, start, end civil.Date) (entity.PriceSeries, error)
	Dashboard(ctx context.Context, start, end civil.Date) (*dto.DashboardResponse, error)
}

// NewSentimentService creates an empty session.
func NewSentimentService(
	postRepo repository.PostRepository,
	priceRepo repository.PriceRepository,
	scorer *sentiment.Scorer,
	logger *logger.Logger,
) SentimentService {
	return &sentimentService{
		postRepo:  postRepo,
		priceRepo: priceRepo,
		scorer:    scorer,
		logger:    logger,
		names:     make(map[string]string),
		daily:     make(map[string]entity.DailySentiment),
	}
}

type sentimentService struct {
	postRepo  repository.PostRepository
	priceRepo repository.PriceRepository
	scorer    *sentiment.Scorer
	logger    *logger.Logger

	mu sync.RWMutex
	// handles keeps registration order; names and daily are keyed by handle.
	handles []string
	names   map[string]string
	posts   []entity.Post
	daily   map[string]entity.DailySentiment
}

// AddAuthor fetches and scores the posts of handle and adds the author to
// the session. Known authors and authors without posts are left untouched.
func (s *sentimentService) AddAuthor(ctx context.Context, handle string) (*dto.AddAuthorResult, error) {
	handle = normalizeHandle(handle)
	if handle == "" {
		return nil, entity.ErrInvalidHandle
	}

	if author, ok := s.lookup(handle); ok {
		return &dto.AddAuthorResult{Author: author, Reason: "author already tracked"}, nil
	}

	posts, err := s.postRepo.FetchPosts(ctx, handle)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch posts", logger.StringField("handle", handle), logger.ErrorField(err))
		return nil, fmt.Errorf("fetch posts for %s: %w", handle, err)
	}
	if len(posts) == 0 {
		s.logger.InfoContext(ctx, "No posts found for author", logger.StringField("handle", handle))
		return &dto.AddAuthorResult{Author: entity.Author{Handle: handle, Name: handle}, Reason: "no posts found"}, nil
	}

	daily := sentiment.AggregateDaily(handle, posts, s.scorer)
	name := posts[0].AuthorName
	if name == "" {
		name = handle
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.findLocked(handle); ok {
		return &dto.AddAuthorResult{Author: entity.Author{Handle: existing, Name: s.names[existing]}, Reason: "author already tracked"}, nil
	}
	s.handles = append(s.handles, handle)
	s.names[handle] = name
	s.posts = append(s.posts, posts...)
	s.daily[handle] = daily

	s.logger.InfoContext(ctx, "Author added",
		logger.StringField("handle", handle),
		logger.IntField("post_count", len(posts)),
		logger.IntField("day_count", len(daily)),
	)

	return &dto.AddAuthorResult{
		Author:    entity.Author{Handle: handle, Name: name},
		Added:     true,
		PostCount: len(posts),
		DayCount:  len(daily),
	}, nil
}

// Authors returns the tracked authors in the order they were added.
func (s *sentimentService) Authors() []entity.Author {
	s.mu.RLock()
	defer s.mu.RUnlock()

	authors := make([]entity.Author, 0, len(s.handles))
	for _, h := range s.handles {
		authors = append(authors, entity.Author{Handle: h, Name: s.names[h]})
	}
	return authors
}

// Series merges all authors and keeps the rows between start and end.
func (s *sentimentService) Series(start, end civil.Date) (entity.SentimentSeries, error) {
	if start.After(end) {
		return entity.SentimentSeries{}, entity.ErrInvalidDateRange
	}
	return s.merge().Between(start, end), nil
}

// Distribution counts the labels of the whole Overall column, ignoring any
// display range.
func (s *sentimentService) Distribution() entity.Distribution {
	return sentiment.Summarize(s.merge().OverallScores())
}

// ExportRows returns one row per fetched post in ingestion order. The score
// is the daily value of the post's author on the post's date.
func (s *sentimentService) ExportRows() []entity.ExportRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]entity.ExportRow, 0, len(s.posts))
	for _, post := range s.posts {
		row := entity.ExportRow{
			PostID:         post.ID,
			Content:        post.RawText,
			Date:           post.Date(),
			SentimentLabel: entity.UnknownLabel,
		}
		if handle, ok := s.findLocked(post.AuthorHandle); ok {
			if score, ok := s.daily[handle][row.Date]; ok {
				row.SentimentScore = entity.Score(score)
				row.SentimentLabel = sentiment.Classify(score).String()
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *sentimentService) Prices(ctx context.Context, start, end civil.Date) (entity.PriceSeries, error) {
	if start.After(end) {
		return nil, entity.ErrInvalidDateRange
	}
	return s.priceRepo.FetchPrices(ctx, start, end)
}

// Dashboard assembles the full view. A price failure is reported in the
// response instead of failing the sentiment part.
func (s *sentimentService) Dashboard(ctx context.Context, start, end civil.Date) (*dto.DashboardResponse, error) {
	series, err := s.Series(start, end)
	if err != nil {
		return nil, err
	}

	authors := s.Authors()
	resp := &dto.DashboardResponse{
		Authors:      make([]dto.AuthorResponse, 0, len(authors)),
		Series:       dto.NewSeriesResponse(series, start, end),
		Distribution: dto.NewDistributionResponse(s.Distribution()),
		Regimes:      sentiment.Regimes(),
	}
	for _, a := range authors {
		resp.Authors = append(resp.Authors, dto.NewAuthorResponse(a))
	}

	prices, err := s.Prices(ctx, start, end)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to fetch prices for dashboard", logger.ErrorField(err))
		resp.PriceError = err.Error()
		return resp, nil
	}
	resp.Prices = &dto.PriceResponse{Start: start, End: end, Prices: prices}
	return resp, nil
}

func (s *sentimentService) merge() entity.SentimentSeries {
	s.mu.RLock()
	defer s.mu.RUnlock()

	authors := make([]entity.AuthorDaily, 0, len(s.handles))
	for _, h := range s.handles {
		authors = append(authors, entity.AuthorDaily{Handle: h, Daily: s.daily[h]})
	}
	return sentiment.Merge(authors)
}

func (s *sentimentService) lookup(handle string) (entity.Author, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	existing, ok := s.findLocked(handle)
	if !ok {
		return entity.Author{}, false
	}
	return entity.Author{Handle: existing, Name: s.names[existing]}, true
}

// findLocked matches handles case-insensitively, as the platforms do.
func (s *sentimentService) findLocked(handle string) (string, bool) {
	for _, h := range s.handles {
		if strings.EqualFold(h, handle) {
			return h, true
		}
	}
	return "", false
}

func normalizeHandle(handle string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}
