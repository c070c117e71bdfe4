package main

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/analyzer/repository"
	"golang-sentiment-scryper/internal/analyzer/service"
	"golang-sentiment-scryper/internal/sentiment"
	"golang-sentiment-scryper/pkg/logger"
	"golang-sentiment-scryper/pkg/redis"
	"golang-sentiment-scryper/pkg/utils"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg              *config.Config
	logger           *logger.Logger
	loc              *time.Location
	defaultStart     civil.Date
	sentimentService service.SentimentService
	closers          []func() error
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loc, err := utils.LoadLocation(cfg.Sentiment.TimeZone)
	if err != nil {
		return nil, err
	}
	defaultStart, err := civil.ParseDate(cfg.Sentiment.DefaultStartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid sentiment.default_start_date: %w", err)
	}

	a := &app{
		cfg:          cfg,
		logger:       appLogger,
		loc:          loc,
		defaultStart: defaultStart,
	}

	priceCache, err := a.newPriceCache()
	if err != nil {
		return nil, err
	}
	postRepo, err := repository.NewPostRepository(cfg, appLogger, loc)
	if err != nil {
		return nil, err
	}
	priceRepo := repository.NewYahooFinanceRepository(cfg, appLogger, priceCache)
	scorer := sentiment.NewScorer(sentiment.NewVaderEngine())

	a.sentimentService = service.NewSentimentService(postRepo, priceRepo, scorer, appLogger)

	appLogger.Info("Sentiment pipeline ready",
		logger.StringField("posts_driver", cfg.Posts.Driver),
		logger.StringField("price_cache_driver", cfg.PriceCache.Driver),
		logger.StringField("time_zone", loc.String()),
	)
	return a, nil
}

func (a *app) newPriceCache() (repository.PriceCache, error) {
	switch a.cfg.PriceCache.Driver {
	case "", "memory":
		return repository.NewMemoryPriceCache(a.cfg.PriceCache.TTL), nil
	case "redis":
		redisClient, err := redis.NewClient(redis.Config{
			Host:     a.cfg.Redis.Host,
			Port:     a.cfg.Redis.Port,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
			PoolSize: a.cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		a.closers = append(a.closers, redisClient.Close)
		return repository.NewRedisPriceCache(redisClient, a.cfg.PriceCache.TTL), nil
	default:
		return nil, fmt.Errorf("unknown price_cache driver %q", a.cfg.PriceCache.Driver)
	}
}

// addAuthors loads every handle into the session. Failures are logged and
// skipped so one unavailable author does not abort a batch.
func (a *app) addAuthors(ctx context.Context, handles []string) {
	for _, handle := range handles {
		result, err := a.sentimentService.AddAuthor(ctx, handle)
		if err != nil {
			a.logger.Error("Failed to add author", logger.StringField("handle", handle), logger.ErrorField(err))
			continue
		}
		if !result.Added {
			a.logger.Info("Author not added", logger.StringField("handle", handle), logger.StringField("reason", result.Reason))
		}
	}
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c()
	}
	_ = a.logger.Sync()
}
