package config

import (
	"time"

	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/config"
)

// Sentiment holds pipeline settings.
type Sentiment struct {
	// TimeZone fixes the calendar used to group posts by day.
	TimeZone         string `mapstructure:"time_zone"`
	DefaultStartDate string `mapstructure:"default_start_date"`
}

// Posts holds the configuration for post retrieval.
type Posts struct {
	// Driver selects the source: "rss" or "file".
	Driver              string        `mapstructure:"driver"`
	BaseURL             string        `mapstructure:"base_url"`
	Dir                 string        `mapstructure:"dir"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	Symbol              string        `mapstructure:"symbol"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

// PriceCache holds the configuration of the price series cache.
type PriceCache struct {
	// Driver selects the backend: "memory" or "redis".
	Driver string        `mapstructure:"driver"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Enabled reports whether reports should be sent to Telegram.
func (t Telegram) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}

// Config holds the full configuration for the sentiment service.
type Config struct {
	App          config.App    `mapstructure:"app"`
	Logger       config.Logger `mapstructure:"logger"`
	Redis        config.Redis  `mapstructure:"redis"`
	API          config.API    `mapstructure:"api"`
	Sentiment    Sentiment     `mapstructure:"sentiment"`
	Posts        Posts         `mapstructure:"posts"`
	YahooFinance YahooFinance  `mapstructure:"yahoo_finance"`
	PriceCache   PriceCache    `mapstructure:"price_cache"`
	Telegram     Telegram      `mapstructure:"telegram"`
}

var defaults = map[string]interface{}{
	"app.name":                             "sentiment-service",
	"app.env":                              "development",
	"logger.level":                         "info",
	"logger.encoding":                      "json",
	"redis.host":                           "localhost",
	"redis.port":                           6379,
	"redis.db":                             0,
	"redis.pool_size":                      10,
	"redis.password":                       "",
	"api.host":                             "0.0.0.0",
	"api.port":                             8080,
	"sentiment.time_zone":                  "UTC",
	"sentiment.default_start_date":         common.DefaultStartDate,
	"posts.driver":                         "rss",
	"posts.base_url":                       "https://nitter.net",
	"posts.dir":                            "data/posts",
	"posts.max_request_per_minute":         30,
	"posts.cache_ttl":                      10 * time.Minute,
	"posts.timeout":                        15 * time.Second,
	"yahoo_finance.base_url":               "https://query1.finance.yahoo.com",
	"yahoo_finance.symbol":                 common.DefaultSymbol,
	"yahoo_finance.max_request_per_minute": 60,
	"yahoo_finance.timeout":                10 * time.Second,
	"price_cache.driver":                   "memory",
	"price_cache.ttl":                      15 * time.Minute,
	"telegram.bot_token":                   "",
	"telegram.chat_id":                     0,
}

// Load loads the sentiment service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, defaults); err != nil {
		return nil, err
	}
	return &cfg, nil
}
