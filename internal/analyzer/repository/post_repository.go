package repository

import (
	"context"
	"fmt"
	"time"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/entity"
	"golang-sentiment-scryper/pkg/logger"
)

// PostRepository retrieves the posts published by an author. Returned posts
// carry PostedAt in the ingestion timezone.
type PostRepository interface {
	FetchPosts(ctx context.Context, handle string) ([]entity.Post, error)
}

// NewPostRepository returns the post source selected by cfg.Posts.Driver.
func NewPostRepository(cfg *config.Config, log *logger.Logger, loc *time.Location) (PostRepository, error) {
	switch cfg.Posts.Driver {
	case "", "rss":
		return NewRSSPostRepository(cfg, log, loc), nil
	case "file":
		return NewFilePostRepository(cfg, log, loc), nil
	default:
		return nil, fmt.Errorf("unknown posts driver %q", cfg.Posts.Driver)
	}
}
