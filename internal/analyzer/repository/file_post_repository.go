package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/entity"
	"golang-sentiment-scryper/pkg/logger"
)

type filePostRepository struct {
	dir string
	log *logger.Logger
	loc *time.Location
}

// NewFilePostRepository reads exported timelines from <dir>/<handle>.json.
func NewFilePostRepository(cfg *config.Config, log *logger.Logger, loc *time.Location) PostRepository {
	return &filePostRepository{
		dir: cfg.Posts.Dir,
		log: log,
		loc: loc,
	}
}

func (r *filePostRepository) FetchPosts(ctx context.Context, handle string) ([]entity.Post, error) {
	if strings.ContainsAny(handle, `/\`) || strings.Contains(handle, "..") {
		return nil, entity.ErrInvalidHandle
	}
	path := filepath.Join(r.dir, handle+".json")

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		r.log.InfoContext(ctx, "No export file for author", logger.StringField("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", entity.ErrSourceUnavailable, path, err)
	}

	var records []dto.SourcePost
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", entity.ErrSourceUnavailable, path, err)
	}

	posts := make([]entity.Post, 0, len(records))
	for i, record := range records {
		post, err := record.ToEntity(r.loc)
		if err != nil {
			r.log.WarnContext(ctx, "Skipping export record",
				logger.StringField("path", path),
				logger.IntField("index", i),
				logger.ErrorField(err),
			)
			continue
		}
		if post.AuthorHandle == "" {
			post.AuthorHandle = handle
		}
		if post.ID == "" {
			post.ID = fmt.Sprintf("%s-%d", handle, i)
		}
		posts = append(posts, post)
	}

	r.log.InfoContext(ctx, "Loaded posts from export",
		logger.StringField("handle", handle),
		logger.IntField("record_count", len(records)),
		logger.IntField("post_count", len(posts)),
	)
	return posts, nil
}
