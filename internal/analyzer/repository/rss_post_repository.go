package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/entity"
	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/logger"
)

type rssPostRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	loc            *time.Location
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	inmemoryCache  *cache.Cache
}

// NewRSSPostRepository reads author timelines from a Nitter-compatible RSS
// mirror at <base_url>/<handle>/rss.
func NewRSSPostRepository(cfg *config.Config, log *logger.Logger, loc *time.Location) PostRepository {
	perMinute := cfg.Posts.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	secondsPerRequest := time.Minute / time.Duration(perMinute)
	timeout := cfg.Posts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	// go-cache treats a zero TTL as never expiring, so a non-positive TTL
	// turns caching off instead.
	var postCache *cache.Cache
	if cfg.Posts.CacheTTL > 0 {
		postCache = cache.New(cfg.Posts.CacheTTL, 2*cfg.Posts.CacheTTL)
	}
	return &rssPostRepository{
		cfg: cfg,
		log: log,
		loc: loc,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		inmemoryCache:  postCache,
	}
}

func (r *rssPostRepository) FetchPosts(ctx context.Context, handle string) ([]entity.Post, error) {
	cacheKey := fmt.Sprintf("%s:%s", common.CacheKeyPosts, strings.ToLower(handle))
	if r.inmemoryCache != nil {
		if cached, found := r.inmemoryCache.Get(cacheKey); found {
			r.log.DebugContext(ctx, "Posts served from cache", logger.StringField("handle", handle))
			return cached.([]entity.Post), nil
		}
	}

	feedURL := fmt.Sprintf("%s/%s/rss", strings.TrimRight(r.cfg.Posts.BaseURL, "/"), url.PathEscape(handle))
	body, err := r.sendRequest(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("url", feedURL))
		return nil, fmt.Errorf("%w: parse feed for %s: %v", entity.ErrSourceUnavailable, handle, err)
	}

	feedAuthor := feedAuthorName(feed)
	posts := make([]entity.Post, 0, len(feed.Items))
	for _, item := range feed.Items {
		post, ok := r.toPost(ctx, handle, feedAuthor, item)
		if !ok {
			continue
		}
		posts = append(posts, post)
	}

	r.log.InfoContext(ctx, "Fetched posts from RSS",
		logger.StringField("handle", handle),
		logger.IntField("item_count", len(feed.Items)),
		logger.IntField("post_count", len(posts)),
	)

	if r.inmemoryCache != nil {
		r.inmemoryCache.SetDefault(cacheKey, posts)
	}
	return posts, nil
}

func (r *rssPostRepository) toPost(ctx context.Context, handle, feedAuthor string, item *gofeed.Item) (entity.Post, bool) {
	text := strings.TrimSpace(item.Title)
	if text == "" {
		text = htmlToText(item.Description)
	}
	if text == "" {
		return entity.Post{}, false
	}
	if isRepost(handle, text, item) {
		r.log.DebugContext(ctx, "Skipping reposted RSS item", logger.StringField("link", item.Link))
		return entity.Post{}, false
	}

	published := item.PublishedParsed
	if published == nil {
		published = item.UpdatedParsed
	}
	if published == nil {
		r.log.WarnContext(ctx, "Skipping RSS item without publish date", logger.StringField("link", item.Link))
		return entity.Post{}, false
	}

	name := feedAuthor
	if item.Author != nil && item.Author.Name != "" && !strings.HasPrefix(item.Author.Name, "@") {
		name = item.Author.Name
	}

	return entity.Post{
		ID:           postIDFromLink(item.Link, item.GUID),
		RawText:      text,
		AuthorHandle: handle,
		AuthorName:   name,
		PostedAt:     published.In(r.loc),
	}, true
}

// isRepost reports whether an item in handle's timeline was written by someone
// else. Nitter-style feeds title retweets "RT by @handle: ..." and credit the
// original author in dc:creator.
func isRepost(handle, text string, item *gofeed.Item) bool {
	if strings.HasPrefix(text, "RT by ") {
		return true
	}
	creator := ""
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
		creator = item.DublinCoreExt.Creator[0]
	} else if item.Author != nil {
		creator = item.Author.Name
	}
	creator = strings.TrimSpace(creator)
	if !strings.HasPrefix(creator, "@") {
		return false
	}
	return !strings.EqualFold(strings.TrimPrefix(creator, "@"), strings.TrimPrefix(handle, "@"))
}

func (r *rssPostRepository) sendRequest(ctx context.Context, feedURL string) ([]byte, error) {
	fields := []zap.Field{
		zap.String("url", feedURL),
		zap.Int("max_request_per_minute", r.cfg.Posts.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, err
	}
	req.Header.Set("User-Agent", common.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to RSS mirror", fields...)
		return nil, fmt.Errorf("%w: %v", entity.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		r.log.ErrorContext(ctx, "Received non-OK response from RSS mirror", fields...)
		return nil, fmt.Errorf("%w: rss mirror returned status %d", entity.ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to read response body from RSS mirror", fields...)
		return nil, fmt.Errorf("%w: %v", entity.ErrSourceUnavailable, err)
	}
	return body, nil
}

// feedAuthorName extracts the display name from titles like "Alice / @alice".
func feedAuthorName(feed *gofeed.Feed) string {
	if feed.Author != nil && feed.Author.Name != "" {
		return feed.Author.Name
	}
	name, _, found := strings.Cut(feed.Title, " / ")
	if !found {
		return ""
	}
	return strings.TrimSpace(name)
}

// postIDFromLink returns the last path segment of a status link,
// e.g. https://nitter.net/alice/status/123#m -> 123.
func postIDFromLink(link, guid string) string {
	if u, err := url.Parse(link); err == nil && u.Path != "" {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		if last := segments[len(segments)-1]; last != "" {
			return last
		}
	}
	return guid
}

func htmlToText(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
