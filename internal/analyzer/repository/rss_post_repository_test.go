package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-sentiment-scryper/internal/analyzer/config"
	"golang-sentiment-scryper/internal/entity"
	"golang-sentiment-scryper/pkg/logger"
)

const aliceFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
<title>Alice Smith / @alice</title>
<link>https://nitter.net/alice</link>
<description>Twitter feed for: @alice.</description>
<item>
<title>Bitcoin looks great today</title>
<dc:creator>@alice</dc:creator>
<description><![CDATA[<p>Bitcoin looks great today</p>]]></description>
<pubDate>Mon, 01 Jan 2024 10:00:00 GMT</pubDate>
<guid>https://nitter.net/alice/status/111#m</guid>
<link>https://nitter.net/alice/status/111#m</link>
</item>
<item>
<title></title>
<dc:creator>@alice</dc:creator>
<description><![CDATA[<p>Markets <b>crash</b> again</p>]]></description>
<pubDate>Tue, 02 Jan 2024 23:30:00 GMT</pubDate>
<guid>https://nitter.net/alice/status/222#m</guid>
<link>https://nitter.net/alice/status/222#m</link>
</item>
<item>
<title>RT by @alice: Everything is going to zero</title>
<dc:creator>@bob</dc:creator>
<pubDate>Tue, 02 Jan 2024 12:00:00 GMT</pubDate>
<guid>https://nitter.net/bob/status/444#m</guid>
<link>https://nitter.net/bob/status/444#m</link>
</item>
<item>
<title>Worst week ever for crypto</title>
<dc:creator>@carol</dc:creator>
<pubDate>Tue, 02 Jan 2024 13:00:00 GMT</pubDate>
<guid>https://nitter.net/carol/status/555#m</guid>
<link>https://nitter.net/carol/status/555#m</link>
</item>
<item>
<title>no date here</title>
<link>https://nitter.net/alice/status/333#m</link>
</item>
</channel>
</rss>`

func newRSSConfig(baseURL string) *config.Config {
	return &config.Config{
		Posts: config.Posts{
			Driver:              "rss",
			BaseURL:             baseURL,
			MaxRequestPerMinute: 6000,
			CacheTTL:            time.Minute,
			Timeout:             time.Second,
		},
	}
}

func TestRSSPostRepository_FetchPosts(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/alice/rss", r.URL.Path)
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(aliceFeed))
	}))
	defer server.Close()

	loc := time.FixedZone("UTC+2", 2*60*60)
	repo := NewRSSPostRepository(newRSSConfig(server.URL+"/"), logger.NewNop(), loc)

	posts, err := repo.FetchPosts(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "111", posts[0].ID)
	assert.Equal(t, "Bitcoin looks great today", posts[0].RawText)
	assert.Equal(t, "alice", posts[0].AuthorHandle)
	assert.Equal(t, "Alice Smith", posts[0].AuthorName)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.January, Day: 1}, posts[0].Date())

	assert.Equal(t, "222", posts[1].ID)
	assert.Equal(t, "Markets crash again", posts[1].RawText)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.January, Day: 3}, posts[1].Date())

	_, err = repo.FetchPosts(context.Background(), "ALICE")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestRSSPostRepository_FetchPosts_SkipsReposts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(aliceFeed))
	}))
	defer server.Close()

	repo := NewRSSPostRepository(newRSSConfig(server.URL), logger.NewNop(), time.UTC)

	posts, err := repo.FetchPosts(context.Background(), "alice")
	require.NoError(t, err)
	for _, p := range posts {
		assert.NotContains(t, []string{"444", "555"}, p.ID)
		assert.NotContains(t, p.RawText, "RT by")
	}
}

func TestIsRepost(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		creator string
		want    bool
	}{
		{"own post", "hello", "@alice", false},
		{"own post other case", "hello", "@Alice", false},
		{"retweet title", "RT by @alice: hello", "@alice", true},
		{"other creator", "hello", "@bob", true},
		{"no creator", "hello", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &gofeed.Item{}
			if tt.creator != "" {
				item.DublinCoreExt = &ext.DublinCoreExtension{Creator: []string{tt.creator}}
			}
			assert.Equal(t, tt.want, isRepost("alice", tt.text, item))
		})
	}
}

func TestRSSPostRepository_FetchPosts_ZeroTTLDisablesCache(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(aliceFeed))
	}))
	defer server.Close()

	cfg := newRSSConfig(server.URL)
	cfg.Posts.CacheTTL = 0
	repo := NewRSSPostRepository(cfg, logger.NewNop(), time.UTC)

	_, err := repo.FetchPosts(context.Background(), "alice")
	require.NoError(t, err)
	_, err = repo.FetchPosts(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestRSSPostRepository_FetchPosts_NotOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	repo := NewRSSPostRepository(newRSSConfig(server.URL), logger.NewNop(), time.UTC)

	posts, err := repo.FetchPosts(context.Background(), "ghost")
	assert.ErrorIs(t, err, entity.ErrSourceUnavailable)
	assert.Nil(t, posts)
}

func TestRSSPostRepository_FetchPosts_InvalidFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not a feed"))
	}))
	defer server.Close()

	repo := NewRSSPostRepository(newRSSConfig(server.URL), logger.NewNop(), time.UTC)

	_, err := repo.FetchPosts(context.Background(), "alice")
	assert.ErrorIs(t, err, entity.ErrSourceUnavailable)
}

func TestPostIDFromLink(t *testing.T) {
	assert.Equal(t, "123", postIDFromLink("https://nitter.net/alice/status/123#m", ""))
	assert.Equal(t, "123", postIDFromLink("https://nitter.net/alice/status/123/", ""))
	assert.Equal(t, "guid-1", postIDFromLink("", "guid-1"))
}

func TestNewPostRepository_UnknownDriver(t *testing.T) {
	cfg := newRSSConfig("http://localhost")
	cfg.Posts.Driver = "carrier-pigeon"

	_, err := NewPostRepository(cfg, logger.NewNop(), time.UTC)
	assert.Error(t, err)
}
