package sentiment

import (
	"math/rand"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-sentiment-scryper/internal/entity"
)

// fixedScorer maps known texts to compound polarities; anything else is 0.
func fixedScorer(polarity map[string]float64) *Scorer {
	return NewScorer(PolarityFunc(func(text string) float64 {
		return polarity[text]
	}))
}

func post(id, handle, text string, at time.Time) entity.Post {
	return entity.Post{ID: id, RawText: text, AuthorHandle: handle, PostedAt: at}
}

func TestAggregateDailyMeanPerDate(t *testing.T) {
	scorer := fixedScorer(map[string]float64{"up": 0.5, "down": -0.5, "flat": 0})
	day1 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC)

	posts := []entity.Post{
		post("1", "alice", "up", day1),
		post("2", "alice", "down", day1.Add(3*time.Hour)),
		post("3", "alice", "flat", day2),
		post("4", "alice", "up", day2),
	}

	daily := AggregateDaily("alice", posts, scorer)
	require.Len(t, daily, 2)
	assert.InDelta(t, 50.0, daily[civil.Date{Year: 2024, Month: 1, Day: 1}], 1e-9)
	assert.InDelta(t, 62.5, daily[civil.Date{Year: 2024, Month: 1, Day: 2}], 1e-9)
}

func TestAggregateDailySkipsEmptyAndForeignPosts(t *testing.T) {
	scorer := fixedScorer(map[string]float64{"up": 1})
	at := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	posts := []entity.Post{
		post("1", "alice", "https://t.co/abc", at),
		post("2", "alice", "", at.AddDate(0, 0, 1)),
		post("3", "bob", "up", at.AddDate(0, 0, 2)),
		post("4", "Alice", "up", at),
		post("5", "alice", "https://t.co/a https://t.co/b", at),
		post("6", "alice", "\nhttps://t.co/c", at.AddDate(0, 0, 3)),
	}

	daily := AggregateDaily("alice", posts, scorer)
	assert.Equal(t, entity.DailySentiment{civil.Date{Year: 2024, Month: 3, Day: 5}: 100}, daily)
}

func TestAggregateDailyNoQualifyingPosts(t *testing.T) {
	scorer := fixedScorer(nil)
	at := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	assert.Empty(t, AggregateDaily("alice", nil, scorer))
	assert.Empty(t, AggregateDaily("alice", []entity.Post{post("1", "alice", "www.only.link", at)}, scorer))
}

func TestAggregateDailyUsesPostLocationForDate(t *testing.T) {
	scorer := fixedScorer(map[string]float64{"up": 1})
	jakarta := time.FixedZone("WIB", 7*3600)
	// 2024-01-01 20:00 UTC is already 2024-01-02 in UTC+7.
	at := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC).In(jakarta)

	daily := AggregateDaily("alice", []entity.Post{post("1", "alice", "up", at)}, scorer)
	_, ok := daily[civil.Date{Year: 2024, Month: 1, Day: 2}]
	assert.True(t, ok)
}

func TestAggregateDailyOrderIndependent(t *testing.T) {
	polarity := map[string]float64{}
	var posts []entity.Post
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		text := string(rune('a'+i%26)) + string(rune('a'+i/26))
		polarity[text] = float64(i%17)/8.5 - 1
		posts = append(posts, post(text, "alice", text, at.Add(time.Duration(i)*time.Minute)))
	}
	scorer := fixedScorer(polarity)
	want := AggregateDaily("alice", posts, scorer)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5; i++ {
		shuffled := append([]entity.Post(nil), posts...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, AggregateDaily("alice", shuffled, scorer))
	}
}
