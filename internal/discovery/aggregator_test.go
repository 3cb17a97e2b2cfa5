package discovery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadscope/threadscope/internal/models"
)

type fakeWeb struct {
	results map[string][]models.SearchResult
	err     error
}

func (f *fakeWeb) Search(_ context.Context, query string, _ int) ([]models.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	for prefix, results := range f.results {
		if strings.HasPrefix(query, prefix) {
			return results, nil
		}
	}
	return nil, nil
}

type fakeReddit struct {
	plain  []string
	scoped map[string][]string
	err    error
}

func (f *fakeReddit) SearchPosts(_ context.Context, _, subreddit string, _ int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if subreddit == "" {
		return f.plain, nil
	}
	return f.scoped[subreddit], nil
}

func TestDiscoverMergesAndFilters(t *testing.T) {
	web := &fakeWeb{results: map[string][]models.SearchResult{
		"X": {
			{URL: "https://forum.example.com/thread/1"},
			{URL: "https://news.example.com/article"},
			{URL: "https://site.com/r/x/comments/abc/title/"},
		},
	}}
	reddit := &fakeReddit{plain: []string{
		"https://www.reddit.com/r/x/comments/one/t/",
		"https://www.reddit.com/r/x/comments/two/t/",
	}}

	agg := NewAggregator(web, reddit, nil)
	urls := agg.Discover(context.Background(), "X", 5)

	// 2 classifier passes from the web backend plus 2 auto-accepted reddit hits.
	assert.Len(t, urls, 4)
	assert.NotContains(t, urls, "https://news.example.com/article")
}

func TestDiscoverDeduplicatesExactURLs(t *testing.T) {
	shared := "https://www.reddit.com/r/x/comments/same/t/"
	web := &fakeWeb{results: map[string][]models.SearchResult{
		"X": {{URL: shared}},
	}}
	reddit := &fakeReddit{
		plain:  []string{shared},
		scoped: map[string][]string{"x": {shared}},
	}

	agg := NewAggregator(web, reddit, nil)
	urls := agg.Discover(context.Background(), "X", 10)

	assert.Equal(t, []string{shared}, urls)
}

func TestDiscoverTruncatesToLimit(t *testing.T) {
	reddit := &fakeReddit{plain: []string{
		"https://www.reddit.com/r/x/comments/1/t/",
		"https://www.reddit.com/r/x/comments/2/t/",
		"https://www.reddit.com/r/x/comments/3/t/",
	}}

	agg := NewAggregator(&fakeWeb{}, reddit, nil)
	urls := agg.Discover(context.Background(), "X", 2)

	assert.Len(t, urls, 2)
}

func TestDiscoverAllBackendsFailing(t *testing.T) {
	web := &fakeWeb{err: errors.New("network down")}
	reddit := &fakeReddit{err: errors.New("rate limited")}

	agg := NewAggregator(web, reddit, []string{"reddit.com"})
	urls := agg.Discover(context.Background(), "X", 5)

	assert.Empty(t, urls)
}

type capturingWeb struct {
	results []models.SearchResult
	maxSeen []int
}

func (c *capturingWeb) Search(_ context.Context, _ string, max int) ([]models.SearchResult, error) {
	c.maxSeen = append(c.maxSeen, max)
	return c.results, nil
}

func TestSiteScopedSearchOversamplesAndCapsPostFilter(t *testing.T) {
	web := &capturingWeb{results: []models.SearchResult{
		{URL: "https://reddit.com/r/x/comments/1/t/"},
		{URL: "https://example.com/article"},
		{URL: "https://forum.example.com/thread/2"},
		{URL: "https://forum.example.com/thread/3"},
		{URL: "https://forum.example.com/thread/4"},
	}}

	agg := NewAggregator(web, &fakeReddit{}, []string{"reddit.com"})
	urls, err := agg.searchTargetSites(context.Background(), "X")

	require.NoError(t, err)
	// The non-discussion hit is filtered out, yet the cap still fills.
	assert.Equal(t, []string{
		"https://reddit.com/r/x/comments/1/t/",
		"https://forum.example.com/thread/2",
		"https://forum.example.com/thread/3",
	}, urls)
	assert.Equal(t, []int{2 * PER_SITE_LIMIT}, web.maxSeen)
}

func TestSubredditGuesses(t *testing.T) {
	guesses := subredditGuesses("Monument Valley")
	assert.Equal(t, []string{"monumentvalley", "monumentvalleyapp", "monumentvalleygame"}, guesses)

	assert.Empty(t, subredditGuesses("   "))

	// A keyword already ending in a suffix still yields unique guesses only.
	guesses = subredditGuesses("chess")
	assert.Equal(t, []string{"chess", "chessapp", "chessgame"}, guesses)
}
