// Package discovery finds candidate discussion URLs for a keyword across
// several search backends and merges them into one bounded set.
package discovery

import (
	"context"
	"log/slog"
	"strings"

	"github.com/threadscope/threadscope/internal/classifier"
	"github.com/threadscope/threadscope/internal/models"
)

const (
	PER_SITE_LIMIT        = 3
	PER_SUBREDDIT_LIMIT   = 3
	MAX_SUBREDDIT_GUESSES = 3
)

type WebSearcher interface {
	Search(ctx context.Context, query string, max int) ([]models.SearchResult, error)
}

type RedditSearcher interface {
	SearchPosts(ctx context.Context, keyword, subreddit string, limit int) ([]string, error)
}

type Aggregator struct {
	web         WebSearcher
	reddit      RedditSearcher
	targetSites []string
}

func NewAggregator(web WebSearcher, reddit RedditSearcher, targetSites []string) *Aggregator {
	return &Aggregator{
		web:         web,
		reddit:      reddit,
		targetSites: targetSites,
	}
}

// Discover queries every backend and folds the results into one deduplicated
// list of at most limit URLs. A failing backend contributes zero results and
// never aborts the run.
func (a *Aggregator) Discover(ctx context.Context, keyword string, limit int) []string {
	set := newURLSet()

	backends := []struct {
		name string
		run  func(context.Context) ([]string, error)
	}{
		{"web_search", func(ctx context.Context) ([]string, error) {
			return a.searchWeb(ctx, keyword, limit)
		}},
		{"reddit_search", func(ctx context.Context) ([]string, error) {
			return a.reddit.SearchPosts(ctx, keyword, "", limit)
		}},
		{"reddit_scoped_search", func(ctx context.Context) ([]string, error) {
			return a.searchSubredditGuesses(ctx, keyword)
		}},
		{"site_scoped_search", func(ctx context.Context) ([]string, error) {
			return a.searchTargetSites(ctx, keyword)
		}},
	}

	for _, backend := range backends {
		urls, err := backend.run(ctx)
		if err != nil {
			slog.Warn("[SearchAggregator] Backend failed, continuing without it",
				slog.String("backend", backend.name),
				slog.String("error", err.Error()))
			continue
		}
		slog.Info("[SearchAggregator] Backend returned candidates",
			slog.String("backend", backend.name),
			slog.Int("count", len(urls)))
		set.addAll(urls)
	}

	return set.take(limit)
}

// searchWeb oversamples by 2x to compensate for classifier filtering, then
// keeps the first limit discussion URLs in backend order.
func (a *Aggregator) searchWeb(ctx context.Context, keyword string, limit int) ([]string, error) {
	results, err := a.web.Search(ctx, keyword, 2*limit)
	if err != nil {
		return nil, err
	}

	var urls []string
	for _, result := range results {
		if !classifier.IsDiscussion(result.URL) {
			continue
		}
		urls = append(urls, result.URL)
		if len(urls) == limit {
			break
		}
	}
	return urls, nil
}

// searchSubredditGuesses derives community names from the keyword and runs a
// scoped search against each. Reddit search hits are discussions by
// construction, so the classifier is not re-applied.
func (a *Aggregator) searchSubredditGuesses(ctx context.Context, keyword string) ([]string, error) {
	var urls []string
	for _, subreddit := range subredditGuesses(keyword) {
		found, err := a.reddit.SearchPosts(ctx, keyword, subreddit, PER_SUBREDDIT_LIMIT)
		if err != nil {
			slog.Warn("[SearchAggregator] Scoped reddit search failed",
				slog.String("subreddit", subreddit),
				slog.String("error", err.Error()))
			continue
		}
		urls = append(urls, found...)
	}
	return urls, nil
}

// searchTargetSites oversamples each domain by 2x, like the general backend,
// so classifier filtering can still fill the per-site cap.
func (a *Aggregator) searchTargetSites(ctx context.Context, keyword string) ([]string, error) {
	var urls []string
	for _, site := range a.targetSites {
		results, err := a.web.Search(ctx, keyword+" site:"+site, 2*PER_SITE_LIMIT)
		if err != nil {
			slog.Warn("[SearchAggregator] Site-scoped search failed",
				slog.String("site", site),
				slog.String("error", err.Error()))
			continue
		}
		kept := 0
		for _, result := range results {
			if !classifier.IsDiscussion(result.URL) {
				continue
			}
			urls = append(urls, result.URL)
			if kept++; kept == PER_SITE_LIMIT {
				break
			}
		}
	}
	return urls, nil
}

func subredditGuesses(keyword string) []string {
	base := strings.ToLower(strings.ReplaceAll(keyword, " ", ""))
	if base == "" {
		return nil
	}

	candidates := []string{base, base + "app", base + "game"}

	seen := make(map[string]struct{}, len(candidates))
	var guesses []string
	for _, candidate := range candidates {
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		guesses = append(guesses, candidate)
		if len(guesses) == MAX_SUBREDDIT_GUESSES {
			break
		}
	}
	return guesses
}

// urlSet deduplicates by exact string equality while preserving insertion
// order, which keeps truncation deterministic.
type urlSet struct {
	seen map[string]struct{}
	urls []string
}

func newURLSet() *urlSet {
	return &urlSet{seen: make(map[string]struct{})}
}

func (s *urlSet) addAll(urls []string) {
	for _, url := range urls {
		if _, dup := s.seen[url]; dup {
			continue
		}
		s.seen[url] = struct{}{}
		s.urls = append(s.urls, url)
	}
}

func (s *urlSet) take(limit int) []string {
	if limit >= 0 && len(s.urls) > limit {
		return s.urls[:limit]
	}
	return s.urls
}
