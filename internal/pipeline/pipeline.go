// Package pipeline wires discovery, extraction, persistence, and reporting
// into the batch run behind the CLI.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/threadscope/threadscope/config"
	"github.com/threadscope/threadscope/internal/clients"
	"github.com/threadscope/threadscope/internal/discovery"
	"github.com/threadscope/threadscope/internal/extract"
	"github.com/threadscope/threadscope/internal/report"
	"github.com/threadscope/threadscope/internal/store"
)

type Options struct {
	// Keyword is the positional argument; in "url" mode it holds the URL to
	// process directly.
	Keyword string
	Mode    string
	ClearDB bool
	Limit   int
}

// Run executes one batch: discover (or take the given URL), extract and save
// each candidate strictly sequentially, then print the aggregate report.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	pg, err := clients.NewPostgresClient(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	st := store.NewStore(pg.DB, cfg.CommentDedup)
	if err := st.InitSchema(ctx); err != nil {
		return err
	}

	if opts.ClearDB {
		if err := st.Clear(ctx); err != nil {
			return err
		}
	}

	ai := clients.NewAIClient(cfg.OpenAIAPIKey, cfg.Model)
	reddit := clients.NewRedditClient(cfg.RedditClientID, cfg.RedditClientSecret)
	browser := clients.NewBrowserClient(cfg.BrowserProfileDir)
	extractor := extract.NewExtractor(reddit, browser, ai)

	var seen *clients.ValkeyClient
	if cfg.ValkeyAddress != "" {
		seen, err = clients.NewValkeyClient(cfg.ValkeyAddress, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("[Pipeline] Valkey unavailable, processing without seen-URL tracking",
				slog.String("error", err.Error()))
			seen = nil
		} else {
			defer seen.Close()
		}
	}

	urls := candidates(ctx, cfg, reddit, opts)
	slog.Info("[Pipeline] Processing candidates", slog.Int("count", len(urls)))

	// One URL at a time: extraction and its save fully complete before the
	// next begins, which keeps the post upsert race-free and avoids hammering
	// the browser and the model API.
	saved := 0
	for _, url := range urls {
		if seen != nil && seen.IsProcessed(ctx, url) {
			slog.Info("[Pipeline] Skipping recently processed URL", slog.String("url", url))
			continue
		}

		record := extractor.Extract(ctx, url)
		if record == nil {
			continue
		}

		if err := st.Save(ctx, url, record); err != nil {
			slog.Error("[Pipeline] Failed to save discussion",
				slog.String("url", url),
				slog.String("error", err.Error()))
			continue
		}
		saved++

		if seen != nil {
			if err := seen.MarkProcessed(ctx, url); err != nil {
				slog.Warn("[Pipeline] Failed to mark URL processed",
					slog.String("url", url),
					slog.String("error", err.Error()))
			}
		}
	}
	slog.Info("[Pipeline] Extraction finished",
		slog.Int("candidates", len(urls)),
		slog.Int("saved", saved))

	text, err := report.NewReporter(st, ai).Report(ctx, opts.Keyword)
	if err != nil {
		if errors.Is(err, report.ErrNoData) {
			return nil
		}
		return err
	}

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println(text)
	fmt.Println(separator)
	return nil
}

func candidates(ctx context.Context, cfg *config.Config, reddit *clients.RedditClient, opts Options) []string {
	if opts.Mode == "url" {
		return []string{opts.Keyword}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = cfg.SearchLimit
	}

	aggregator := discovery.NewAggregator(clients.NewSearchClient(), reddit, cfg.TargetSites)
	return aggregator.Discover(ctx, opts.Keyword, limit)
}
