// Package ingest pulls app store reviews into the app_reviews table. It feeds
// the same database the reporter reads posts and comments from, but runs as
// its own one-shot command.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const APPSTORE_RSS_URL = "https://itunes.apple.com/%s/rss/customerreviews/page=%d/id=%s/sortby=mostrecent/json"

type rssLabel struct {
	Label string `json:"label"`
}

type rssAuthor struct {
	Name rssLabel `json:"name"`
}

type rssEntry struct {
	ID      rssLabel  `json:"id"`
	Author  rssAuthor `json:"author"`
	Rating  rssLabel  `json:"im:rating"`
	Title   rssLabel  `json:"title"`
	Content rssLabel  `json:"content"`
}

type rssFeed struct {
	Feed struct {
		Entry []rssEntry `json:"entry"`
	} `json:"feed"`
}

type AppStoreIngester struct {
	db     *pgxpool.Pool
	client *http.Client
}

func NewAppStoreIngester(db *pgxpool.Pool) *AppStoreIngester {
	return &AppStoreIngester{
		db:     db,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Ingest fetches up to pages of recent reviews for appID in the given country
// store and inserts them, skipping review IDs already present.
func (ai *AppStoreIngester) Ingest(ctx context.Context, appID, country string, pages int) (int, error) {
	inserted := 0
	for page := 1; page <= pages; page++ {
		entries, err := ai.fetchPage(ctx, appID, country, page)
		if err != nil {
			return inserted, err
		}
		if len(entries) == 0 {
			break
		}

		for _, entry := range entries {
			if entry.ID.Label == "" || entry.Content.Label == "" {
				continue
			}

			rating, _ := strconv.Atoi(entry.Rating.Label)
			tag, err := ai.db.Exec(ctx, `
				INSERT INTO app_reviews (review_id, app_id, store, author, rating, title, content)
				VALUES ($1, $2, 'appstore', $3, $4, $5, $6)
				ON CONFLICT (review_id) DO NOTHING`,
				entry.ID.Label, appID, entry.Author.Name.Label, rating, entry.Title.Label, entry.Content.Label)
			if err != nil {
				return inserted, fmt.Errorf("[AppStoreIngester] failed to insert review: %w", err)
			}
			inserted += int(tag.RowsAffected())
		}
	}

	slog.Info("[AppStoreIngester] Ingest finished",
		slog.String("app_id", appID),
		slog.Int("inserted", inserted))
	return inserted, nil
}

func (ai *AppStoreIngester) fetchPage(ctx context.Context, appID, country string, page int) ([]rssEntry, error) {
	url := fmt.Sprintf(APPSTORE_RSS_URL, country, page, appID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := ai.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[AppStoreIngester] request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("[AppStoreIngester] unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var feed rssFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("[AppStoreIngester] failed to decode feed: %w", err)
	}
	return feed.Feed.Entry, nil
}
