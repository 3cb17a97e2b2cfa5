// Package store persists extracted discussions into PostgreSQL and serves the
// read side the reporter needs.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/threadscope/threadscope/internal/models"
	"github.com/threadscope/threadscope/internal/sentiment"
)

const (
	MIN_COMMENT_LEN = 10
	MAX_COMMENT_LEN = 2000

	PLACEHOLDER_TITLE = "(untitled discussion)"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS posts (
	id SERIAL PRIMARY KEY,
	url TEXT UNIQUE NOT NULL,
	title TEXT,
	content TEXT,
	created_at TIMESTAMPTZ DEFAULT now()
);
CREATE TABLE IF NOT EXISTS comments (
	id SERIAL PRIMARY KEY,
	post_id INTEGER REFERENCES posts(id) ON DELETE CASCADE,
	content TEXT,
	author TEXT,
	sentiment_score DOUBLE PRECISION,
	created_at TIMESTAMPTZ DEFAULT now()
);
CREATE TABLE IF NOT EXISTS app_reviews (
	id SERIAL PRIMARY KEY,
	review_id TEXT UNIQUE NOT NULL,
	app_id TEXT,
	store TEXT,
	author TEXT,
	rating INTEGER,
	title TEXT,
	content TEXT,
	created_at TIMESTAMPTZ DEFAULT now()
);`

// Querier is the slice of pgx the store uses; *pgxpool.Pool satisfies it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db Querier

	// dedup switches on the stricter (post, author, content) comment dedup.
	// Default behavior re-inserts comments on every re-crawl of a URL.
	dedup bool
}

func NewStore(db Querier, dedup bool) *Store {
	return &Store{db: db, dedup: dedup}
}

// InitSchema creates the tables when absent. Runs on every start.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("[Store] failed to create schema: %w", err)
	}
	return nil
}

// Clear wipes all comments, then all posts. Only called behind --clear-db.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM comments`); err != nil {
		return fmt.Errorf("[Store] failed to clear comments: %w", err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM posts`); err != nil {
		return fmt.Errorf("[Store] failed to clear posts: %w", err)
	}
	slog.Info("[Store] Cleared posts and comments")
	return nil
}

// Save upserts the post by URL and inserts the record's comments.
//
// NOTE: without dedup enabled, re-saving the same URL appends every comment
// again, producing duplicate rows. That mirrors the original behavior of this
// pipeline (re-crawls append observations over time); COMMENT_DEDUP=true opts
// into dedup by (post, author, content).
func (s *Store) Save(ctx context.Context, url string, record *models.DiscussionRecord) error {
	postID, err := s.upsertPost(ctx, url, record)
	if err != nil {
		return err
	}

	inserted := 0
	for _, comment := range prepareComments(record.Comments) {
		if s.dedup {
			var exists bool
			err := s.db.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM comments WHERE post_id = $1 AND author = $2 AND content = $3)`,
				postID, comment.Author, comment.Content).Scan(&exists)
			if err == nil && exists {
				continue
			}
		}

		_, err := s.db.Exec(ctx,
			`INSERT INTO comments (post_id, content, author, sentiment_score) VALUES ($1, $2, $3, $4)`,
			postID, comment.Content, comment.Author, sentiment.Score(comment.Content))
		if err != nil {
			return fmt.Errorf("[Store] failed to insert comment: %w", err)
		}
		inserted++
	}

	slog.Info("[Store] Saved discussion",
		slog.String("url", url),
		slog.Int("comments", inserted))
	return nil
}

func (s *Store) upsertPost(ctx context.Context, url string, record *models.DiscussionRecord) (int64, error) {
	var postID int64
	err := s.db.QueryRow(ctx, `SELECT id FROM posts WHERE url = $1`, url).Scan(&postID)
	if err == nil {
		return postID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("[Store] failed to look up post: %w", err)
	}

	title := strings.TrimSpace(record.Title)
	if title == "" {
		title = PLACEHOLDER_TITLE
	}

	err = s.db.QueryRow(ctx,
		`INSERT INTO posts (url, title, content) VALUES ($1, $2, $3) RETURNING id`,
		url, title, record.Content).Scan(&postID)
	if err != nil {
		return 0, fmt.Errorf("[Store] failed to insert post: %w", err)
	}
	return postID, nil
}

// RecentComments returns the n newest comments joined with their post title,
// newest first.
func (s *Store) RecentComments(ctx context.Context, n int) ([]models.CommentRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.author, c.content, p.title
		FROM comments c
		JOIN posts p ON p.id = c.post_id
		ORDER BY c.created_at DESC
		LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("[Store] failed to query recent comments: %w", err)
	}
	defer rows.Close()

	var comments []models.CommentRow
	for rows.Next() {
		var row models.CommentRow
		if err := rows.Scan(&row.Author, &row.Content, &row.PostTitle); err != nil {
			return nil, fmt.Errorf("[Store] failed to scan comment row: %w", err)
		}
		comments = append(comments, row)
	}
	return comments, rows.Err()
}

// prepareComments applies the storage bounds: drop noise at or under
// MIN_COMMENT_LEN runes, cap everything at MAX_COMMENT_LEN runes.
func prepareComments(comments []models.Comment) []models.Comment {
	var prepared []models.Comment
	for _, comment := range comments {
		content := strings.TrimSpace(comment.Content)
		runes := []rune(content)
		if len(runes) <= MIN_COMMENT_LEN {
			continue
		}
		if len(runes) > MAX_COMMENT_LEN {
			content = string(runes[:MAX_COMMENT_LEN])
		}

		author := comment.Author
		if author == "" {
			author = "Unknown"
		}
		prepared = append(prepared, models.Comment{Author: author, Content: content})
	}
	return prepared
}
