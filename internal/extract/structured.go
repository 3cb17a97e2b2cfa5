package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/threadscope/threadscope/internal/models"
)

const (
	MAX_COMMENTS    = 50
	MIN_COMMENT_LEN = 10

	deletedAuthor = "[deleted]"
	commentKind   = "t1"
)

// fetchStructured extracts a reddit thread through its public .json document:
// a 2-element array of [post listing, comment listing]. Any shape mismatch or
// fetch failure yields nil.
func (e *Extractor) fetchStructured(ctx context.Context, url string) *models.DiscussionRecord {
	document, err := e.reddit.FetchPostDocument(ctx, url)
	if err != nil {
		slog.Warn("[StructuredExtractor] Document fetch failed",
			slog.String("url", url),
			slog.String("error", err.Error()))
		return nil
	}

	if len(document) < 2 {
		slog.Warn("[StructuredExtractor] Unexpected document shape",
			slog.String("url", url),
			slog.Int("elements", len(document)))
		return nil
	}

	var postListing models.RedditListing
	if err := json.Unmarshal(document[0], &postListing); err != nil || len(postListing.Data.Children) == 0 {
		slog.Warn("[StructuredExtractor] Missing post listing", slog.String("url", url))
		return nil
	}
	post := postListing.Data.Children[0].Data

	var commentListing models.RedditListing
	if err := json.Unmarshal(document[1], &commentListing); err != nil {
		slog.Warn("[StructuredExtractor] Malformed comment listing", slog.String("url", url))
		return nil
	}

	comments := walkComments(commentListing.Data.Children)
	if len(comments) > MAX_COMMENTS {
		comments = comments[:MAX_COMMENTS]
	}

	return &models.DiscussionRecord{
		Title:    post.Title,
		Content:  post.Selftext,
		Comments: comments,
	}
}

// walkComments does a pre-order depth-first walk of the reply tree: a comment
// is emitted before its children. Everything is collected first; the caller
// truncates, so which comments survive the cap is deterministic.
func walkComments(children []models.RedditChild) []models.Comment {
	var comments []models.Comment
	for _, child := range children {
		if child.Kind != commentKind {
			continue
		}

		body := strings.TrimSpace(child.Data.Body)
		if body != "" && child.Data.Author != deletedAuthor && len([]rune(body)) > MIN_COMMENT_LEN {
			comments = append(comments, models.Comment{
				Author:  child.Data.Author,
				Content: body,
			})
		}

		comments = append(comments, walkReplies(child.Data.Replies)...)
	}
	return comments
}

// walkReplies descends into a nested replies field. Reddit sends an empty
// string instead of a listing when there are no children.
func walkReplies(raw json.RawMessage) []models.Comment {
	if len(raw) == 0 || string(raw) == `""` || string(raw) == "null" {
		return nil
	}

	var listing models.RedditListing
	if err := json.Unmarshal(raw, &listing); err != nil {
		return nil
	}
	return walkComments(listing.Data.Children)
}
