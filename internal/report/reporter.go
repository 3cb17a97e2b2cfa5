// Package report summarizes accumulated discussion data with one model call.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/threadscope/threadscope/internal/models"
)

const (
	REPORT_COMMENT_COUNT = 300
	PER_COMMENT_LEN      = 300
	MAX_COMMENT_BLOCK    = 20000
)

// ErrNoData means nothing has been persisted yet; callers treat it as a
// warning, not a failure.
var ErrNoData = errors.New("[Reporter] no comment data accumulated yet")

const reportPrompt = `You are a product analyst. Below are recent comments from online discussions about "%s".

Write a concise report covering:
1. Overall sentiment (positive / negative / mixed, with a one-line justification)
2. Top strengths users mention
3. Top weaknesses or complaints
4. Notable trends or recurring themes

COMMENTS:
%s`

type CommentSource interface {
	RecentComments(ctx context.Context, n int) ([]models.CommentRow, error)
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Reporter struct {
	source CommentSource
	ai     Completer
}

func NewReporter(source CommentSource, ai Completer) *Reporter {
	return &Reporter{source: source, ai: ai}
}

// Report builds one bounded prompt over the newest comments and returns the
// model's raw prose. The output is deliberately unvalidated.
func (r *Reporter) Report(ctx context.Context, keyword string) (string, error) {
	rows, err := r.source.RecentComments(ctx, REPORT_COMMENT_COUNT)
	if err != nil {
		return "", fmt.Errorf("[Reporter] failed to load comments: %w", err)
	}

	if len(rows) == 0 {
		slog.Warn("[Reporter] No data to report on")
		return "", ErrNoData
	}

	slog.Info("[Reporter] Generating report",
		slog.String("keyword", keyword),
		slog.Int("comments", len(rows)))

	prompt := fmt.Sprintf(reportPrompt, keyword, buildCommentBlock(rows))
	return r.ai.Complete(ctx, prompt)
}

// buildCommentBlock renders "author: content" lines, truncating each comment
// and capping the whole block so the prompt stays bounded.
func buildCommentBlock(rows []models.CommentRow) string {
	var block strings.Builder
	for _, row := range rows {
		content := row.Content
		if runes := []rune(content); len(runes) > PER_COMMENT_LEN {
			content = string(runes[:PER_COMMENT_LEN])
		}

		line := fmt.Sprintf("%s: %s\n", row.Author, content)
		if block.Len()+len(line) > MAX_COMMENT_BLOCK {
			break
		}
		block.WriteString(line)
	}
	return block.String()
}
