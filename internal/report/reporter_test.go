package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadscope/threadscope/internal/models"
)

type fakeSource struct {
	rows []models.CommentRow
	err  error
}

func (f *fakeSource) RecentComments(_ context.Context, _ int) ([]models.CommentRow, error) {
	return f.rows, f.err
}

type fakeCompleter struct {
	reply  string
	called int
	prompt string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.called++
	f.prompt = prompt
	return f.reply, nil
}

func TestReportNoDataSkipsModel(t *testing.T) {
	ai := &fakeCompleter{}
	r := NewReporter(&fakeSource{}, ai)

	text, err := r.Report(context.Background(), "X")

	assert.ErrorIs(t, err, ErrNoData)
	assert.Empty(t, text)
	assert.Zero(t, ai.called)
}

func TestReportSourceError(t *testing.T) {
	ai := &fakeCompleter{}
	r := NewReporter(&fakeSource{err: errors.New("connection refused")}, ai)

	_, err := r.Report(context.Background(), "X")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
	assert.Zero(t, ai.called)
}

func TestReportEmbedsKeywordAndComments(t *testing.T) {
	ai := &fakeCompleter{reply: "Overall sentiment: positive."}
	r := NewReporter(&fakeSource{rows: []models.CommentRow{
		{Author: "alice", Content: "love the new update", PostTitle: "Thread"},
	}}, ai)

	text, err := r.Report(context.Background(), "SomeApp")

	require.NoError(t, err)
	assert.Equal(t, "Overall sentiment: positive.", text)
	assert.Equal(t, 1, ai.called)
	assert.Contains(t, ai.prompt, `"SomeApp"`)
	assert.Contains(t, ai.prompt, "alice: love the new update")
}

func TestBuildCommentBlockTruncatesPerRow(t *testing.T) {
	rows := []models.CommentRow{
		{Author: "a", Content: strings.Repeat("x", PER_COMMENT_LEN+100)},
	}

	block := buildCommentBlock(rows)

	// "a: " prefix + truncated content + newline
	assert.Len(t, block, len("a: ")+PER_COMMENT_LEN+1)
}

func TestBuildCommentBlockCapsTotal(t *testing.T) {
	var rows []models.CommentRow
	for i := 0; i < 500; i++ {
		rows = append(rows, models.CommentRow{Author: "user", Content: strings.Repeat("y", PER_COMMENT_LEN)})
	}

	block := buildCommentBlock(rows)

	assert.LessOrEqual(t, len(block), MAX_COMMENT_BLOCK)
}
