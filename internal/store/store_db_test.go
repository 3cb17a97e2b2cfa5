package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadscope/threadscope/internal/models"
)

const threadURL = "https://www.reddit.com/r/x/comments/abc/t/"

func newMockStore(t *testing.T, dedup bool) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewStore(mock, dedup)
}

func sampleRecord() *models.DiscussionRecord {
	return &models.DiscussionRecord{
		Title:   "T",
		Content: "C",
		Comments: []models.Comment{
			{Author: "a", Content: "a comment long enough to keep"},
		},
	}
}

func TestSaveTwiceKeepsOnePostAndAppendsComments(t *testing.T) {
	mock, st := newMockStore(t, false)

	// First save: no post yet, so one insert returning the new id.
	mock.ExpectQuery("SELECT id FROM posts").
		WithArgs(threadURL).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO posts").
		WithArgs(threadURL, "T", "C").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec("INSERT INTO comments").
		WithArgs(int64(7), "a comment long enough to keep", "a", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, st.Save(context.Background(), threadURL, sampleRecord()))

	// Second save: the lookup hits, no second post insert, but the comment
	// is appended again (default re-crawl behavior).
	mock.ExpectQuery("SELECT id FROM posts").
		WithArgs(threadURL).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec("INSERT INTO comments").
		WithArgs(int64(7), "a comment long enough to keep", "a", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, st.Save(context.Background(), threadURL, sampleRecord()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDefaultsPlaceholderTitle(t *testing.T) {
	mock, st := newMockStore(t, false)

	mock.ExpectQuery("SELECT id FROM posts").
		WithArgs(threadURL).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO posts").
		WithArgs(threadURL, PLACEHOLDER_TITLE, "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	record := &models.DiscussionRecord{Title: "   "}
	require.NoError(t, st.Save(context.Background(), threadURL, record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveWithDedupSkipsExistingComments(t *testing.T) {
	mock, st := newMockStore(t, true)

	record := &models.DiscussionRecord{
		Title: "T",
		Comments: []models.Comment{
			{Author: "a", Content: "already stored from a prior crawl"},
			{Author: "b", Content: "a brand new comment this time"},
		},
	}

	mock.ExpectQuery("SELECT id FROM posts").
		WithArgs(threadURL).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(7), "a", "already stored from a prior crawl").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(7), "b", "a brand new comment this time").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO comments").
		WithArgs(int64(7), "a brand new comment this time", "b", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, st.Save(context.Background(), threadURL, record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePostLookupFailure(t *testing.T) {
	mock, st := newMockStore(t, false)

	mock.ExpectQuery("SELECT id FROM posts").
		WithArgs(threadURL).
		WillReturnError(errors.New("connection refused"))

	err := st.Save(context.Background(), threadURL, sampleRecord())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearDeletesCommentsBeforePosts(t *testing.T) {
	mock, st := newMockStore(t, false)

	// Expectations are ordered: comments must go first so the posts delete
	// never trips the foreign key.
	mock.ExpectExec("DELETE FROM comments").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec("DELETE FROM posts").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	require.NoError(t, st.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitSchemaRunsDDL(t *testing.T) {
	mock, st := newMockStore(t, false)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS posts").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, st.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentComments(t *testing.T) {
	mock, st := newMockStore(t, false)

	mock.ExpectQuery("SELECT c.author, c.content, p.title").
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows([]string{"author", "content", "title"}).
			AddRow("alice", "newest comment", "Thread A").
			AddRow("bob", "older comment", "Thread B"))

	rows, err := st.RecentComments(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.CommentRow{Author: "alice", Content: "newest comment", PostTitle: "Thread A"}, rows[0])
	assert.Equal(t, models.CommentRow{Author: "bob", Content: "older comment", PostTitle: "Thread B"}, rows[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentCommentsQueryFailure(t *testing.T) {
	mock, st := newMockStore(t, false)

	mock.ExpectQuery("SELECT c.author, c.content, p.title").
		WithArgs(5).
		WillReturnError(errors.New("connection refused"))

	_, err := st.RecentComments(context.Background(), 5)
	assert.Error(t, err)
}
