package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDiscussion(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"reddit comments", "https://site.com/r/name/comments/abc/title/", true},
		{"bare subreddit", "https://site.com/r/name/", false},
		{"forum thread", "https://forum.example.com/thread/12345", true},
		{"discourse topic", "https://community.example.com/t/slow-startup/99", true},
		{"topic path", "https://example.com/topic/feedback", true},
		{"posts path", "https://example.com/posts/42", true},
		{"profile wins over thread", "https://site.com/user/bob/thread/1", false},
		{"reddit user page", "https://reddit.com/u/someone", false},
		{"members page", "https://forum.example.com/members/jane.123/", false},
		{"profile page", "https://example.com/profile/jane", false},
		{"uppercase normalized", "https://SITE.com/R/Name/COMMENTS/abc/", true},
		{"plain article", "https://news.example.com/2024/05/review", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDiscussion(tt.url), tt.url)
		})
	}
}
