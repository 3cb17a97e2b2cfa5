// Package classifier decides whether a URL points at a discussion thread.
package classifier

import "strings"

var profilePatterns = []string{"/u/", "/user/", "/members/", "/profile/"}

var discussionPatterns = []string{"/thread/", "/comments/", "/posts/", "/t/", "/topic/"}

// IsDiscussion reports whether rawURL looks like a discussion thread. Profile
// pages are rejected first, even when they also contain a discussion pattern.
func IsDiscussion(rawURL string) bool {
	url := strings.ToLower(rawURL)

	for _, pattern := range profilePatterns {
		if strings.Contains(url, pattern) {
			return false
		}
	}

	for _, pattern := range discussionPatterns {
		if strings.Contains(url, pattern) {
			return true
		}
	}

	// Reddit community posts live under /r/<name>/comments/<id>/.
	if strings.Contains(url, "/r/") && strings.Contains(url, "/comments/") {
		return true
	}

	return false
}
