package models

// SearchResult is one hit from the general web search backend.
type SearchResult struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// CommentRow is a stored comment joined with its post title, as consumed by
// the reporter.
type CommentRow struct {
	Author    string `json:"author"`
	Content   string `json:"content"`
	PostTitle string `json:"post_title"`
}
