package models

import (
	"encoding/json"
	"strings"
)

// DiscussionRecord is the normalized output of both extraction strategies:
// a thread title, its opening post body (may be empty), and the comments in
// extraction order.
type DiscussionRecord struct {
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Comments []Comment `json:"comments"`
}

type Comment struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

type authoredComment struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// NormalizeComment canonicalizes the duck-typed comment shapes the model may
// return: either a bare string or an {author, content} object. The author
// defaults to "Unknown" when absent.
func NormalizeComment(raw json.RawMessage) (Comment, bool) {
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		plain = strings.TrimSpace(plain)
		if plain == "" {
			return Comment{}, false
		}
		return Comment{Author: "Unknown", Content: plain}, true
	}

	var authored authoredComment
	if err := json.Unmarshal(raw, &authored); err == nil {
		content := strings.TrimSpace(authored.Content)
		if content == "" {
			return Comment{}, false
		}
		author := strings.TrimSpace(authored.Author)
		if author == "" {
			author = "Unknown"
		}
		return Comment{Author: author, Content: content}, true
	}

	return Comment{}, false
}

type rawModelRecord struct {
	Title    string            `json:"title"`
	Content  json.RawMessage   `json:"content"`
	Comments []json.RawMessage `json:"comments"`
}

// ParseModelRecord decodes the JSON object the extraction model returns into a
// DiscussionRecord, coercing a list-shaped content field into one text block.
func ParseModelRecord(data []byte) (*DiscussionRecord, error) {
	var raw rawModelRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	record := &DiscussionRecord{
		Title:   strings.TrimSpace(raw.Title),
		Content: coerceContent(raw.Content),
	}
	for _, c := range raw.Comments {
		if comment, ok := NormalizeComment(c); ok {
			record.Comments = append(record.Comments, comment)
		}
	}
	return record, nil
}

func coerceContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var parts []string
	if err := json.Unmarshal(raw, &parts); err == nil {
		return strings.TrimSpace(strings.Join(parts, "\n\n"))
	}

	return ""
}
