// Package extract turns a candidate URL into a normalized discussion record,
// choosing between a structured API path and a browser+model path.
package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/threadscope/threadscope/internal/clients"
	"github.com/threadscope/threadscope/internal/models"
)

type documentFetcher interface {
	FetchPostDocument(ctx context.Context, postURL string) ([]json.RawMessage, error)
}

type renderer interface {
	Render(ctx context.Context, targetURL string) (*clients.RenderResult, error)
}

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Extractor struct {
	reddit  documentFetcher
	browser renderer
	ai      completer
}

func NewExtractor(reddit documentFetcher, browser renderer, ai completer) *Extractor {
	return &Extractor{
		reddit:  reddit,
		browser: browser,
		ai:      ai,
	}
}

// Extract routes the URL to the right strategy. nil means the URL could not
// be extracted; that is never an error, the URL is simply dropped.
func (e *Extractor) Extract(ctx context.Context, url string) *models.DiscussionRecord {
	if isRedditComments(url) {
		return e.fetchStructured(ctx, url)
	}
	return e.fetchGeneric(ctx, url)
}

func isRedditComments(url string) bool {
	lowered := strings.ToLower(url)
	return strings.Contains(lowered, "reddit.com") && strings.Contains(lowered, "/comments/")
}
