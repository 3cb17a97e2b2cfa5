package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/threadscope/threadscope/internal/models"
)

const DDG_HTML_ENDPOINT = "https://html.duckduckgo.com/html/"

// SearchClient is the general web search backend, built on DuckDuckGo's HTML
// endpoint. It needs no API key; result anchors carry the target URL in a
// redirect parameter.
type SearchClient struct {
	client *http.Client
}

func NewSearchClient() *SearchClient {
	return &SearchClient{
		client: &http.Client{Timeout: REQUEST_TIMEOUT},
	}
}

func (sc *SearchClient) Search(ctx context.Context, query string, max int) ([]models.SearchResult, error) {
	endpoint := DDG_HTML_ENDPOINT + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := sc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("[SearchClient] unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[SearchClient] failed to parse results page: %w", err)
	}

	var results []models.SearchResult
	doc.Find("a.result__a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		target := resolveRedirect(href)
		if target == "" {
			return true
		}
		results = append(results, models.SearchResult{
			URL:   target,
			Title: strings.TrimSpace(sel.Text()),
		})
		return len(results) < max
	})

	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<url> redirect anchors.
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if parsed.Scheme == "http" || parsed.Scheme == "https" {
		return href
	}
	return ""
}
