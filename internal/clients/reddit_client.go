package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/threadscope/threadscope/internal/models"
)

const (
	REDDIT_AUTH_URL   = "https://www.reddit.com/api/v1/access_token"
	REDDIT_OAUTH_URL  = "https://oauth.reddit.com"
	REDDIT_PUBLIC_URL = "https://www.reddit.com"
)

// RedditClient talks to reddit's listing endpoints. With client credentials it
// goes through the OAuth API host; without them it falls back to the public
// unauthenticated .json endpoints, which is enough for read-only search.
type RedditClient struct {
	client  *http.Client
	baseURL string
}

func NewRedditClient(clientID, clientSecret string) *RedditClient {
	if clientID == "" || clientSecret == "" {
		return &RedditClient{
			client:  &http.Client{Timeout: REQUEST_TIMEOUT},
			baseURL: REDDIT_PUBLIC_URL,
		}
	}

	oauthConf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     REDDIT_AUTH_URL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	client := oauthConf.Client(context.Background())
	client.Timeout = REQUEST_TIMEOUT

	return &RedditClient{
		client:  client,
		baseURL: REDDIT_OAUTH_URL,
	}
}

// SearchPosts queries reddit search, optionally scoped to a subreddit, and
// returns full post URLs built from each hit's permalink.
func (rc *RedditClient) SearchPosts(ctx context.Context, keyword, subreddit string, limit int) ([]string, error) {
	endpoint := rc.baseURL + "/search.json"
	if subreddit != "" {
		endpoint = fmt.Sprintf("%s/r/%s/search.json", rc.baseURL, subreddit)
	}

	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("[RedditClient] failed to parse URL: %w", err)
	}
	queryParams := parsedURL.Query()
	queryParams.Add("q", keyword)
	queryParams.Add("limit", strconv.Itoa(limit))
	queryParams.Add("sort", "relevance")
	if subreddit != "" {
		queryParams.Add("restrict_sr", "1")
	}
	parsedURL.RawQuery = queryParams.Encode()

	body, err := rc.get(ctx, parsedURL.String())
	if err != nil {
		return nil, err
	}

	var listing models.RedditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("[RedditClient] failed to decode search response: %w", err)
	}

	var urls []string
	for _, child := range listing.Data.Children {
		if child.Data.Permalink == "" {
			continue
		}
		urls = append(urls, REDDIT_PUBLIC_URL+child.Data.Permalink)
	}
	return urls, nil
}

// FetchPostDocument fetches the 2-element [post, comments] JSON document that
// reddit serves at <post-url>.json.
func (rc *RedditClient) FetchPostDocument(ctx context.Context, postURL string) ([]json.RawMessage, error) {
	jsonURL := strings.TrimSuffix(postURL, "/") + ".json"

	body, err := rc.get(ctx, jsonURL)
	if err != nil {
		return nil, err
	}

	var document []json.RawMessage
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, fmt.Errorf("[RedditClient] failed to decode post document: %w", err)
	}
	return document, nil
}

func (rc *RedditClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := rc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("[RedditClient] unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	return io.ReadAll(resp.Body)
}
