// Package reddit implements the HTTP surface against the Reddit JSON API:
// thread payload fetching, subreddit listing reads, and token acquisition.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// FailKind classifies a fetch failure so a caller can decide whether a
// specific link is worth retrying.
type FailKind string

const (
	FailInvalidLink FailKind = "invalid_link"
	FailHTTP        FailKind = "http"
	FailDecode      FailKind = "decode"
	FailEmpty       FailKind = "empty_payload"
)

var errEmptyPayload = errors.New("payload has no post data")

// FetchError is a classified per-link failure.
type FetchError struct {
	Kind FailKind
	Link string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Link)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Link, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// KindOf returns the failure classification of err, or "" when err is not a
// FetchError.
func KindOf(err error) FailKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// defaultUserAgent identifies this client to Reddit. Requests without a
// descriptive agent string get throttled aggressively.
const defaultUserAgent = "redmark/0.1 (thread archiver; +https://github.com/redmark)"

// ClientOptions configures a Client. Zero values select the production
// endpoints, the default agent string and a 10 second timeout.
type ClientOptions struct {
	BaseURL      string
	OAuthBaseURL string
	Token        string // optional bearer token for elevated access
	UserAgent    string
	Timeout      time.Duration
}

// Client is a rate-limited Reddit JSON API client. It holds no per-thread
// state; one client serves a whole batch.
type Client struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	baseURL      string
	oauthBaseURL string
	token        string
	userAgent    string
}

// NewClient creates a Client.
func NewClient(opts ClientOptions) *Client {
	if opts.OAuthBaseURL == "" {
		if opts.BaseURL == "" {
			opts.OAuthBaseURL = OAuthBaseURL
		} else {
			// Custom base URLs keep all traffic on one host.
			opts.OAuthBaseURL = opts.BaseURL
		}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Client{
		httpClient:   &http.Client{Timeout: opts.Timeout},
		limiter:      rate.NewLimiter(rate.Every(1*time.Second), 5),
		baseURL:      opts.BaseURL,
		oauthBaseURL: opts.OAuthBaseURL,
		token:        opts.Token,
		userAgent:    opts.UserAgent,
	}
}

// FetchThread downloads and decodes the two-part JSON payload for one thread
// link. Failures come back classified; a failed link leaves no state behind.
func (c *Client) FetchThread(ctx context.Context, link string) (*Thread, error) {
	jsonURL := link
	if !endsWithJSON(jsonURL) {
		jsonURL += ".json"
	}

	body, err := c.getJSON(ctx, jsonURL)
	if err != nil {
		return nil, &FetchError{Kind: FailHTTP, Link: link, Err: err}
	}

	thread, err := DecodeThread(body)
	if err != nil {
		kind := FailDecode
		if errors.Is(err, errEmptyPayload) {
			kind = FailEmpty
		}
		return nil, &FetchError{Kind: kind, Link: link, Err: err}
	}
	return thread, nil
}

// FetchSubredditPosts reads the listing for a subreddit (optionally its
// "best" ordering) and returns the full thread links, in listing order.
// Authenticated clients read through the OAuth host.
func (c *Client) FetchSubredditPosts(ctx context.Context, subreddit string, best bool) ([]string, error) {
	base := c.baseURL
	if c.token != "" {
		base = c.oauthBaseURL
	}

	listingURL := fmt.Sprintf("%s/%s", base, subreddit)
	if best {
		listingURL += "/best"
	}
	listingURL += ".json"

	body, err := c.getJSON(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s listing: %w", subreddit, err)
	}

	var listing Listing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("decoding %s listing: %w", subreddit, err)
	}

	var links []string
	for _, child := range listing.Data.Children {
		var ld linkData
		if err := json.Unmarshal(child.Data, &ld); err != nil || ld.Permalink == "" {
			continue
		}
		links = append(links, c.baseURL+ld.Permalink)
	}
	log.Debug().Str("subreddit", subreddit).Int("links", len(links)).Msg("Fetched subreddit listing")
	return links, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func endsWithJSON(s string) bool {
	return len(s) >= 5 && s[len(s)-5:] == ".json"
}
