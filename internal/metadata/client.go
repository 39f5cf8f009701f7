package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"findmyanime/pkg/models"
)

const DefaultBaseURL = "https://api.jikan.moe/v4"

const (
	// Jikan allows ~3 req/s; one call per 400ms stays under it.
	DefaultInterval = 400 * time.Millisecond
	// Pause after a 429 before retrying the same URL.
	DefaultBackoff = 1500 * time.Millisecond
)

// UpstreamError is any non-2xx, non-429 response from the metadata API.
type UpstreamError struct {
	StatusCode int
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("metadata upstream: %s returned %d", e.URL, e.StatusCode)
}

// Client calls the Jikan API with a minimum interval between requests.
// Concurrent callers serialize through the shared lastCall timestamp: each
// caller reserves its slot under the lock, then sleeps outside it.
// 429 responses are retried after a fixed backoff and never surfaced.
type Client struct {
	baseURL  string
	http     *http.Client
	interval time.Duration
	backoff  time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

func New() *Client {
	return NewWith(DefaultBaseURL, DefaultInterval, DefaultBackoff)
}

func NewWith(baseURL string, interval, backoff time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: 30 * time.Second},
		interval: interval,
		backoff:  backoff,
	}
}

// acquire reserves the next request slot and sleeps until it is due.
func (c *Client) acquire(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	var wait time.Duration
	if !c.lastCall.IsZero() {
		if until := c.lastCall.Add(c.interval).Sub(now); until > 0 {
			wait = until
		}
	}
	c.lastCall = now.Add(wait)
	c.mu.Unlock()

	return sleep(ctx, wait)
}

// GetJSON fetches path relative to the base URL and decodes the body into v.
// Retries on 429 are unbounded; only ctx cancellation aborts them.
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	url := c.baseURL + path
	for {
		if err := c.acquire(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			if err := sleep(ctx, c.backoff); err != nil {
				return err
			}
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return &UpstreamError{StatusCode: resp.StatusCode, URL: url}
		}

		err = json.NewDecoder(resp.Body).Decode(v)
		resp.Body.Close()
		return err
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TopAnime returns the top-ranked anime, optionally filtered
// (e.g. "airing", "bypopularity").
func (c *Client) TopAnime(ctx context.Context, filter string, limit int) ([]models.Anime, error) {
	path := fmt.Sprintf("/top/anime?limit=%d", limit)
	if filter != "" {
		path += "&filter=" + filter
	}
	var out struct {
		Data []models.Anime `json:"data"`
	}
	if err := c.GetJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// TopManga returns the top-ranked manga.
func (c *Client) TopManga(ctx context.Context, limit int) ([]models.Manga, error) {
	var out struct {
		Data []models.Manga `json:"data"`
	}
	if err := c.GetJSON(ctx, fmt.Sprintf("/top/manga?limit=%d", limit), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// AnimeByID fetches a single anime by MAL ID.
func (c *Client) AnimeByID(ctx context.Context, id int) (models.Anime, error) {
	var out struct {
		Data models.Anime `json:"data"`
	}
	if err := c.GetJSON(ctx, fmt.Sprintf("/anime/%d", id), &out); err != nil {
		return models.Anime{}, err
	}
	return out.Data, nil
}
