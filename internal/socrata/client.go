// Package socrata is a minimal client for the city's SoQL open-data API,
// used only by the offline tile builder. Pagination is strictly sequential;
// each page gets bounded retries with quadratic backoff before the whole
// build gives up.
package socrata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUpstream marks a page fetch that failed after all retries; the build
// run must abort rather than write partial tiles.
var ErrUpstream = errors.New("upstream fetch failed")

// Defaults match the scale of the sign dataset (~90k rows for one borough).
const (
	DefaultPageSize    = 5000
	DefaultMaxPages    = 80
	DefaultMaxRetries  = 5
	DefaultBaseBackoff = 350 * time.Millisecond
	DefaultPageTimeout = 20 * time.Second
)

// Row is one raw sign record as the dataset returns it. Socrata serializes
// coordinates as strings.
type Row struct {
	OnStreet        string `json:"on_street"`
	FromStreet      string `json:"from_street"`
	ToStreet        string `json:"to_street"`
	SideOfStreet    string `json:"side_of_street"`
	SignDescription string `json:"sign_description"`
	SignXCoord      string `json:"sign_x_coord"`
	SignYCoord      string `json:"sign_y_coord"`
}

var selectColumns = strings.Join([]string{
	"on_street",
	"from_street",
	"to_street",
	"side_of_street",
	"sign_description",
	"sign_x_coord",
	"sign_y_coord",
}, ",")

// Client queries one SoQL dataset endpoint.
type Client struct {
	BaseURL     string
	HTTP        *http.Client
	PageSize    int
	MaxPages    int
	MaxRetries  int
	BaseBackoff time.Duration
	PageTimeout time.Duration
}

// New returns a client with default pagination and retry settings.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:     baseURL,
		HTTP:        &http.Client{},
		PageSize:    DefaultPageSize,
		MaxPages:    DefaultMaxPages,
		MaxRetries:  DefaultMaxRetries,
		BaseBackoff: DefaultBaseBackoff,
		PageTimeout: DefaultPageTimeout,
	}
}

// FetchAll pages through the dataset, invoking fn for each page, until a
// short page ends the dataset or the page cap is hit. Any page that cannot
// be fetched after retries aborts the run with ErrUpstream.
func (c *Client) FetchAll(ctx context.Context, where string, fn func(rows []Row) error) error {
	for page := 0; page < c.MaxPages; page++ {
		rows, err := c.fetchPageWithRetries(ctx, where, page)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		if err := fn(rows); err != nil {
			return err
		}
		if len(rows) < c.PageSize {
			return nil
		}
	}
	return nil
}

func (c *Client) fetchPageWithRetries(ctx context.Context, where string, page int) ([]Row, error) {
	for attempt := 1; attempt <= c.MaxRetries; attempt++ {
		rows, retryable, err := c.fetchPage(ctx, where, page)
		if err == nil {
			return rows, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, ctx.Err())
		}
		if !retryable || attempt == c.MaxRetries {
			return nil, fmt.Errorf("%w: page %d: %v", ErrUpstream, page+1, err)
		}

		// quadratic backoff: base * attempt^2
		select {
		case <-time.After(c.BaseBackoff * time.Duration(attempt*attempt)):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrUpstream, ctx.Err())
		}
	}
	return nil, fmt.Errorf("%w: page %d", ErrUpstream, page+1)
}

// fetchPage returns the rows for one page, plus whether a failure is worth
// retrying (network errors and 5xx are; 4xx is not).
func (c *Client) fetchPage(ctx context.Context, where string, page int) (rows []Row, retryable bool, err error) {
	q := url.Values{}
	q.Set("$select", selectColumns)
	if where != "" {
		q.Set("$where", where)
	}
	q.Set("$limit", fmt.Sprintf("%d", c.PageSize))
	q.Set("$offset", fmt.Sprintf("%d", page*c.PageSize))

	pageCtx, cancel := context.WithTimeout(ctx, c.PageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(pageCtx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 240))
	}

	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, false, fmt.Errorf("non-JSON page: %s", truncate(string(body), 200))
	}
	return rows, false, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
