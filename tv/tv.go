// Package tv talks to the SFR set-top-box EPG feed.
package tv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"

	"sfr-epg/consts"
)

// DefaultBaseURL is the root of the daily SFR feeds.
const DefaultBaseURL = consts.SFR_API_URL

// ErrUnexpectedStatus is returned when the feed endpoint answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected feed status")

// Fetcher returns the SFR feed of one calendar day.
type Fetcher interface {
	GetPrograms(ctx context.Context, day time.Time) (*Feed, error)
}

// Client fetches daily feeds. Every call hits the network; there is no cache and no retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient returns a Client for baseURL. An empty baseURL selects the SFR endpoint and
// a nil httpClient a client with consts.HTTP_TIMEOUT.
func NewClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = consts.SFR_API_URL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: consts.HTTP_TIMEOUT}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL is the feed root, reported as source-data-url in XMLTV output.
func (c *Client) BaseURL() string { return c.baseURL }

// FeedURL builds the URL of the feed for the given day.
func (c *Client) FeedURL(day time.Time) string {
	return fmt.Sprintf("%s/%s.gz", c.baseURL, day.Format(consts.DATE_FORMAT))
}

func (c *Client) fetchUrl(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", consts.UA)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status)
	}
	return res, nil
}

// GetPrograms downloads, decompresses and parses the feed for day.
func (c *Client) GetPrograms(ctx context.Context, day time.Time) (*Feed, error) {
	url := c.FeedURL(day)
	c.logger.Debug().Str("date", day.Format(time.DateOnly)).Str("url", url).Msg("fetching SFR programs")

	res, err := c.fetchUrl(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer res.Body.Close()

	zr, err := gzip.NewReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", url, err)
	}
	defer zr.Close()

	feed, err := ParseFeed(io.LimitReader(zr, consts.MAX_FEED_SIZE))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	c.logger.Debug().
		Int("channels", len(feed.Channels)).
		Int("programmes", len(feed.Programmes)).
		Msg("SFR feed parsed")
	return feed, nil
}
