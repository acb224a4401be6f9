package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/charcache/pkg/logger"
	"github.com/okian/charcache/pkg/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// Client fetches single pages of the remote collection.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient builds a Client for the collection at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("catalog: base url %q is not absolute", baseURL)
	}
	c := &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PageURL returns the request URL for page n, preserving any query the base
// URL already carries.
func (c *Client) PageURL(page int) string {
	u := *c.baseURL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchPage requests one page. A non-nil error is always a *PageError.
func (c *Client) FetchPage(ctx context.Context, page int) (PageResult, error) {
	target := c.PageURL(page)
	start := time.Now()
	defer func() { metrics.RecordPageFetchLatency(metrics.SinceMillis(start)) }()

	c.logger.Debug(ctx, "requesting page", logger.Int("page", page), logger.String("url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return PageResult{}, &PageError{Kind: KindTransport, Page: page, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return PageResult{}, &PageError{Kind: KindTransport, Page: page, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return PageResult{}, &PageError{Kind: KindStatus, Page: page, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return PageResult{}, &PageError{Kind: KindTransport, Page: page, StatusCode: resp.StatusCode, Err: err}
	}

	var decoded pageBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return PageResult{}, &PageError{Kind: KindParse, Page: page, StatusCode: resp.StatusCode, Err: err}
	}
	result, err := decoded.toResult(page)
	if err != nil {
		return PageResult{}, &PageError{Kind: KindParse, Page: page, StatusCode: resp.StatusCode, Err: err}
	}
	return result, nil
}
