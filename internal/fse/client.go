package fse

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher defines the single capability the data-access layer needs from
// the feed. This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint Endpoint, params map[string]string) ([]Row, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the FSEconomy data feed over HTTP and decodes its CSV responses.
type Client struct {
	baseURL   *url.URL
	accessKey string
	http      *http.Client
	userAgent string
}

const (
	DefaultBaseURL   = "https://server.fseconomy.net/data"
	defaultUserAgent = "fsefeed/0.1"
	defaultTimeout   = 30 * time.Second
	maxErrorBody     = 512
)

// NewClient builds a Client for the feed at baseURL using the caller's access key.
// An empty baseURL selects DefaultBaseURL and a non-positive timeout selects 30s.
func NewClient(baseURL, accessKey string, timeout time.Duration) (*Client, error) {
	key := strings.TrimSpace(accessKey)
	if key == "" {
		return nil, fmt.Errorf("access key required")
	}
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   base,
		accessKey: key,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Fetch issues one request for endpoint and returns the decoded CSV rows.
func (c *Client) Fetch(ctx context.Context, endpoint Endpoint, params map[string]string) ([]Row, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	ep, ok := endpoints[endpoint]
	if !ok {
		return nil, fmt.Errorf("unknown endpoint %d", int(endpoint))
	}
	subject := ""
	values := url.Values{}
	values.Set("userkey", c.accessKey)
	values.Set("format", "csv")
	values.Set("query", ep.query)
	values.Set("search", ep.search)
	if ep.param != "" {
		subject = strings.TrimSpace(params[ep.param])
		if subject == "" {
			return nil, fmt.Errorf("%s requires parameter %q", endpoint, ep.param)
		}
		values.Set(ep.param, subject)
	}

	body, status, err := c.get(ctx, values)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Subject: subject, Err: err}
	}
	if status < 200 || status >= 300 {
		return nil, &FetchError{
			Endpoint:   endpoint,
			Subject:    subject,
			StatusCode: status,
			Body:       excerpt(body),
		}
	}
	if strings.HasPrefix(strings.TrimSpace(string(body)), "<Error>") {
		return nil, &FetchError{
			Endpoint:   endpoint,
			Subject:    subject,
			StatusCode: status,
			Body:       excerpt(body),
			Err:        errFeedRejected,
		}
	}

	rows, err := decodeRows(body)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Subject: subject, StatusCode: status, Err: err}
	}
	return rows, nil
}

func (c *Client) get(ctx context.Context, values url.Values) ([]byte, int, error) {
	reqURL := *c.baseURL
	reqURL.RawQuery = values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("execute request: %w", redact(err, c.accessKey))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// redact strips the access key from transport errors, which embed the request URL.
func redact(err error, key string) error {
	escaped := url.QueryEscape(key)
	if escaped == "" || !strings.Contains(err.Error(), escaped) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), escaped, "REDACTED"))
}

func excerpt(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		return text[:maxErrorBody] + "..."
	}
	return text
}

func parseBaseURL(baseURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base_url %q: %w", baseURL, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
