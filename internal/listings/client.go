// Package listings is a small client for the CoinMarketCap "listings/latest" endpoint.
package listings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client defaults.
const (
	DefaultBaseURL = "https://pro-api.coinmarketcap.com"
	DefaultTimeout = 15 * time.Second
	DefaultLimit   = 50

	latestPath   = "/v1/cryptocurrency/listings/latest"
	apiKeyHeader = "X-CMC_PRO_API_KEY"

	// maxErrorBody caps how much of a failed response body is kept.
	maxErrorBody = 4096
)

// Failure categories of a listings request.
var (
	// ErrNetwork covers transport failures, timeouts and non-2xx statuses.
	ErrNetwork = errors.New("listings request failed")
	// ErrResponseParse means the response body was not a usable listings document.
	ErrResponseParse = errors.New("malformed listings response")
)

// HTTPError is returned for non-2xx responses. It matches ErrNetwork with errors.Is.
type HTTPError struct {
	StatusCode int
	Body       []byte
	// Message is the upstream status.error_message, when the body carried one.
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}

// Is reports whether target is ErrNetwork.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNetwork
}

// Unauthorized reports whether the status signals a rejected API key.
func (e *HTTPError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Request selects a window of the listings.
type Request struct {
	Start    int
	Limit    int
	Currency string
}

func (r Request) withDefaults() Request {
	if r.Start < 1 {
		r.Start = 1
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
	return r
}

// Client fetches listings over HTTP.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. the sandbox or a test server.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.BaseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client for the production endpoint with a 15 second timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Latest issues a single GET for the latest listings. It never retries.
func (c *Client) Latest(ctx context.Context, apiKey string, req Request) (*Payload, error) {
	req = req.withDefaults()

	endpoint, err := url.Parse(c.BaseURL + latestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL: %w", ErrNetwork, err)
	}
	q := endpoint.Query()
	q.Set("start", strconv.Itoa(req.Start))
	q.Set("limit", strconv.Itoa(req.Limit))
	q.Set("convert", req.Currency)
	endpoint.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrNetwork, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(apiKeyHeader, apiKey)

	c.logger.Debug().
		Int("start", req.Start).
		Int("limit", req.Limit).
		Str("currency", req.Currency).
		Msg("requesting listings")

	start := time.Now()
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrNetwork, err)
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResponseParse, err)
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Int("assets", len(payload.Data)).
		Dur("elapsed", time.Since(start)).
		Msg("listings received")

	return &payload, nil
}

func newHTTPError(resp *http.Response) *HTTPError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	httpErr := &HTTPError{StatusCode: resp.StatusCode, Body: body}

	var envelope struct {
		Status Status `json:"status"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		httpErr.Message = envelope.Status.ErrorMessage
	}
	return httpErr
}
