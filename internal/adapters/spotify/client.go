// Package spotify implements the catalog ports against the Spotify Web API.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
	"github.com/ewilliams-labs/genrelay/internal/core/ports"
	"github.com/ewilliams-labs/genrelay/internal/logging"
)

const DefaultBaseURL = "https://api.spotify.com/v1"

// Client is a Spotify Web API client bound to a single bearer token.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	maxRetries  int
	baseBackoff time.Duration
	limiter     *rate.Limiter
	logger      *log.Logger
}

// compile-time interface assertions
var (
	_ ports.CatalogSession = (*Client)(nil)
	_ ports.CatalogFactory = (*Factory)(nil)
)

// FactoryOptions configures the process-wide client factory.
type FactoryOptions struct {
	HTTPClient        *http.Client
	BaseURL           string
	MaxRetries        int
	RetryBackoff      time.Duration
	RequestsPerSecond float64
	Logger            *log.Logger
}

// Factory hands out token-bound clients that share one HTTP client and one
// rate limiter. It holds no per-request state.
type Factory struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	baseBackoff time.Duration
	limiter     *rate.Limiter
	logger      *log.Logger
}

// NewFactory builds a Factory. Zero options fall back to package defaults.
func NewFactory(opts FactoryOptions) *Factory {
	f := &Factory{
		httpClient:  opts.HTTPClient,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		maxRetries:  opts.MaxRetries,
		baseBackoff: opts.RetryBackoff,
		logger:      logging.Component(opts.Logger, "spotify"),
	}
	if f.httpClient == nil {
		f.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if f.baseURL == "" {
		f.baseURL = DefaultBaseURL
	}
	if f.maxRetries <= 0 || f.baseBackoff <= 0 {
		envRetries, envBackoff := getRetryConfig()
		if f.maxRetries <= 0 {
			f.maxRetries = envRetries
		}
		if f.baseBackoff <= 0 {
			f.baseBackoff = envBackoff
		}
	}
	if opts.RequestsPerSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), int(opts.RequestsPerSecond)+1)
	}
	return f
}

// ForToken returns a client that authenticates every call with accessToken.
func (f *Factory) ForToken(accessToken string) ports.CatalogSession {
	return &Client{
		httpClient:  f.httpClient,
		baseURL:     f.baseURL,
		token:       accessToken,
		maxRetries:  f.maxRetries,
		baseBackoff: f.baseBackoff,
		limiter:     f.limiter,
		logger:      f.logger,
	}
}

// getJSON performs an authenticated GET and decodes a 200 response into out.
func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	c.logger.Debug("spotify request", "op", op, "url", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &domain.UpstreamError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	return c.do(req, op, out, http.StatusOK)
}

// sendJSON performs an authenticated request with a JSON body.
func (c *Client) sendJSON(ctx context.Context, method, op, path string, body any, out any, okStatus ...int) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("spotify adapter: marshal %s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return &domain.UpstreamError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op, out, okStatus...)
}

func (c *Client) do(req *http.Request, op string, out any, okStatus ...int) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return &domain.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if !statusIn(resp.StatusCode, okStatus) {
		return &domain.UpstreamError{Op: op, Status: resp.StatusCode, Err: decodeAPIError(resp)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.UpstreamError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func statusIn(status int, ok []int) bool {
	for _, s := range ok {
		if status == s {
			return true
		}
	}
	return false
}

// decodeAPIError extracts Spotify's {"error":{"message":...}} body, if present.
func decodeAPIError(resp *http.Response) error {
	var body apiErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error.Message == "" {
		return nil
	}
	return errors.New(body.Error.Message)
}
