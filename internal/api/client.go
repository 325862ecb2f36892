package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/propdesk/internal/config"
	"github.com/propdesk/propdesk/internal/logging"
)

const (
	// DefaultTimeout bounds a single HTTP attempt.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 2
	// DefaultRetryDelay is the first backoff delay; it doubles per retry.
	DefaultRetryDelay = 250 * time.Millisecond

	headerRequestID = "X-Request-ID"
	maxErrorBody    = 4096
)

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithRetry sets the retry count and first backoff delay.
func WithRetry(maxRetries int, delay time.Duration) ClientOption {
	return func(c *Client) {
		if maxRetries < 0 {
			maxRetries = 0
		}
		c.maxRetries = maxRetries
		c.retryDelay = delay
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// Client talks to the CRM REST API.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	token      string
	maxRetries int
	retryDelay time.Duration
	logger     logging.Logger

	// sleep waits between retries; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	c := &Client{
		baseURL:    u,
		http:       &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		logger:     logging.Noop(),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientFromConfig builds a Client from the loaded configuration.
func NewClientFromConfig(opts ...ClientOption) (*Client, error) {
	base := []ClientOption{
		WithToken(config.Get("api_token", "")),
		WithTimeout(config.GetDuration("request_timeout", time.Second, DefaultTimeout)),
		WithRetry(
			config.GetInt("max_retries", DefaultMaxRetries),
			config.GetDuration("retry_delay_ms", time.Millisecond, DefaultRetryDelay),
		),
		WithLogger(logging.With("component", "api")),
	}
	return NewClient(config.Get("api_base_url", "http://localhost:8787/api"), append(base, opts...)...)
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// request describes one API call. Body is kept as bytes so it can be
// replayed on retry.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	// maxBody caps how much of a successful response is read; 0 means no cap.
	maxBody int64
}

func jsonRequest(method, path string, payload any) (request, error) {
	req := request{method: method, path: path}
	if payload == nil {
		return req, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return req, fmt.Errorf("encode %s %s: %w", method, path, err)
	}
	req.body = data
	req.contentType = "application/json"
	return req, nil
}

// resolve joins path to the base URL. Absolute URLs are returned as is.
func (c *Client) resolve(path string, query url.Values) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do runs req with the retry policy and returns the raw response body.
func (c *Client) do(ctx context.Context, req request) ([]byte, http.Header, error) {
	target := c.resolve(req.path, req.query)
	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay << (attempt - 1)
			c.logger.Debug("retrying request", "method", req.method, "url", target,
				"attempt", attempt, "delay", delay.String(), "request_id", requestID)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, nil, &NetworkError{Method: req.method, URL: target, Err: err}
			}
		}

		body, header, err := c.attempt(ctx, req, target, requestID)
		if err == nil {
			return body, header, nil
		}
		lastErr = err
		if ctx.Err() != nil || !IsTransient(err) {
			break
		}
	}
	return nil, nil, lastErr
}

func (c *Client) attempt(ctx context.Context, req request, target, requestID string) ([]byte, http.Header, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, nil, fmt.Errorf("build request %s %s: %w", req.method, target, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(headerRequestID, requestID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed", "method", req.method, "url", target, "error", err.Error(), "request_id", requestID)
		return nil, nil, &NetworkError{Method: req.method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if req.maxBody > 0 {
		reader = io.LimitReader(resp.Body, req.maxBody+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, &NetworkError{Method: req.method, URL: target, Err: err}
	}
	if req.maxBody > 0 && int64(len(data)) > req.maxBody && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil, nil, fmt.Errorf("%s %s: %w (limit %d bytes)", req.method, target, ErrTooLarge, req.maxBody)
	}
	c.logger.Debug("request completed", "method", req.method, "url", target, "status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(), "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &ServerError{
			Method:  req.method,
			URL:     target,
			Status:  resp.StatusCode,
			Message: errorMessage(data),
		}
	}
	return data, resp.Header, nil
}

// errorMessage pulls {"message": ...} or {"error": ...} out of an error
// body, falling back to the trimmed text.
func errorMessage(data []byte) string {
	if len(data) > maxErrorBody {
		data = data[:maxErrorBody]
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}

// doJSON runs req and decodes the response into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, req request, out any) error {
	data, _, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	req, err := jsonRequest(method, path, payload)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, req, out)
}

// dataEnvelope is the {"data": ...} wrapper used by collection responses.
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

func escape(id string) string {
	return url.PathEscape(id)
}
