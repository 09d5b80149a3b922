package emailbison

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/max-longrun/bison-mcp/internal/normalize"
	"github.com/max-longrun/bison-mcp/pkg/logging"
)

const (
	// DefaultBaseURL is used when neither the account nor the process
	// configuration names a base URL.
	DefaultBaseURL = "https://send.longrun.agency/api"
	// DefaultTimeout bounds every request of a client.
	DefaultTimeout = 30 * time.Second

	userAgent = "bison-mcp"
)

// RequestObserver is notified once per finished request. status is 0 when no
// response was received.
type RequestObserver func(account, method string, status int, elapsed time.Duration)

// Options configures a Client.
type Options struct {
	// Account is the registry name of the account; it only labels logs and
	// metrics.
	Account string
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// RateLimit caps requests per second; zero means unlimited.
	RateLimit float64
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
	Observer   RequestObserver
}

// Client is an authenticated EmailBison REST client bound to one account.
// It is safe for concurrent use.
type Client struct {
	account    string
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	observer   RequestObserver
	closed     atomic.Bool
}

// New builds a client. It fails with ErrMissingAPIKey when opts.APIKey is
// blank; no network traffic happens here.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}
	httpClient.Timeout = timeout

	c := &Client{
		account:    opts.Account,
		baseURL:    baseURL,
		apiKey:     opts.APIKey,
		timeout:    timeout,
		httpClient: httpClient,
		observer:   opts.Observer,
	}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c, nil
}

// BaseURL returns the normalized base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Account returns the registry name the client was built for.
func (c *Client) Account() string { return c.account }

// Request sends one JSON request. query and body may both be nil; a
// Content-Type header is only sent when body is non-nil. The decoded JSON
// payload is returned when the response declares application/json,
// otherwise the raw text.
func (c *Client) Request(ctx context.Context, method, path string, query normalize.Values, body map[string]any) (any, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("encoding request body: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, path)
}

// PostMultipart sends fields as multipart/form-data. The Content-Type comes
// from the multipart writer so that it carries the boundary.
func (c *Client) PostMultipart(ctx context.Context, path string, fields []normalize.FormField) (any, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, field := range fields {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return nil, &TransportError{Method: http.MethodPost, Path: path, Err: fmt.Errorf("encoding form field %q: %w", field.Name, err)}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &TransportError{Method: http.MethodPost, Path: path, Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, path)
}

// Close releases idle connections. It is safe to call more than once.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.httpClient.CloseIdleConnections()
	logging.Debug("EmailBison", "Closed client for account %s", c.account)
	return nil
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool { return c.closed.Load() }

func (c *Client) newRequest(ctx context.Context, method, path string, query normalize.Values, body io.Reader) (*http.Request, error) {
	if c.closed.Load() {
		return nil, &TransportError{Method: method, Path: path, Err: ErrClientClosed}
	}

	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + url.Values(query).Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

func (c *Client) do(req *http.Request, path string) (any, error) {
	method := req.Method
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("waiting for rate limiter: %w", err)}
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, 0, start)
		logging.Debug("EmailBison", "%s %s failed after %s: %v", method, path, time.Since(start), err)
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	c.observe(method, resp.StatusCode, start)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("reading response body: %w", err)}
	}
	logging.Debug("EmailBison", "%s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(raw)}
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil, nil
		}
		var payload any
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("decoding JSON response: %w", err)}
		}
		return payload, nil
	}
	return string(raw), nil
}

func (c *Client) observe(method string, status int, start time.Time) {
	if c.observer != nil {
		c.observer(c.account, method, status, time.Since(start))
	}
}

// errorDetail extracts the human readable part of an error response: the
// "message" field of a JSON object, the whole JSON document when there is no
// message, or the raw text.
func errorDetail(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "Unknown error"
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return text
	}
	if obj, ok := payload.(map[string]any); ok {
		if msg, ok := obj["message"]; ok && !normalize.IsEmpty(msg) {
			return normalize.FormatValue(msg)
		}
	}
	return text
}
