package grafana

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const maxResponseBodySize = 32 << 20 // 32MB, large dashboards with embedded panels

const defaultTimeout = 30 * time.Second

// connection pooling limits; the CLI talks to a single host
const (
	defaultMaxIdleConns        = 10
	defaultMaxIdleConnsPerHost = 4
	defaultMaxConnsPerHost     = 4
	defaultIdleConnTimeout     = 60 * time.Second
)

// Config configures a [Client].
type Config struct {
	// URL is the Grafana base URL, e.g. http://localhost:3000. A user:password
	// userinfo is used for basic auth when Token is empty.
	URL string

	// Token is the API token sent as a bearer credential.
	Token string

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	// Timeout bounds every request. Defaults to 30s.
	Timeout time.Duration

	// HTTPClient replaces the pooled client built by [New]. Tests use it
	// to point at an httptest server with a custom transport.
	HTTPClient *http.Client
}

// Client is an authenticated client for the subset of the Grafana HTTP API
// needed to import, export and remove dashboards.
//
// Client uses per-request timeouts via context rather than a global timeout.
// All methods are safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	auth       authenticator
	timeout    time.Duration
}

// New creates a [Client] from cfg.
//
// Returns an error if the URL is invalid or no credentials are available.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("grafana url is required")
	}
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid grafana url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("grafana url scheme must be http or https, got %q", base.Scheme)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("grafana url %q has no host", cfg.URL)
	}

	auth, err := newAuthenticator(cfg.Token, base.User)
	if err != nil {
		return nil, err
	}
	// credentials travel in headers, never in the request URL
	base.User = nil

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			// no default timeout - we use per-request timeouts via context
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: cfg.InsecureSkipVerify,
				},
			},
		}
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		auth:       auth,
		timeout:    timeout,
	}, nil
}

// URL returns the base URL without credentials.
func (c *Client) URL() string {
	return c.baseURL.String()
}

// do sends a JSON request and decodes a JSON reply into out (when non-nil).
func (c *Client) do(ctx context.Context, method, uri string, query url.Values, body, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := *c.baseURL
	u.Path = path.Join(u.Path, uri)
	u.RawQuery = query.Encode()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.auth.authenticate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: request failed: %w", method, uri, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response body: %w", method, uri, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ClientError{
			Method:     method,
			Path:       uri,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, uri, err)
	}
	return nil
}

// errorMessage extracts the "message" field of a Grafana error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times and on a nil client.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
}
