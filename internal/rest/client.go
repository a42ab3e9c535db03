// Package rest implements the blocking HTTP transport shared by all
// Hopsworks API wrappers. One request per operation, no retries.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/logicalclocks/hopsworks-go/internal/domain"
)

const (
	// DefaultTimeout is the default timeout for backend requests.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps response bodies at 100MB.
	MaxResponseSize = 100 * 1024 * 1024

	// apiBasePath is prepended to every path built from segments.
	apiBasePath = "hopsworks-api/api"
)

// Session identifies the project the client is scoped to.
type Session struct {
	ProjectID   int
	ProjectName string
	External    bool
	CAChainPath string
}

// Config holds transport settings.
type Config struct {
	// URL is the cluster base URL, e.g. https://demo.hopsworks.ai:443.
	URL string
	// APIKey is sent as "Authorization: ApiKey <key>".
	APIKey string
	// Session scopes requests to a project.
	Session Session
	// HTTPClient overrides the default http.Client. Optional.
	HTTPClient *http.Client
	// Logger enables request debug logging. Optional.
	Logger *zap.Logger
}

// Client is the shared REST transport.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	apiKey  string
	session Session
	log     *zap.Logger
}

// New creates a transport client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("rest: cluster URL required")
	}
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rest: parse url %q: %w", cfg.URL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("rest: url %q must include scheme and host", cfg.URL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		http:    httpClient,
		baseURL: base,
		apiKey:  cfg.APIKey,
		session: cfg.Session,
		log:     log,
	}, nil
}

// Session returns the project identity bound to this transport.
func (c *Client) Session() Session {
	return c.session
}

// Request describes one backend call. Path segments are joined and escaped
// under the API base path. Empty segments are not allowed.
type Request struct {
	Method  string
	Path    []string
	Query   url.Values
	Headers map[string]string
	Body    []byte
}

// Do sends a request and returns the raw response body.
// Non-2xx responses return a *APIError; 404 unwraps to domain.ErrNotFound.
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	u, err := c.buildURL(r.Path, r.Query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("rest: create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "ApiKey "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	if len(r.Body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest: %s %s: %w", r.Method, u, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := readLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rest: read response: %w", err)
	}

	c.log.Debug("request completed",
		zap.String("method", r.Method),
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, u, data)
	}
	return data, nil
}

// DoJSON sends a request and decodes the JSON response into out.
// A nil out discards the body.
func (c *Client) DoJSON(ctx context.Context, r Request, out any) error {
	data, err := c.Do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("rest: decode response: %w", err)
	}
	return nil
}

func (c *Client) buildURL(segments []string, query url.Values) (string, error) {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, apiBasePath)
	for _, s := range segments {
		if s == "" {
			return "", errors.New("rest: empty path segment")
		}
		parts = append(parts, url.PathEscape(s))
	}
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.Join(parts, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeds %d bytes", MaxResponseSize)
	}
	return data, nil
}

// IsNotFound reports whether err is a backend not-found response.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
