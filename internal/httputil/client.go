// Package httputil provides the request client every console service module uses.
package httputil

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

	"golang.org/x/time/rate"

	"github.com/tutorhub/console/internal/envelope"
	apperrors "github.com/tutorhub/console/internal/errors"
	"github.com/tutorhub/console/internal/logging"
	"github.com/tutorhub/console/internal/metrics"
	"github.com/tutorhub/console/internal/session"
)

const defaultMaxBodySize = 8 << 20 // 8MiB

// =============================================================================
// Client
// =============================================================================

// Client is bound to one backend base URL. Before every request it reads the
// stored credential and attaches it as a bearer token. A received 401 runs the
// session expiry handler once and is never retried.
type Client struct {
	baseURL      string
	family       string
	httpClient   *http.Client
	session      session.Store
	onExpired    session.ExpiryHandler
	limiter      *rate.Limiter
	log          *logging.Logger
	maxBodyBytes int64
}

// Config configures the client.
type Config struct {
	// BaseURL is the endpoint family root, e.g. http://localhost:8080.
	BaseURL string
	// Family labels logs and metrics ("admin", "coins").
	Family string
	// Session supplies the bearer token. Nil sends unauthenticated requests.
	Session session.Store
	// OnExpired runs after a received 401.
	OnExpired session.ExpiryHandler
	// HTTPClient executes requests. No timeout is imposed by default; callers
	// bound requests through their context.
	HTTPClient *http.Client
	// RequestsPerSecond throttles outgoing calls. Zero disables throttling.
	RequestsPerSecond float64
	Logger            *logging.Logger
	MaxBodyBytes      int64
}

// New creates a client for cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("httputil: BaseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("httputil: BaseURL must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("httputil: BaseURL scheme must be http or https")
	}
	if parsed.User != nil {
		return nil, fmt.Errorf("httputil: BaseURL must not include user info")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	log := cfg.Logger
	if log == nil {
		log = logging.NewDefault("httputil")
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}

	family := cfg.Family
	if family == "" {
		family = parsed.Host
	}

	c := &Client{
		baseURL:      baseURL,
		family:       family,
		httpClient:   httpClient,
		session:      cfg.Session,
		onExpired:    cfg.OnExpired,
		log:          log,
		maxBodyBytes: maxBody,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c, nil
}

// BaseURL returns the bound base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Session returns the credential store the client reads from.
func (c *Client) Session() session.Store { return c.session }

// Logger returns the client's logger.
func (c *Client) Logger() *logging.Logger { return c.log }

// Family returns the endpoint family label.
func (c *Client) Family() string { return c.family }

// =============================================================================
// Requests
// =============================================================================

// Response is a received HTTP response with its body fully read.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Option customizes a single request.
type Option func(*request)

type request struct {
	query   url.Values
	body    any
	headers map[string]string
	route   string
}

// WithQuery sets the query string.
func WithQuery(q url.Values) Option {
	return func(r *request) { r.query = q }
}

// WithBody sets a JSON request body.
func WithBody(body any) Option {
	return func(r *request) { r.body = body }
}

// WithHeader sets an extra header. Authorization cannot be overridden.
func WithHeader(key, value string) Option {
	return func(r *request) {
		if r.headers == nil {
			r.headers = make(map[string]string)
		}
		r.headers[key] = value
	}
}

// WithRoute labels the request's metrics with a route template such as
// /api/v1/transactions/{id} instead of the concrete path.
func WithRoute(template string) Option {
	return func(r *request) { r.route = template }
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...Option) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, opts...)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, opts ...Option) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, opts...)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, opts ...Option) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, opts...)
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, opts ...Option) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, opts...)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...Option) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, opts...)
}

// Do executes one request. Statuses >= 400 come back as *errors.ServiceError
// together with the response, so callers that treat a status as a business
// outcome can still read the body. Transport failures return a nil response.
func (c *Client) Do(ctx context.Context, method, path string, opts ...Option) (*Response, error) {
	var r request
	for _, opt := range opts {
		opt(&r)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apperrors.Transport(fmt.Errorf("rate limit wait: %w", err))
		}
	}

	req, err := c.newRequest(ctx, method, path, &r)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	route := r.route
	if route == "" {
		route = path
	}
	finish := metrics.StartCall(c.family, method, route)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		finish(0)
		c.log.LogRequest(ctx, method, path, 0, time.Since(start))
		return nil, apperrors.Transport(fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer httpResp.Body.Close()

	body, readErr := readAllStrict(httpResp.Body, c.maxBodyBytes)
	finish(httpResp.StatusCode)
	c.log.LogRequest(ctx, method, path, httpResp.StatusCode, time.Since(start))

	resp := &Response{Status: httpResp.StatusCode, Header: httpResp.Header, Body: body}

	switch {
	case resp.Status == http.StatusUnauthorized:
		c.expire(ctx)
		return resp, apperrors.SessionExpired(body)
	case errors.Is(readErr, errBodyTooLarge):
		return nil, apperrors.Decode(resp.Status, readErr, nil)
	case readErr != nil:
		return nil, apperrors.Transport(fmt.Errorf("read response body: %w", readErr))
	case resp.Status >= 400:
		return resp, apperrors.Status(resp.Status, envelope.Message(body), body)
	}
	return resp, nil
}

var errBodyTooLarge = errors.New("response body too large")

// readAllStrict reads at most limit bytes and fails instead of truncating.
func readAllStrict(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", errBodyTooLarge, limit)
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, r *request) (*http.Request, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var bodyReader io.Reader = http.NoBody
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("httputil: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("httputil: create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range r.headers {
		if http.CanonicalHeaderKey(k) == "Authorization" {
			continue
		}
		req.Header.Set(k, v)
	}

	if c.session != nil {
		token, err := c.session.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("httputil: read session: %w", err)
		}
		if token != "" {
			c.warnIfExpired(ctx, token)
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// warnIfExpired logs when the stored token's exp has passed. The request is still
// sent: only a received 401 logs the session out.
func (c *Client) warnIfExpired(ctx context.Context, token string) {
	claims, err := session.Peek(token)
	if err != nil {
		return
	}
	if claims.Expired(time.Now()) {
		c.log.WithContext(ctx).
			WithField("family", c.family).
			WithField("expired_at", claims.ExpiresAt.Format(time.RFC3339)).
			Warn("stored token looks expired")
	}
}

func (c *Client) expire(ctx context.Context) {
	metrics.RecordSessionExpired(c.family)
	c.log.WithContext(ctx).WithField("family", c.family).Warn("session expired, logging out")
	if c.onExpired != nil {
		c.onExpired.SessionExpired(ctx)
	}
}
