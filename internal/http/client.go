// Package http wraps the HTTP transport used by the Billy client: URL
// construction against the base endpoint, basic auth with the active
// credential, form-encoded request bodies, retries, and classification of
// error responses.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/billyhq/billy-go/internal/constants"
	"github.com/billyhq/billy-go/pkg/billy"
	"github.com/hashicorp/go-retryablehttp"
)

// Request describes one API request.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is resolved against the base endpoint with standard URL-join
	// semantics: a trailing path on the base is replaced, not appended.
	Path string
	// Op names the operation for error reporting.
	Op string
	// Query parameters, if any.
	Query url.Values
	// Form is the request body, sent form-encoded. Nil means no body.
	Form url.Values
	// Headers are additional request headers.
	Headers map[string]string
	// Unauthenticated suppresses basic auth. Company creation is the only
	// unauthenticated call.
	Unauthenticated bool
}

// Response is a completed API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger billy.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the per-request timeout applied when the context carries
// no tighter deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.retryClient.HTTPClient.Timeout = timeout
	}
}

// WithRetryConfig enables transport retries for transient failures.
func WithRetryConfig(retryMax int, retryWaitMin, retryWaitMax time.Duration) Option {
	return func(c *Client) {
		c.retryClient.RetryMax = retryMax
		c.retryClient.RetryWaitMin = retryWaitMin
		c.retryClient.RetryWaitMax = retryWaitMax
	}
}

// WithInterceptors installs an interceptor chain around every request.
func WithInterceptors(chain *billy.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithCache installs a response cache consulted for requests the policy
// deems cacheable.
func WithCache(manager *billy.CacheManager, policy *billy.CachingPolicy) Option {
	return func(c *Client) {
		c.cache = manager
		c.cachePolicy = policy
	}
}

// Client performs HTTP requests against the Billy API.
//
// The active credential (the basic-auth username) is mutable via SetAPIKey;
// the client is not safe for concurrent use while the credential can change.
type Client struct {
	baseURL      *url.URL
	baseErr      error
	apiKey       string
	retryClient  *retryablehttp.Client
	logger       billy.Logger
	debug        bool
	userAgent    string
	interceptors *billy.InterceptorChain
	cache        *billy.CacheManager
	cachePolicy  *billy.CachingPolicy
}

// NewClient creates a transport bound to the given endpoint and credential.
// Retries are disabled unless WithRetryConfig is supplied.
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	client := &Client{
		apiKey:      apiKey,
		retryClient: retryClient,
		userAgent:   "billy-go",
	}

	client.baseURL, client.baseErr = url.Parse(endpoint)

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// APIKey returns the active credential.
func (c *Client) APIKey() string {
	return c.apiKey
}

// SetAPIKey replaces the active credential.
func (c *Client) SetAPIKey(key string) {
	c.apiKey = key
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, op, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Op:     op,
		Query:  query,
	})
}

// PostForm performs an authenticated form-encoded POST request.
func (c *Client) PostForm(ctx context.Context, op, path string, form url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Op:     op,
		Form:   form,
	})
}

// PostFormUnauthenticated performs a form-encoded POST without credentials.
func (c *Client) PostFormUnauthenticated(ctx context.Context, op, path string, form url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:          http.MethodPost,
		Path:            path,
		Op:              op,
		Form:            form,
		Unauthenticated: true,
	})
}

// Do performs the request and classifies the response. Any non-200 status
// yields a *billy.APIError alongside the raw response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.baseErr != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", c.baseErr)
	}

	fullURL := c.urlFor(req.Path, req.Query)

	interceptReq := &billy.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: make(http.Header),
	}

	if c.interceptors != nil {
		err := c.interceptors.ExecuteRequestInterceptors(ctx, interceptReq)
		if err != nil {
			return nil, err
		}
	}

	cacheKey, cached := c.fromCache(ctx, req)
	if cached != nil {
		return cached, nil
	}

	resp, err := c.send(ctx, req, fullURL, interceptReq.Headers)
	if err != nil {
		return nil, err
	}

	if c.interceptors != nil {
		interceptResp := &billy.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
		}

		err = c.interceptors.ExecuteResponseInterceptors(ctx, interceptReq, interceptResp)
		if err != nil {
			return resp, err
		}
	}

	if resp.StatusCode != http.StatusOK {
		return resp, classify(req.Op, resp)
	}

	c.storeInCache(ctx, req, cacheKey, resp)

	return resp, nil
}

func (c *Client) send(ctx context.Context, req *Request, fullURL string, extraHeaders http.Header) (*Response, error) {
	var body io.Reader
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	for key, values := range extraHeaders {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if !req.Unauthenticated {
		httpReq.SetBasicAuth(c.apiKey, "")
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.retryClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": httpResp.StatusCode,
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

// urlFor resolves path against the base endpoint, replacing any trailing
// path on the base per standard URL-join semantics.
func (c *Client) urlFor(path string, query url.Values) string {
	ref := &url.URL{Path: path}
	resolved := c.baseURL.ResolveReference(ref)

	if len(query) > 0 {
		resolved.RawQuery = query.Encode()
	}

	return resolved.String()
}

// fromCache returns the cache key for the request and, on a hit, a synthetic
// 200 response built from the cached body.
func (c *Client) fromCache(ctx context.Context, req *Request) (string, *Response) {
	if c.cache == nil || c.cachePolicy == nil {
		return "", nil
	}

	if !c.cachePolicy.ShouldCache(req.Method, req.Path, http.StatusOK) {
		return "", nil
	}

	key := c.cache.GetCacheKey(req.Method, req.Path, flattenQuery(req.Query))

	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return key, nil
	}

	return key, &Response{
		StatusCode: http.StatusOK,
		Headers:    http.Header{},
		Body:       data,
	}
}

// storeInCache records a successful response and invalidates stale reads
// after writes.
func (c *Client) storeInCache(ctx context.Context, req *Request, cacheKey string, resp *Response) {
	if c.cache == nil || c.cachePolicy == nil {
		return
	}

	if req.Method == http.MethodPost {
		// A write makes every cached read under the affected collection
		// stale: the entity itself, the plain list, and any windowed list
		// pages. Action paths like /v1/subscriptions/{guid}/cancel reduce to
		// their collection root.
		prefix := c.cache.GetCacheKey(http.MethodGet, collectionPath(req.Path), nil)
		_ = c.cache.DeleteByPrefix(ctx, prefix)

		return
	}

	if cacheKey == "" || !c.cachePolicy.ShouldCache(req.Method, req.Path, resp.StatusCode) {
		return
	}

	_ = c.cache.SetWithETag(ctx, cacheKey, resp.Body, resp.Headers.Get("ETag"), c.cachePolicy.TTL)
}

// collectionPath reduces an API path to its collection root, e.g.
// /v1/subscriptions/{guid}/cancel to /v1/subscriptions.
func collectionPath(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(segments) < 2 {
		return path
	}

	return "/" + segments[0] + "/" + segments[1]
}

func flattenQuery(query url.Values) map[string]string {
	if len(query) == 0 {
		return nil
	}

	flat := make(map[string]string, len(query))
	for key := range query {
		flat[key] = query.Get(key)
	}

	return flat
}

// classify turns a non-200 response into the API error for the operation.
func classify(op string, resp *Response) error {
	kind := billy.ErrorKindService
	if resp.StatusCode == http.StatusNotFound {
		kind = billy.ErrorKindNotFound
	}

	return &billy.APIError{
		Kind:       kind,
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
	}
}
