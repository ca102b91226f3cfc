// Package http is the transport used by the API client. It sends exactly one
// request per call through go-retryablehttp with retries disabled, and reports
// non-2xx answers as *StatusError so callers can still read the response.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/instagram-client/internal/constants"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// Static errors for err113 compliance.
var (
	ErrMethodRequired = errors.New("request method is required")
	ErrURLRequired    = errors.New("request URL is required")
)

// redactedParams are masked when a URL is logged or embedded in an error.
var redactedParams = []string{constants.ParamAccessToken, constants.ParamClientSecret, constants.ParamCode}

// Logger is the logging interface used by the transport.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client sends requests to absolute URLs.
type Client struct {
	httpClient *retryablehttp.Client
	logger     Logger
	debug      bool
	userAgent  string

	connectTimeout time.Duration
	timeout        time.Duration
	baseClient     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
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

// WithTimeout sets the overall request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithConnectTimeout sets the dial timeout.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.connectTimeout = timeout
	}
}

// WithHTTPClient replaces the underlying *http.Client. Timeouts set through
// WithTimeout and WithConnectTimeout are ignored when this option is used.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.baseClient = httpClient
	}
}

// Request describes one HTTP call. JSON and Form are mutually exclusive; JSON
// wins when both are set.
type Request struct {
	Method  string
	URL     string
	Query   url.Values
	JSON    interface{}
	Form    url.Values
	Headers map[string]string
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Method   string
	URL      string
	Response *Response
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s resulted in a %d %s response",
		e.Method, e.URL, e.Response.StatusCode, http.StatusText(e.Response.StatusCode))
}

// StatusCode returns the HTTP status of the failed response.
func (e *StatusError) StatusCode() int {
	return e.Response.StatusCode
}

// Header returns the headers of the failed response.
func (e *StatusError) Header() http.Header {
	return e.Response.Headers
}

// Body returns the raw body of the failed response.
func (e *StatusError) Body() []byte {
	return e.Response.Body
}

// NewClient creates a new transport.
func NewClient(opts ...Option) *Client {
	client := &Client{
		userAgent:      constants.DefaultUserAgent,
		connectTimeout: constants.DefaultConnectTimeout,
		timeout:        constants.DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = client.buildHTTPClient()
	retryClient.Logger = nil
	retryClient.RetryMax = 0
	retryClient.CheckRetry = neverRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	if client.debug && client.logger != nil {
		retryClient.RequestLogHook = client.logRequest
		retryClient.ResponseLogHook = client.logResponse
	}

	client.httpClient = retryClient

	return client
}

func (c *Client) buildHTTPClient() *http.Client {
	if c.baseClient != nil {
		return c.baseClient
	}

	transport := cleanhttp.DefaultPooledTransport()
	transport.DialContext = (&net.Dialer{
		Timeout:   c.connectTimeout,
		KeepAlive: constants.DefaultKeepAlive,
	}).DialContext

	return &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
	}
}

// neverRetry stops after the first attempt. A cancelled context is surfaced
// as the request error.
func neverRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err() //nolint:wrapcheck // context errors are matched with errors.Is by callers
	}

	return false, nil
}

// Do sends the request. For non-2xx answers both the response and a
// *StatusError are returned.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if c.debug && c.logger != nil {
			c.logger.Debug("HTTP Request Failed", map[string]interface{}{
				"method":   req.Method,
				"url":      RedactURL(httpReq.URL.String()),
				"duration": time.Since(start).String(),
				"error":    err.Error(),
			})
		}

		return nil, fmt.Errorf("%s %s: %w", req.Method, RedactURL(httpReq.URL.String()), err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		return resp, &StatusError{
			Method:   req.Method,
			URL:      RedactURL(httpReq.URL.String()),
			Response: resp,
		}
	}

	return resp, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		URL:    rawURL,
		Query:  query,
	})
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, rawURL string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		URL:    rawURL,
		JSON:   body,
	})
}

// PostForm issues a POST request with a form-encoded body.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		URL:    rawURL,
		Form:   form,
	})
}

func (c *Client) buildRequest(ctx context.Context, req *Request) (*retryablehttp.Request, error) {
	if req.Method == "" {
		return nil, ErrMethodRequired
	}

	if req.URL == "" {
		return nil, ErrURLRequired
	}

	target, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing request URL: %w", err)
	}

	if len(req.Query) > 0 {
		query := target.Query()
		for key, values := range req.Query {
			query[key] = values
		}

		target.RawQuery = query.Encode()
	}

	var (
		body        interface{}
		contentType string
	)

	switch {
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = data
	case req.Form != nil:
		body = []byte(req.Form.Encode())
		contentType = constants.ContentTypeForm
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", constants.ContentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

func (c *Client) logRequest(_ retryablehttp.Logger, req *http.Request, _ int) {
	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method": req.Method,
		"url":    RedactURL(req.URL.String()),
	})
}

func (c *Client) logResponse(_ retryablehttp.Logger, resp *http.Response) {
	fields := map[string]interface{}{
		"status_code": resp.StatusCode,
	}

	if resp.Request != nil {
		fields["method"] = resp.Request.Method
		fields["url"] = RedactURL(resp.Request.URL.String())
	}

	c.logger.Debug("HTTP Response", fields)
}

// RedactURL masks credentials carried in the query string.
func RedactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.RawQuery == "" {
		return rawURL
	}

	query := parsed.Query()
	changed := false

	for _, name := range redactedParams {
		if query.Has(name) && query.Get(name) != "" {
			query.Set(name, constants.Masked)

			changed = true
		}
	}

	if !changed {
		return rawURL
	}

	parsed.RawQuery = query.Encode()

	return strings.ReplaceAll(parsed.String(), url.QueryEscape(constants.Masked), constants.Masked)
}
