package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/fivetwenty-io/instagram-client/internal/constants"
	ighttp "github.com/fivetwenty-io/instagram-client/internal/http"
	"github.com/fivetwenty-io/instagram-client/pkg/instagram"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired = errors.New("config is required")
	ErrEmptyBody      = errors.New("response body is empty")
	ErrTrailingData   = errors.New("unexpected data after JSON value")
)

var _ instagram.HTTPError = (*ighttp.StatusError)(nil)

// Client implements the instagram.Client interface.
type Client struct {
	httpClient  *ighttp.Client
	credentials instagram.AppCredentials
	baseURL     string
	logger      instagram.Logger

	mutex       sync.RWMutex
	versionCode string
	accessToken string
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *instagram.Config) []ighttp.Option {
	var httpOpts []ighttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, ighttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, ighttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, ighttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, ighttp.WithHTTPClient(config.HTTPClient))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, ighttp.WithTimeout(config.HTTPTimeout))
	}

	if config.ConnectTimeout > 0 {
		httpOpts = append(httpOpts, ighttp.WithConnectTimeout(config.ConnectTimeout))
	}

	return httpOpts
}

// New creates a new Instagram API client. Config validation and base URL
// normalization happen in igclient.New.
func New(config *instagram.Config) (*Client, error) {
	if config == nil {
		return nil, ErrConfigRequired
	}

	return NewWithHTTPClient(config, ighttp.NewClient(createHTTPClientOptions(config)...)), nil
}

// NewWithHTTPClient creates a client on top of an existing transport.
func NewWithHTTPClient(config *instagram.Config, httpClient *ighttp.Client) *Client {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = constants.GraphBaseURL
	}

	versionCode := config.VersionCode
	if versionCode == "" {
		versionCode = constants.DefaultVersionCode
	}

	return &Client{
		httpClient: httpClient,
		credentials: instagram.AppCredentials{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
		},
		baseURL:     baseURL,
		logger:      config.Logger,
		versionCode: versionCode,
		accessToken: config.AccessToken,
	}
}

// SetVersionCode implements instagram.Client.SetVersionCode.
func (c *Client) SetVersionCode(versionCode string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.versionCode = versionCode
}

// SetAccessToken implements instagram.Client.SetAccessToken.
func (c *Client) SetAccessToken(accessToken string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.accessToken = accessToken
}

// AppCredentials implements instagram.Client.AppCredentials.
func (c *Client) AppCredentials() instagram.AppCredentials {
	return c.credentials
}

// VersionCode returns the stored version code.
func (c *Client) VersionCode() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.versionCode
}

// AccessToken returns the stored access token.
func (c *Client) AccessToken() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.accessToken
}

// Get implements instagram.Client.Get.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]any, versionCode *string) (*instagram.Response, error) {
	path, inline := splitEndpoint(endpoint)

	query := url.Values{}
	query.Set(constants.ParamAccessToken, c.AccessToken())

	for key, values := range inline {
		// parse_str keeps the last occurrence of a repeated key
		query.Set(key, values[len(values)-1])
	}

	for key, value := range params {
		query[key] = queryValues(value)
	}

	return c.SendRequest(ctx, http.MethodGet, path, instagram.RequestOptions{Query: query}, versionCode, nil)
}

// Post implements instagram.Client.Post.
func (c *Client) Post(ctx context.Context, endpoint string, params map[string]any, versionCode *string) (*instagram.Response, error) {
	var token any
	if accessToken := c.AccessToken(); accessToken != "" {
		token = accessToken
	}

	// A missing token is sent as JSON null.
	body := map[string]any{
		constants.ParamAccessToken: token,
	}

	for key, value := range params {
		body[key] = value
	}

	return c.SendRequest(ctx, http.MethodPost, endpoint, instagram.RequestOptions{JSON: body}, versionCode, nil)
}

// SendRequest implements instagram.Client.SendRequest.
func (c *Client) SendRequest(ctx context.Context, method, endpoint string, options instagram.RequestOptions, versionCode, baseURL *string) (*instagram.Response, error) {
	uri := c.buildURI(endpoint, versionCode, baseURL)

	if method != http.MethodGet && options.JSON != nil && !options.HasHeader("Content-Type") {
		options.Headers = copyHeaders(options.Headers)
		options.SetHeader("Content-Type", constants.ContentTypeJSON)
	}

	req := &ighttp.Request{
		Method:  method,
		URL:     uri,
		Query:   options.Query,
		Form:    options.Form,
		Headers: options.Headers,
	}

	// a nil map stored in an interface would encode as "null"
	if options.JSON != nil {
		req.JSON = options.JSON
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, c.mapError(method, uri, err)
	}

	data, err := decodeBody(resp.Body)
	if err != nil {
		return nil, c.mapError(method, uri, err)
	}

	return &instagram.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Data:       data,
	}, nil
}

// buildURI joins base URL, version segment and endpoint. An explicit empty
// version override drops the version segment.
func (c *Client) buildURI(endpoint string, versionCode, baseURL *string) string {
	base := c.baseURL
	if baseURL != nil {
		base = strings.TrimSuffix(*baseURL, "/")
	}

	version := c.VersionCode()
	if versionCode != nil {
		version = *versionCode
	}

	endpoint = strings.TrimPrefix(endpoint, "/")

	if version != "" {
		return fmt.Sprintf("%s/%s/%s", base, version, endpoint)
	}

	return fmt.Sprintf("%s/%s", base, endpoint)
}

func (c *Client) mapError(method, uri string, err error) *instagram.Error {
	apiErr := instagram.MapError(err)

	if c.logger != nil {
		fields := map[string]interface{}{
			"method":  method,
			"url":     ighttp.RedactURL(uri),
			"code":    apiErr.Code,
			"message": apiErr.Message,
		}

		if apiErr.Type != "" {
			fields["type"] = apiErr.Type
		}

		if apiErr.TraceID != "" {
			fields["fbtrace_id"] = apiErr.TraceID
		}

		c.logger.Warn("API request failed", fields)
	}

	return apiErr
}

// splitEndpoint separates the path from an inline query string.
func splitEndpoint(endpoint string) (string, url.Values) {
	path, rawQuery, found := strings.Cut(endpoint, "?")
	if !found || rawQuery == "" {
		return path, nil
	}

	// ParseQuery keeps every well-formed pair even when it reports an error
	inline, _ := url.ParseQuery(rawQuery)

	return path, inline
}

// queryValues renders a parameter value for the query string.
func queryValues(value any) []string {
	switch typed := value.(type) {
	case nil:
		return []string{""}
	case string:
		return []string{typed}
	case []string:
		return []string{strings.Join(typed, ",")}
	case bool:
		return []string{strconv.FormatBool(typed)}
	case fmt.Stringer:
		return []string{typed.String()}
	default:
		return []string{fmt.Sprint(typed)}
	}
}

// copyHeaders keeps defaulted headers out of the caller's map.
func copyHeaders(headers map[string]string) map[string]string {
	copied := make(map[string]string, len(headers)+1)
	for name, value := range headers {
		copied[name] = value
	}

	return copied
}

func decodeBody(body []byte) (any, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("decoding response: %w", ErrEmptyBody)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var data any

	err := decoder.Decode(&data)
	if err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	_, err = decoder.Token()
	if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding response: %w", ErrTrailingData)
	}

	return data, nil
}
