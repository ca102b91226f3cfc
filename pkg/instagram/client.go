package instagram

import (
	"context"
	"net/http"
	"time"
)

// Client is the Instagram Graph API client.
//
// Every call either returns a decoded *Response or an *Error. The access token
// set with SetAccessToken is attached to every request, including requests
// made before any token is known; such calls are rejected by the API.
type Client interface {
	// SetVersionCode changes the Graph API version segment, e.g. "v21.0".
	SetVersionCode(versionCode string)
	// SetAccessToken changes the token attached to every request.
	SetAccessToken(accessToken string)
	// AppCredentials returns the client ID and secret the client was built with.
	AppCredentials() AppCredentials

	// Get issues a GET request. The endpoint may carry an inline query string
	// ("me/media?fields=id"); params override inline values on key collision.
	Get(ctx context.Context, endpoint string, params map[string]any, versionCode *string) (*Response, error)
	// Post issues a POST request with a JSON body built from params.
	Post(ctx context.Context, endpoint string, params map[string]any, versionCode *string) (*Response, error)
	// SendRequest is the low-level entry point used by Get, Post and the OAuth helper.
	SendRequest(ctx context.Context, method, endpoint string, options RequestOptions, versionCode, baseURL *string) (*Response, error)
}

// OAuthHelper drives the Instagram login flow on top of a Client.
type OAuthHelper interface {
	// LoginURL builds the authorization dialog URL. A nil state is omitted.
	LoginURL(scopes []string, redirectURI string, state *string) string
	// ShortLivedAccessToken exchanges an authorization code for a short-lived token.
	ShortLivedAccessToken(ctx context.Context, code, redirectURI string) (*Response, error)
	// LongLivedAccessToken exchanges a short-lived token for a long-lived one.
	LongLivedAccessToken(ctx context.Context, shortLivedToken string) (*Response, error)
	// RefreshLongLivedAccessToken extends a long-lived token that has not expired yet.
	RefreshLongLivedAccessToken(ctx context.Context, longLivedToken string) (*Response, error)

	// ExchangeCode is ShortLivedAccessToken with the payload decoded.
	ExchangeCode(ctx context.Context, code, redirectURI string) (*ShortLivedToken, error)
	// ExchangeToken is LongLivedAccessToken with the payload decoded.
	ExchangeToken(ctx context.Context, shortLivedToken string) (*LongLivedToken, error)
	// RefreshToken is RefreshLongLivedAccessToken with the payload decoded.
	RefreshToken(ctx context.Context, longLivedToken string) (*LongLivedToken, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// # Credentials
//
// ClientID is required. ClientSecret is only needed for the OAuth token
// operations; plain Graph calls only use the access token.
//
// # Timeouts
//
// ConnectTimeout bounds dialing (default 10s) and HTTPTimeout bounds the whole
// exchange (default 60s). Contexts passed to client methods can shorten both.
// The client never retries a failed request.
type Config struct {
	// ClientID: the Instagram app ID.
	ClientID string
	// ClientSecret: the Instagram app secret.
	ClientSecret string
	// AccessToken: optional initial token, same as calling SetAccessToken.
	AccessToken string
	// VersionCode: Graph API version segment. Defaults to "v21.0".
	VersionCode string
	// BaseURL: Graph API root. Defaults to "https://graph.instagram.com".
	// igclient.New trims a trailing slash and adds "https://" when no scheme is present.
	BaseURL string

	// HTTPTimeout: overall request timeout.
	HTTPTimeout time.Duration
	// ConnectTimeout: connection establishment timeout.
	ConnectTimeout time.Duration
	// HTTPClient: optional underlying client. When set, HTTPTimeout and
	// ConnectTimeout are not applied.
	HTTPClient *http.Client

	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
}
