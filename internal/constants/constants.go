package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API endpoints.
const (
	// GraphBaseURL is the root of the Instagram Graph API.
	GraphBaseURL = "https://graph.instagram.com"

	// OAuthBaseURL serves the authorization code exchange.
	OAuthBaseURL = "https://api.instagram.com"

	// AuthorizeURL is the user-facing login dialog.
	AuthorizeURL = "https://www.instagram.com/oauth/authorize"

	// DefaultVersionCode is the Graph API version used when none is configured.
	DefaultVersionCode = "v21.0"
)

// OAuth endpoints and grant types.
const (
	ShortLivedTokenEndpoint = "oauth/access_token"
	LongLivedTokenEndpoint  = "access_token"
	RefreshTokenEndpoint    = "refresh_access_token"

	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeExchangeToken     = "ig_exchange_token"
	GrantTypeRefreshToken      = "ig_refresh_token"

	ResponseTypeCode = "code"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout bounds a whole request, body included.
	DefaultHTTPTimeout = 60 * time.Second

	// DefaultConnectTimeout bounds establishing the TCP connection.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultKeepAlive is the dialer keep-alive period.
	DefaultKeepAlive = 30 * time.Second
)

// Content types.
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Query and body parameter names.
const (
	ParamAccessToken  = "access_token"
	ParamClientID     = "client_id"
	ParamClientSecret = "client_secret"
	ParamRedirectURI  = "redirect_uri"
	ParamScope        = "scope"
	ParamResponseType = "response_type"
	ParamState        = "state"
	ParamCode         = "code"
)

// DefaultUserAgent is sent when the caller does not configure one.
const DefaultUserAgent = "instagram-client-go/1.0"

// Masked replaces secrets in logs and CLI output.
const Masked = "***"
