package constants

import "errors"

// Configuration errors.
var (
	ErrNoAccessToken      = errors.New("no access token configured, run 'igapi token exchange' first or pass --token")
	ErrNoClientID         = errors.New("no client ID configured, set client_id in the config file or pass --client-id")
	ErrNoClientSecret     = errors.New("no client secret configured")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrInvalidParamFormat = errors.New("invalid parameter format, expected key=value")
)

// Flag errors.
var (
	ErrCodeRequired        = errors.New("--code flag is required")
	ErrRedirectURIRequired = errors.New("--redirect-uri flag is required")
	ErrScopeRequired       = errors.New("at least one --scope is required")
)
