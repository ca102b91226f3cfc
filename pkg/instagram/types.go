package instagram

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AppCredentials identifies the Instagram app.
type AppCredentials struct {
	ClientID     string `json:"client_id"     yaml:"client_id"`
	ClientSecret string `json:"client_secret" yaml:"client_secret"`
}

// Response is a successfully decoded API response.
type Response struct {
	StatusCode int         `json:"status_code" yaml:"status_code"`
	Headers    http.Header `json:"headers"     yaml:"headers"`
	// Data holds the decoded JSON document: map[string]any, []any, string,
	// json.Number, bool or nil. Numbers stay json.Number so 64-bit IDs keep
	// every digit.
	Data any `json:"data" yaml:"data"`
}

// Header returns the first value of the named header.
func (r *Response) Header(name string) string {
	return r.Headers.Get(name)
}

// Decode converts Data into v, which must be a pointer.
func (r *Response) Decode(v any) error {
	raw, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Errorf("encoding response data: %w", err)
	}

	err = json.Unmarshal(raw, v)
	if err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}

	return nil
}

// RequestOptions is the request shape accepted by Client.SendRequest.
// JSON and Form are mutually exclusive; when both are set JSON wins.
type RequestOptions struct {
	Query   url.Values
	JSON    map[string]any
	Form    url.Values
	Headers map[string]string
}

// HasHeader reports whether name is set, ignoring case.
func (o *RequestOptions) HasHeader(name string) bool {
	for key := range o.Headers {
		if strings.EqualFold(key, name) {
			return true
		}
	}

	return false
}

// SetHeader sets a header, creating the map when needed.
func (o *RequestOptions) SetHeader(name, value string) {
	if o.Headers == nil {
		o.Headers = make(map[string]string)
	}

	o.Headers[name] = value
}

// Version returns a version override for Get, Post and SendRequest.
func Version(versionCode string) *string {
	return &versionCode
}

// NoVersion returns an override that drops the version segment from the URI.
func NoVersion() *string {
	return Version("")
}

// BaseURL returns a base URL override for SendRequest.
func BaseURL(baseURL string) *string {
	return &baseURL
}

// Permissions is the list of scopes granted to a token. The API reports it
// either as a JSON array or as a comma separated string.
type Permissions []string

// UnmarshalJSON implements json.Unmarshaler.
func (p *Permissions) UnmarshalJSON(data []byte) error {
	var list []string

	err := json.Unmarshal(data, &list)
	if err == nil {
		*p = list

		return nil
	}

	var joined string

	err = json.Unmarshal(data, &joined)
	if err != nil {
		return fmt.Errorf("permissions must be a string or a list: %w", err)
	}

	*p = nil

	for _, scope := range strings.Split(joined, ",") {
		scope = strings.TrimSpace(scope)
		if scope != "" {
			*p = append(*p, scope)
		}
	}

	return nil
}

// ShortLivedToken is returned by the authorization code exchange.
type ShortLivedToken struct {
	AccessToken string      `json:"access_token"          yaml:"access_token"`
	UserID      json.Number `json:"user_id"               yaml:"user_id"`
	Permissions Permissions `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}

// UnmarshalJSON accepts both the flat payload and the {"data": [...]} envelope.
func (t *ShortLivedToken) UnmarshalJSON(data []byte) error {
	type flat ShortLivedToken

	var envelope struct {
		flat

		Data []flat `json:"data"`
	}

	err := json.Unmarshal(data, &envelope)
	if err != nil {
		return err //nolint:wrapcheck // json errors are returned as is from UnmarshalJSON
	}

	if len(envelope.Data) > 0 {
		*t = ShortLivedToken(envelope.Data[0])
	} else {
		*t = ShortLivedToken(envelope.flat)
	}

	return nil
}

// LongLivedToken is returned by the long-lived exchange and by refresh.
type LongLivedToken struct {
	AccessToken string `json:"access_token" yaml:"access_token"`
	TokenType   string `json:"token_type"   yaml:"token_type"`
	// ExpiresIn is the lifetime in seconds.
	ExpiresIn int64 `json:"expires_in" yaml:"expires_in"`
}

// ExpiresAt returns the expiry instant for a token issued at issued.
func (t *LongLivedToken) ExpiresAt(issued time.Time) time.Time {
	return issued.Add(time.Duration(t.ExpiresIn) * time.Second)
}
