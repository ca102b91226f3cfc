package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/instagram-client/internal/constants"
	"github.com/fivetwenty-io/instagram-client/pkg/instagram"
	"github.com/google/go-querystring/query"
)

// Requester is the part of the API client the OAuth helper needs.
type Requester interface {
	AppCredentials() instagram.AppCredentials
	Get(ctx context.Context, endpoint string, params map[string]any, versionCode *string) (*instagram.Response, error)
	SendRequest(ctx context.Context, method, endpoint string, options instagram.RequestOptions, versionCode, baseURL *string) (*instagram.Response, error)
}

// codeExchangeForm is the body of the authorization code exchange.
type codeExchangeForm struct {
	ClientID     string `url:"client_id"`
	ClientSecret string `url:"client_secret"`
	Code         string `url:"code"`
	GrantType    string `url:"grant_type"`
	RedirectURI  string `url:"redirect_uri"`
}

// tokenGrantParams is the query of the long-lived exchange and the refresh.
type tokenGrantParams struct {
	ClientSecret string `url:"client_secret"`
	AccessToken  string `url:"access_token"`
	GrantType    string `url:"grant_type"`
}

// OAuthHelper implements instagram.OAuthHelper.
type OAuthHelper struct {
	api          Requester
	oauthBaseURL string
}

// NewOAuthHelper creates a helper that issues its requests through api.
func NewOAuthHelper(api Requester) *OAuthHelper {
	return &OAuthHelper{
		api:          api,
		oauthBaseURL: constants.OAuthBaseURL,
	}
}

// LoginURL implements instagram.OAuthHelper.LoginURL. Parameters keep a fixed
// order: client_id, redirect_uri, scope, response_type, state.
func (h *OAuthHelper) LoginURL(scopes []string, redirectURI string, state *string) string {
	credentials := h.api.AppCredentials()

	pairs := [][2]string{
		{constants.ParamClientID, credentials.ClientID},
		{constants.ParamRedirectURI, redirectURI},
		{constants.ParamScope, strings.Join(scopes, ",")},
		{constants.ParamResponseType, constants.ResponseTypeCode},
	}

	if state != nil {
		pairs = append(pairs, [2]string{constants.ParamState, *state})
	}

	encoded := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		encoded = append(encoded, formEscape(pair[0])+"="+formEscape(pair[1]))
	}

	return constants.AuthorizeURL + "?" + strings.Join(encoded, "&")
}

// formEscape applies RFC 1738 form encoding: spaces become "+" and every
// character outside [A-Za-z0-9._-] is percent-encoded, "~" included.
func formEscape(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "~", "%7E")
}

// ShortLivedAccessToken implements instagram.OAuthHelper.ShortLivedAccessToken.
func (h *OAuthHelper) ShortLivedAccessToken(ctx context.Context, code, redirectURI string) (*instagram.Response, error) {
	credentials := h.api.AppCredentials()

	form, err := query.Values(codeExchangeForm{
		ClientID:     credentials.ClientID,
		ClientSecret: credentials.ClientSecret,
		Code:         code,
		GrantType:    constants.GrantTypeAuthorizationCode,
		RedirectURI:  redirectURI,
	})
	if err != nil {
		return nil, instagram.MapError(fmt.Errorf("encoding code exchange form: %w", err))
	}

	return h.api.SendRequest(ctx, http.MethodPost, constants.ShortLivedTokenEndpoint,
		instagram.RequestOptions{Form: form}, instagram.NoVersion(), instagram.BaseURL(h.oauthBaseURL))
}

// LongLivedAccessToken implements instagram.OAuthHelper.LongLivedAccessToken.
func (h *OAuthHelper) LongLivedAccessToken(ctx context.Context, shortLivedToken string) (*instagram.Response, error) {
	return h.grant(ctx, constants.LongLivedTokenEndpoint, shortLivedToken, constants.GrantTypeExchangeToken)
}

// RefreshLongLivedAccessToken implements instagram.OAuthHelper.RefreshLongLivedAccessToken.
func (h *OAuthHelper) RefreshLongLivedAccessToken(ctx context.Context, longLivedToken string) (*instagram.Response, error) {
	return h.grant(ctx, constants.RefreshTokenEndpoint, longLivedToken, constants.GrantTypeRefreshToken)
}

// ExchangeCode implements instagram.OAuthHelper.ExchangeCode.
func (h *OAuthHelper) ExchangeCode(ctx context.Context, code, redirectURI string) (*instagram.ShortLivedToken, error) {
	resp, err := h.ShortLivedAccessToken(ctx, code, redirectURI)
	if err != nil {
		return nil, err
	}

	var token instagram.ShortLivedToken

	err = resp.Decode(&token)
	if err != nil {
		return nil, instagram.MapError(fmt.Errorf("parsing short-lived token: %w", err))
	}

	return &token, nil
}

// ExchangeToken implements instagram.OAuthHelper.ExchangeToken.
func (h *OAuthHelper) ExchangeToken(ctx context.Context, shortLivedToken string) (*instagram.LongLivedToken, error) {
	resp, err := h.LongLivedAccessToken(ctx, shortLivedToken)
	if err != nil {
		return nil, err
	}

	return decodeLongLived(resp)
}

// RefreshToken implements instagram.OAuthHelper.RefreshToken.
func (h *OAuthHelper) RefreshToken(ctx context.Context, longLivedToken string) (*instagram.LongLivedToken, error) {
	resp, err := h.RefreshLongLivedAccessToken(ctx, longLivedToken)
	if err != nil {
		return nil, err
	}

	return decodeLongLived(resp)
}

func (h *OAuthHelper) grant(ctx context.Context, endpoint, accessToken, grantType string) (*instagram.Response, error) {
	values, err := query.Values(tokenGrantParams{
		ClientSecret: h.api.AppCredentials().ClientSecret,
		AccessToken:  accessToken,
		GrantType:    grantType,
	})
	if err != nil {
		return nil, instagram.MapError(fmt.Errorf("encoding %s parameters: %w", grantType, err))
	}

	params := make(map[string]any, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}

	return h.api.Get(ctx, endpoint, params, instagram.NoVersion())
}

func decodeLongLived(resp *instagram.Response) (*instagram.LongLivedToken, error) {
	var token instagram.LongLivedToken

	err := resp.Decode(&token)
	if err != nil {
		return nil, instagram.MapError(fmt.Errorf("parsing long-lived token: %w", err))
	}

	return &token, nil
}
