package igclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/instagram-client/internal/auth"
	"github.com/fivetwenty-io/instagram-client/internal/client"
	"github.com/fivetwenty-io/instagram-client/pkg/instagram"
)

// New creates a new Instagram Graph API client.
func New(config *instagram.Config) (instagram.Client, error) {
	if config == nil {
		return nil, instagram.ErrConfigRequired
	}

	if config.ClientID == "" {
		return nil, instagram.ErrClientIDRequired
	}

	normalized := *config

	if normalized.BaseURL != "" {
		baseURL, err := normalizeBaseURL(normalized.BaseURL)
		if err != nil {
			return nil, err
		}

		normalized.BaseURL = baseURL
	}

	c, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewOAuthHelper creates an OAuth helper that sends its requests through c.
func NewOAuthHelper(c instagram.Client) (instagram.OAuthHelper, error) {
	if c == nil {
		return nil, instagram.ErrNilClient
	}

	return auth.NewOAuthHelper(c), nil
}

// normalizeBaseURL trims a trailing slash and adds https:// when no scheme is present.
func normalizeBaseURL(baseURL string) (string, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("%w: %q", instagram.ErrInvalidBaseURL, baseURL)
	}

	return baseURL, nil
}
