package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fivetwenty-io/instagram-client/internal/constants"
	"github.com/fivetwenty-io/instagram-client/pkg/igclient"
	"github.com/fivetwenty-io/instagram-client/pkg/instagram"
	"github.com/spf13/cobra"
)

// TokenInfo is the printed result of the token commands.
type TokenInfo struct {
	AccessToken string     `json:"access_token"          yaml:"access_token"`
	TokenType   string     `json:"token_type,omitempty"  yaml:"token_type,omitempty"`
	UserID      string     `json:"user_id,omitempty"     yaml:"user_id,omitempty"`
	Permissions []string   `json:"permissions,omitempty" yaml:"permissions,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"  yaml:"expires_at,omitempty"`
}

// NewTokenCommand creates the token command group.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Obtain and refresh access tokens",
		Long:  "Exchange authorization codes for tokens and manage long-lived tokens",
	}

	cmd.AddCommand(newTokenExchangeCommand())
	cmd.AddCommand(newTokenLongLivedCommand())
	cmd.AddCommand(newTokenRefreshCommand())

	return cmd
}

func newTokenExchangeCommand() *cobra.Command {
	var (
		code        string
		redirectURI string
		save        bool
	)

	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Exchange an authorization code for a short-lived token",
		Long:  "Exchange the code returned by the login dialog for a short-lived access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if code == "" {
				return constants.ErrCodeRequired
			}

			if redirectURI == "" {
				return constants.ErrRedirectURIRequired
			}

			config := loadConfig()

			helper, err := newOAuthHelper(config)
			if err != nil {
				return err
			}

			token, err := helper.ExchangeCode(cmd.Context(), code, redirectURI)
			if err != nil {
				return fmt.Errorf("failed to exchange code: %w", err)
			}

			info := TokenInfo{
				AccessToken: token.AccessToken,
				UserID:      token.UserID.String(),
				Permissions: token.Permissions,
			}

			if save {
				config.Token = info.AccessToken
				config.UserID = info.UserID
				config.TokenExpiresAt = nil

				err = saveConfigStruct(config)
				if err != nil {
					return err
				}
			}

			return writeOutput(cmd.OutOrStdout(), info)
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "authorization code from the redirect")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "redirect URI used for the login dialog")
	cmd.Flags().BoolVar(&save, "save", false, "store the token in the config file")

	return cmd
}

func newTokenLongLivedCommand() *cobra.Command {
	return newLongLivedTokenCommand(
		"long-lived",
		"Exchange a short-lived token for a long-lived one",
		"Exchange the configured (or --token) short-lived token for a 60-day token",
		instagram.OAuthHelper.ExchangeToken,
	)
}

func newTokenRefreshCommand() *cobra.Command {
	return newLongLivedTokenCommand(
		"refresh",
		"Refresh a long-lived token",
		"Extend the lifetime of the configured (or --token) long-lived token",
		instagram.OAuthHelper.RefreshToken,
	)
}

type longLivedCall func(instagram.OAuthHelper, context.Context, string) (*instagram.LongLivedToken, error)

func newLongLivedTokenCommand(use, short, long string, call longLivedCall) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.Token == "" {
				return constants.ErrNoAccessToken
			}

			helper, err := newOAuthHelper(config)
			if err != nil {
				return err
			}

			issued := time.Now()

			token, err := call(helper, cmd.Context(), config.Token)
			if err != nil {
				return fmt.Errorf("token %s request failed: %w", use, err)
			}

			expiresAt := token.ExpiresAt(issued)
			info := TokenInfo{
				AccessToken: token.AccessToken,
				TokenType:   token.TokenType,
				ExpiresAt:   &expiresAt,
			}

			if save {
				config.Token = info.AccessToken
				config.TokenExpiresAt = &expiresAt

				err = saveConfigStruct(config)
				if err != nil {
					return err
				}
			}

			return writeOutput(cmd.OutOrStdout(), info)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store the token in the config file")

	return cmd
}

func newOAuthHelper(config *Config) (instagram.OAuthHelper, error) {
	err := requireClientSecret(config)
	if err != nil {
		return nil, err
	}

	client, err := newClient(config)
	if err != nil {
		return nil, err
	}

	return igclient.NewOAuthHelper(client)
}
