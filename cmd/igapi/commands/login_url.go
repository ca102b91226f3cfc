package commands

import (
	"fmt"

	"github.com/fivetwenty-io/instagram-client/internal/constants"
	"github.com/fivetwenty-io/instagram-client/pkg/igclient"
	"github.com/spf13/cobra"
)

// NewLoginURLCommand creates the login-url command.
func NewLoginURLCommand() *cobra.Command {
	var (
		scopes      []string
		redirectURI string
		state       string
	)

	cmd := &cobra.Command{
		Use:   "login-url",
		Short: "Print the Instagram authorization URL",
		Long:  "Build the URL that sends a user to the Instagram login dialog for this app",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(scopes) == 0 {
				return constants.ErrScopeRequired
			}

			if redirectURI == "" {
				return constants.ErrRedirectURIRequired
			}

			client, err := newClient(loadConfig())
			if err != nil {
				return err
			}

			helper, err := igclient.NewOAuthHelper(client)
			if err != nil {
				return err
			}

			var statePtr *string
			if cmd.Flags().Changed("state") {
				statePtr = &state
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), helper.LoginURL(scopes, redirectURI, statePtr))

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&scopes, "scope", nil, "permission to request (repeatable)")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "URI the login dialog redirects back to")
	cmd.Flags().StringVar(&state, "state", "", "opaque value returned with the redirect")

	return cmd
}
