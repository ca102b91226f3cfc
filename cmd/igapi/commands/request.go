package commands

import (
	"context"

	"github.com/fivetwenty-io/instagram-client/internal/constants"
	"github.com/fivetwenty-io/instagram-client/pkg/instagram"
	"github.com/spf13/cobra"
)

type requestCall func(instagram.Client, context.Context, string, map[string]any, *string) (*instagram.Response, error)

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	return newRequestCommand("get", "Send a GET request to the Graph API",
		"Send a GET request. The access token is added to the query string.",
		instagram.Client.Get)
}

// NewPostCommand creates the post command.
func NewPostCommand() *cobra.Command {
	return newRequestCommand("post", "Send a POST request to the Graph API",
		"Send a POST request. Parameters and the access token form the JSON body.",
		instagram.Client.Post)
}

func newRequestCommand(use, short, long string, call requestCall) *cobra.Command {
	var (
		params     []string
		apiVersion string
	)

	cmd := &cobra.Command{
		Use:     use + " ENDPOINT",
		Short:   short,
		Long:    long,
		Example: "  igapi " + use + " me -p fields=id,username",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseParams(params)
			if err != nil {
				return err
			}

			config := loadConfig()
			if config.Token == "" {
				return constants.ErrNoAccessToken
			}

			client, err := newClient(config)
			if err != nil {
				return err
			}

			var versionCode *string
			if cmd.Flags().Changed("api-version") {
				versionCode = instagram.Version(apiVersion)
			}

			resp, err := call(client, cmd.Context(), args[0], parsed, versionCode)
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), resp.Data)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "request parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&apiVersion, "api-version", "", "Graph API version for this request, empty for none")

	return cmd
}
