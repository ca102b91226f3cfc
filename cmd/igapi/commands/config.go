package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fivetwenty-io/instagram-client/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration keys, shared by viper, the config file and `config set`.
const (
	KeyClientID       = "client_id"
	KeyClientSecret   = "client_secret"
	KeyToken          = "token"
	KeyTokenExpiresAt = "token_expires_at"
	KeyUserID         = "user_id"
	KeyAPIVersion     = "api_version"
	KeyBaseURL        = "base_url"
	KeyOutput         = "output"
)

// ConfigDirName is the directory under $HOME holding config.yml.
const ConfigDirName = ".igapi"

// Config represents the CLI configuration.
type Config struct {
	ClientID       string     `json:"client_id,omitempty"        yaml:"client_id,omitempty"`
	ClientSecret   string     `json:"client_secret,omitempty"    yaml:"client_secret,omitempty"`
	Token          string     `json:"token,omitempty"            yaml:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	UserID         string     `json:"user_id,omitempty"          yaml:"user_id,omitempty"`
	APIVersion     string     `json:"api_version,omitempty"      yaml:"api_version,omitempty"`
	BaseURL        string     `json:"base_url,omitempty"         yaml:"base_url,omitempty"`
	Output         string     `json:"output,omitempty"           yaml:"output,omitempty"`
}

// settableKeys maps each key `config set` accepts to its field.
func settableKeys(config *Config) map[string]*string {
	return map[string]*string{
		KeyClientID:     &config.ClientID,
		KeyClientSecret: &config.ClientSecret,
		KeyToken:        &config.Token,
		KeyUserID:       &config.UserID,
		KeyAPIVersion:   &config.APIVersion,
		KeyBaseURL:      &config.BaseURL,
		KeyOutput:       &config.Output,
	}
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in ~/.igapi/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskedConfig(loadConfig())
			out := cmd.OutOrStdout()

			switch viper.GetString("output") {
			case OutputFormatJSON:
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")

				return encoder.Encode(config)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(out)

				return encoder.Encode(config)
			default:
				return displayConfigTable(out, config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: client_id, client_secret, token, user_id, api_version, base_url, output",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := unsetConfigValue(config, args[0])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

// loadConfig reads the configuration from viper, which merges the config
// file, IGAPI_ environment variables and bound flags.
func loadConfig() *Config {
	config := &Config{
		ClientID:     viper.GetString(KeyClientID),
		ClientSecret: viper.GetString(KeyClientSecret),
		Token:        viper.GetString(KeyToken),
		UserID:       viper.GetString(KeyUserID),
		APIVersion:   viper.GetString(KeyAPIVersion),
		BaseURL:      viper.GetString(KeyBaseURL),
		Output:       viper.GetString(KeyOutput),
	}

	if viper.IsSet(KeyTokenExpiresAt) {
		expiresAt := viper.GetTime(KeyTokenExpiresAt)
		if !expiresAt.IsZero() {
			config.TokenExpiresAt = &expiresAt
		}
	}

	return config
}

func setConfigValue(config *Config, key, value string) error {
	field, ok := settableKeys(config)[key]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	*field = value
	viper.Set(key, value)

	return nil
}

func unsetConfigValue(config *Config, key string) error {
	if key == KeyTokenExpiresAt {
		config.TokenExpiresAt = nil
		viper.Set(key, nil)

		return nil
	}

	field, ok := settableKeys(config)[key]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	*field = ""
	viper.Set(key, "")

	if key == KeyToken {
		config.TokenExpiresAt = nil
		viper.Set(KeyTokenExpiresAt, nil)
	}

	return nil
}

// configFilePath returns the file in use, or ~/.igapi/config.yml.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ConfigDirName, "config.yml"), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func maskedConfig(config *Config) *Config {
	masked := *config

	if masked.ClientSecret != "" {
		masked.ClientSecret = constants.Masked
	}

	if masked.Token != "" {
		masked.Token = constants.Masked
	}

	return &masked
}

func displayConfigTable(out io.Writer, config *Config) error {
	rows := map[string]string{}
	for key, field := range settableKeys(config) {
		if *field != "" {
			rows[key] = *field
		}
	}

	if config.TokenExpiresAt != nil {
		rows[KeyTokenExpiresAt] = config.TokenExpiresAt.Format(time.RFC3339)
	}

	keys := make([]string, 0, len(rows))
	for key := range rows {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	for _, key := range keys {
		_ = table.Append(key, rows[key])
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
