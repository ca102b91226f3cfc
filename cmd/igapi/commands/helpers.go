package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/instagram-client/internal/constants"
	"github.com/fivetwenty-io/instagram-client/pkg/igclient"
	"github.com/fivetwenty-io/instagram-client/pkg/instagram"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"
)

const keyValueParts = 2

// readSecret prompts on the terminal without echo. Tests replace it.
var readSecret = func(prompt string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", constants.ErrNoClientSecret
	}

	fmt.Fprint(os.Stderr, prompt)

	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("failed to read client secret: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}

// StderrLogger writes client log entries to stderr.
type StderrLogger struct {
	out     io.Writer
	verbose bool
}

// NewStderrLogger creates a logger; debug entries are dropped unless verbose is set.
func NewStderrLogger(verbose bool) *StderrLogger {
	return &StderrLogger{out: os.Stderr, verbose: verbose}
}

func (l *StderrLogger) Debug(msg string, fields map[string]interface{}) {
	if l.verbose {
		l.write("DEBUG", msg, fields)
	}
}

func (l *StderrLogger) Info(msg string, fields map[string]interface{}) {
	l.write("INFO", msg, fields)
}

func (l *StderrLogger) Warn(msg string, fields map[string]interface{}) {
	if l.verbose {
		l.write("WARN", msg, fields)
	}
}

func (l *StderrLogger) Error(msg string, fields map[string]interface{}) {
	l.write("ERROR", msg, fields)
}

func (l *StderrLogger) write(level, msg string, fields map[string]interface{}) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var line strings.Builder

	fmt.Fprintf(&line, "[%s] %s", level, msg)

	for _, key := range keys {
		fmt.Fprintf(&line, " %s=%v", key, fields[key])
	}

	fmt.Fprintln(l.out, line.String())
}

// newClient builds an API client from the CLI configuration.
func newClient(config *Config) (instagram.Client, error) {
	if config.ClientID == "" {
		return nil, constants.ErrNoClientID
	}

	verbose := viper.GetBool("verbose")

	client, err := igclient.New(&instagram.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		AccessToken:  config.Token,
		VersionCode:  config.APIVersion,
		BaseURL:      config.BaseURL,
		Debug:        verbose,
		Logger:       NewStderrLogger(verbose),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// requireClientSecret fills in the client secret from a prompt when the
// configuration does not carry one.
func requireClientSecret(config *Config) error {
	if config.ClientSecret != "" {
		return nil
	}

	secret, err := readSecret("Client secret: ")
	if err != nil {
		return err
	}

	if secret == "" {
		return constants.ErrNoClientSecret
	}

	config.ClientSecret = secret

	return nil
}

// parseParams turns repeated key=value flags into request parameters.
// Repeating a key collects its values into a list.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", keyValueParts)
		if len(parts) != keyValueParts || parts[0] == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidParamFormat, pair)
		}

		key, value := parts[0], parts[1]

		switch existing := params[key].(type) {
		case nil:
			params[key] = value
		case string:
			params[key] = []string{existing, value}
		case []string:
			params[key] = append(existing, value)
		}
	}

	return params, nil
}

// writeOutput renders v in the configured output format.
func writeOutput(out io.Writer, v any) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return encoder.Encode(v)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(out)

		return encoder.Encode(v)
	default:
		return writeTable(out, v)
	}
}

// writeTable renders objects as property/value rows. Anything that is not an
// object falls back to indented JSON.
func writeTable(out io.Writer, v any) error {
	rows, ok := toRows(v)
	if !ok {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return encoder.Encode(v)
	}

	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	for _, row := range rows {
		_ = table.Append(row[0], row[1])
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func toRows(v any) ([][2]string, bool) {
	var object map[string]any

	switch typed := v.(type) {
	case map[string]any:
		object = typed
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}

		decoder := json.NewDecoder(bytes.NewReader(raw))
		decoder.UseNumber()

		if decoder.Decode(&object) != nil {
			return nil, false
		}
	}

	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	rows := make([][2]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, [2]string{key, cellValue(object[key])})
	}

	return rows, true
}

func cellValue(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case json.Number:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		raw, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}

		return string(raw)
	}
}

// ErrorMessage renders err for the terminal, including the HTTP status of
// API errors.
func ErrorMessage(err error) string {
	apiErr, ok := instagram.AsError(err)
	if !ok || apiErr.Code == 0 {
		return "Error: " + err.Error()
	}

	return fmt.Sprintf("Error: %s [HTTP %d]", err.Error(), apiErr.Code)
}
