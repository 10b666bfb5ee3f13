package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/billyhq/billy-go/pkg/billy"
	"github.com/billyhq/billy-go/pkg/billyclient"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output format constants.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	// YAML formatting.
	defaultYAMLIndent = 2
)

// ErrAPIKeyRequired is returned when a command needs credentials and none
// were supplied via flag, environment, or config file.
var ErrAPIKeyRequired = errors.New("API key required, set --api-key, BILLY_API_KEY, or api-key in the config file")

// createClient builds a Billy client from the resolved configuration.
func createClient() (billy.Client, error) {
	apiKey := viper.GetString("api-key")
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	return createClientWithKey(apiKey)
}

// createUnauthenticatedClient builds a client without credentials. Company
// creation is the only operation that starts from a bare client.
func createUnauthenticatedClient() (billy.Client, error) {
	return createClientWithKey("")
}

func createClientWithKey(apiKey string) (billy.Client, error) {
	config := &billy.Config{
		Endpoint: viper.GetString("api"),
		APIKey:   apiKey,
		Debug:    viper.GetBool("verbose"),
	}

	if config.Debug {
		config.Logger = stderrLogger{}
	}

	client, err := billyclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// stderrLogger writes debug output to stderr so table and JSON output on
// stdout stays machine-readable.
type stderrLogger struct{}

func (stderrLogger) Debug(msg string, fields map[string]interface{}) { logLine("DEBUG", msg, fields) }
func (stderrLogger) Info(msg string, fields map[string]interface{})  { logLine("INFO", msg, fields) }
func (stderrLogger) Warn(msg string, fields map[string]interface{})  { logLine("WARN", msg, fields) }
func (stderrLogger) Error(msg string, fields map[string]interface{}) { logLine("ERROR", msg, fields) }

func logLine(level, msg string, fields map[string]interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s %v\n", level, msg, fields)
}

// StandardJSONRenderer encodes data as indented JSON on stdout.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer encodes data as YAML on stdout.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(defaultYAMLIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// promptForSecret reads a secret from the terminal without echoing it.
func promptForSecret(prompt string) (string, error) {
	_, err := fmt.Fprint(os.Stderr, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	secretBytes, err := term.ReadPassword(syscall.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	_, _ = os.Stderr.WriteString("\n") // Add newline after password input

	return string(secretBytes), nil
}

// formatTimestamp renders a resource timestamp for table output, blank when
// the server never set it.
func formatTimestamp(ts billy.Timestamp) string {
	if ts.IsZero() {
		return ""
	}

	return ts.Format("2006-01-02 15:04:05")
}

func formatBool(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}
