// Package billyclient provides the main entry point for creating Billy API clients
package billyclient

import (
	"fmt"
	"strings"

	"github.com/billyhq/billy-go/internal/client"
	"github.com/billyhq/billy-go/internal/constants"
	"github.com/billyhq/billy-go/pkg/billy"
)

// New creates a new Billy API client.
func New(config *billy.Config) (billy.Client, error) {
	if config == nil {
		return nil, billy.ErrConfigRequired
	}

	// Normalize endpoint
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = constants.DefaultEndpoint
	}

	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	config.Endpoint = endpoint

	// Use the internal client implementation
	billyClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return billyClient, nil
}

// NewWithAPIKey creates a new client for the production endpoint with the
// given API key.
func NewWithAPIKey(apiKey string) (billy.Client, error) {
	return New(&billy.Config{
		APIKey: apiKey,
	})
}

// NewWithEndpoint creates a new client against a specific endpoint with no
// credential. The usual next step is Companies().Create, which installs the
// processor key as the credential.
func NewWithEndpoint(endpoint string) (billy.Client, error) {
	return New(&billy.Config{
		Endpoint: endpoint,
	})
}
