// Package client implements the Billy API client against the HTTP transport.
package client

import (
	"fmt"

	internalhttp "github.com/billyhq/billy-go/internal/http"
	"github.com/billyhq/billy-go/pkg/billy"
)

// Client implements the billy.Client interface.
type Client struct {
	httpClient *internalhttp.Client

	companies     *CompaniesClient
	customers     *CustomersClient
	plans         *PlansClient
	subscriptions *SubscriptionsClient
}

// New creates a new Billy API client. The endpoint in config must already be
// normalized (the billyclient package takes care of that).
func New(config *billy.Config) (*Client, error) {
	if config == nil {
		return nil, billy.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, billy.ErrEndpointRequired
	}

	httpOptions := []internalhttp.Option{}

	if config.Logger != nil {
		httpOptions = append(httpOptions, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOptions = append(httpOptions, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOptions = append(httpOptions, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOptions = append(httpOptions, internalhttp.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		httpOptions = append(httpOptions, internalhttp.WithRetryConfig(
			config.RetryMax,
			config.RetryWaitMin,
			config.RetryWaitMax,
		))
	}

	if config.Interceptors != nil {
		httpOptions = append(httpOptions, internalhttp.WithInterceptors(config.Interceptors))
	}

	if config.Cache != nil && config.Cache.Type != billy.CacheTypeNone {
		backend, err := billy.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("creating cache: %w", err)
		}

		manager := billy.NewCacheManager(backend, config.Cache.Options)
		httpOptions = append(httpOptions, internalhttp.WithCache(manager, billy.DefaultCachingPolicy()))
	}

	httpClient := internalhttp.NewClient(config.Endpoint, config.APIKey, httpOptions...)

	client := &Client{
		httpClient: httpClient,
	}

	client.companies = NewCompaniesClient(httpClient)
	client.customers = NewCustomersClient(httpClient)
	client.plans = NewPlansClient(httpClient)
	client.subscriptions = NewSubscriptionsClient(httpClient)

	return client, nil
}

// Companies returns the companies client.
func (c *Client) Companies() billy.CompaniesClient {
	return c.companies
}

// Customers returns the customers client.
func (c *Client) Customers() billy.CustomersClient {
	return c.customers
}

// Plans returns the plans client.
func (c *Client) Plans() billy.PlansClient {
	return c.plans
}

// Subscriptions returns the subscriptions client.
func (c *Client) Subscriptions() billy.SubscriptionsClient {
	return c.subscriptions
}

// APIKey returns the active credential.
func (c *Client) APIKey() string {
	return c.httpClient.APIKey()
}

// SetAPIKey replaces the active credential.
func (c *Client) SetAPIKey(key string) {
	c.httpClient.SetAPIKey(key)
}
