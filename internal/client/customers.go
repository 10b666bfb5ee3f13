package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	internalhttp "github.com/billyhq/billy-go/internal/http"
	"github.com/billyhq/billy-go/pkg/billy"
)

// CustomersClient implements billy.CustomersClient.
type CustomersClient struct {
	httpClient *internalhttp.Client
}

// NewCustomersClient creates a new customers client.
func NewCustomersClient(httpClient *internalhttp.Client) *CustomersClient {
	return &CustomersClient{httpClient: httpClient}
}

// Create creates a customer. A nil request or nil ExternalID submits no
// external_id field at all, which the server treats differently from an
// empty one.
func (c *CustomersClient) Create(ctx context.Context, request *billy.CustomerCreateRequest) (*billy.Customer, error) {
	form := url.Values{}

	if request != nil && request.ExternalID != nil {
		form.Set("external_id", *request.ExternalID)
	}

	resp, err := c.httpClient.PostForm(ctx, "create_customer", "/v1/customers", form)
	if err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}

	var customer billy.Customer

	err = json.Unmarshal(resp.Body, &customer)
	if err != nil {
		return nil, fmt.Errorf("parsing customer response: %w", err)
	}

	return &customer, nil
}

// Get retrieves a customer by GUID.
func (c *CustomersClient) Get(ctx context.Context, guid string) (*billy.Customer, error) {
	resp, err := c.httpClient.Get(ctx, "get_customer", "/v1/customers/"+guid, nil)
	if err != nil {
		return nil, fmt.Errorf("getting customer: %w", err)
	}

	var customer billy.Customer

	err = json.Unmarshal(resp.Body, &customer)
	if err != nil {
		return nil, fmt.Errorf("parsing customer response: %w", err)
	}

	return &customer, nil
}

// List fetches every customer, walking all pages eagerly.
func (c *CustomersClient) List(ctx context.Context) ([]billy.Customer, error) {
	return billy.NewPageIterator(ctx, listPage[billy.Customer](c.httpClient, "list_customers", "/v1/customers")).All()
}

// listPage builds a page fetcher for a listing endpoint. The first request
// carries no query parameters so the server applies its default window.
func listPage[T any](httpClient *internalhttp.Client, op, path string) billy.PageFetcher[T] {
	return func(ctx context.Context, params *billy.ListParams) (*billy.Page[T], error) {
		var query url.Values
		if params != nil {
			query = params.ToValues()
		}

		resp, err := httpClient.Get(ctx, op, path, query)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", path, err)
		}

		var page billy.Page[T]

		err = json.Unmarshal(resp.Body, &page)
		if err != nil {
			return nil, fmt.Errorf("parsing list response: %w", err)
		}

		return &page, nil
	}
}
