package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	internalhttp "github.com/billyhq/billy-go/internal/http"
	"github.com/billyhq/billy-go/pkg/billy"
)

// CompaniesClient implements billy.CompaniesClient.
type CompaniesClient struct {
	httpClient *internalhttp.Client
}

// NewCompaniesClient creates a new companies client.
func NewCompaniesClient(httpClient *internalhttp.Client) *CompaniesClient {
	return &CompaniesClient{httpClient: httpClient}
}

// Create registers a company with the payment processor key. The request is
// the one unauthenticated call in the API; on success the processor key
// becomes the client's active credential.
func (c *CompaniesClient) Create(ctx context.Context, processorKey string) (*billy.Company, error) {
	form := url.Values{}
	form.Set("processor_key", processorKey)

	resp, err := c.httpClient.PostFormUnauthenticated(ctx, "create_company", "/v1/companies", form)
	if err != nil {
		return nil, fmt.Errorf("creating company: %w", err)
	}

	var company billy.Company

	err = json.Unmarshal(resp.Body, &company)
	if err != nil {
		return nil, fmt.Errorf("parsing company response: %w", err)
	}

	c.httpClient.SetAPIKey(processorKey)

	return &company, nil
}

// Get retrieves a company by GUID.
func (c *CompaniesClient) Get(ctx context.Context, guid string) (*billy.Company, error) {
	resp, err := c.httpClient.Get(ctx, "get_company", "/v1/companies/"+guid, nil)
	if err != nil {
		return nil, fmt.Errorf("getting company: %w", err)
	}

	var company billy.Company

	err = json.Unmarshal(resp.Body, &company)
	if err != nil {
		return nil, fmt.Errorf("parsing company response: %w", err)
	}

	return &company, nil
}
