package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	internalhttp "github.com/billyhq/billy-go/internal/http"
	"github.com/billyhq/billy-go/pkg/billy"
)

// PlansClient implements billy.PlansClient.
type PlansClient struct {
	httpClient *internalhttp.Client
}

// NewPlansClient creates a new plans client.
func NewPlansClient(httpClient *internalhttp.Client) *PlansClient {
	return &PlansClient{httpClient: httpClient}
}

// Create creates a recurring plan. A zero Interval is submitted as 1.
func (c *PlansClient) Create(ctx context.Context, request *billy.PlanCreateRequest) (*billy.Plan, error) {
	interval := request.Interval
	if interval == 0 {
		interval = 1
	}

	form := url.Values{}
	form.Set("plan_type", string(request.PlanType))
	form.Set("frequency", string(request.Frequency))
	form.Set("amount", strconv.Itoa(request.Amount))
	form.Set("interval", strconv.Itoa(interval))

	resp, err := c.httpClient.PostForm(ctx, "create_plan", "/v1/plans", form)
	if err != nil {
		return nil, fmt.Errorf("creating plan: %w", err)
	}

	var plan billy.Plan

	err = json.Unmarshal(resp.Body, &plan)
	if err != nil {
		return nil, fmt.Errorf("parsing plan response: %w", err)
	}

	return &plan, nil
}

// Get retrieves a plan by GUID.
func (c *PlansClient) Get(ctx context.Context, guid string) (*billy.Plan, error) {
	resp, err := c.httpClient.Get(ctx, "get_plan", "/v1/plans/"+guid, nil)
	if err != nil {
		return nil, fmt.Errorf("getting plan: %w", err)
	}

	var plan billy.Plan

	err = json.Unmarshal(resp.Body, &plan)
	if err != nil {
		return nil, fmt.Errorf("parsing plan response: %w", err)
	}

	return &plan, nil
}

// List fetches every plan, walking all pages eagerly.
func (c *PlansClient) List(ctx context.Context) ([]billy.Plan, error) {
	return billy.NewPageIterator(ctx, listPage[billy.Plan](c.httpClient, "list_plans", "/v1/plans")).All()
}

// Subscribe subscribes a customer to the plan. Optional fields with nil
// pointers are omitted from the request body; StartedAt is serialized as
// RFC 3339.
func (c *PlansClient) Subscribe(ctx context.Context, planGUID string, request *billy.SubscribeRequest) (*billy.Subscription, error) {
	form := url.Values{}
	form.Set("plan_guid", planGUID)
	form.Set("customer_guid", request.CustomerGUID)

	if request.PaymentURI != nil {
		form.Set("payment_uri", *request.PaymentURI)
	}

	if request.Amount != nil {
		form.Set("amount", strconv.Itoa(*request.Amount))
	}

	if request.StartedAt != nil {
		form.Set("started_at", request.StartedAt.Format(time.RFC3339))
	}

	resp, err := c.httpClient.PostForm(ctx, "subscribe", "/v1/subscriptions", form)
	if err != nil {
		return nil, fmt.Errorf("subscribing to plan: %w", err)
	}

	var subscription billy.Subscription

	err = json.Unmarshal(resp.Body, &subscription)
	if err != nil {
		return nil, fmt.Errorf("parsing subscription response: %w", err)
	}

	return &subscription, nil
}
