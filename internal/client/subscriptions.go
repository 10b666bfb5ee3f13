package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	internalhttp "github.com/billyhq/billy-go/internal/http"
	"github.com/billyhq/billy-go/pkg/billy"
)

// SubscriptionsClient implements billy.SubscriptionsClient.
type SubscriptionsClient struct {
	httpClient *internalhttp.Client
}

// NewSubscriptionsClient creates a new subscriptions client.
func NewSubscriptionsClient(httpClient *internalhttp.Client) *SubscriptionsClient {
	return &SubscriptionsClient{httpClient: httpClient}
}

// Get retrieves a subscription by GUID.
func (c *SubscriptionsClient) Get(ctx context.Context, guid string) (*billy.Subscription, error) {
	resp, err := c.httpClient.Get(ctx, "get_subscription", "/v1/subscriptions/"+guid, nil)
	if err != nil {
		return nil, fmt.Errorf("getting subscription: %w", err)
	}

	var subscription billy.Subscription

	err = json.Unmarshal(resp.Body, &subscription)
	if err != nil {
		return nil, fmt.Errorf("parsing subscription response: %w", err)
	}

	return &subscription, nil
}

// List fetches every subscription, walking all pages eagerly.
func (c *SubscriptionsClient) List(ctx context.Context) ([]billy.Subscription, error) {
	return billy.NewPageIterator(ctx, listPage[billy.Subscription](c.httpClient, "list_subscriptions", "/v1/subscriptions")).All()
}

// Cancel cancels a subscription and returns the refreshed snapshot. A nil
// request cancels without refund fields. ProratedRefund is submitted as "1"
// only when true; RefundAmount only when set and non-zero.
func (c *SubscriptionsClient) Cancel(ctx context.Context, guid string, request *billy.CancelRequest) (*billy.Subscription, error) {
	form := url.Values{}

	if request != nil {
		if request.ProratedRefund {
			form.Set("prorated_refund", "1")
		}

		if request.RefundAmount != nil && *request.RefundAmount != 0 {
			form.Set("refund_amount", strconv.Itoa(*request.RefundAmount))
		}
	}

	resp, err := c.httpClient.PostForm(ctx, "unsubscribe", "/v1/subscriptions/"+guid+"/cancel", form)
	if err != nil {
		return nil, fmt.Errorf("canceling subscription: %w", err)
	}

	var subscription billy.Subscription

	err = json.Unmarshal(resp.Body, &subscription)
	if err != nil {
		return nil, fmt.Errorf("parsing subscription response: %w", err)
	}

	return &subscription, nil
}
