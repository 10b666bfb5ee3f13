package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billyhq/billy-go/pkg/billy"
)

func TestSubscriptionsGet(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/subscriptions/SUMOCK", request.URL.Path)
		assert.Equal(t, "GET", request.Method)
		RequireBasicAuth(t, request, "MOCK_API_KEY")

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{
			"guid": "SUMOCK",
			"plan_guid": "PLMOCK",
			"customer_guid": "CUMOCK",
			"period": 2,
			"next_transaction_at": "2013-10-03T12:00:00Z"
		}`))
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL, "MOCK_API_KEY")

	subscription, err := client.Subscriptions().Get(context.Background(), "SUMOCK")
	require.NoError(t, err)
	assert.Equal(t, "PLMOCK", subscription.PlanGUID)
	assert.Equal(t, 2, subscription.Period)
	assert.False(t, subscription.Canceled)
	assert.False(t, subscription.NextTransactionAt.IsZero())
}

func TestSubscriptionsList(t *testing.T) {
	t.Parallel()

	var requestCount int

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestCount++

		assert.Equal(t, "/v1/subscriptions", request.URL.Path)
		writer.Header().Set("Content-Type", "application/json")

		if requestCount == 1 {
			_, _ = writer.Write([]byte(`{"offset": 0, "limit": 20, "items": [{"guid": "SU1"}]}`))

			return
		}

		_, _ = writer.Write([]byte(`{"offset": 20, "limit": 20, "items": []}`))
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL, "MOCK_API_KEY")

	subscriptions, err := client.Subscriptions().List(context.Background())
	require.NoError(t, err)
	require.Len(t, subscriptions, 1)
	assert.Equal(t, "SU1", subscriptions[0].GUID)
}

func TestSubscriptionsCancel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/subscriptions/SUMOCK/cancel", request.URL.Path)
		assert.Equal(t, "POST", request.Method)

		require.NoError(t, request.ParseForm())

		// A plain cancel sends neither refund field.
		_, hasProrated := request.PostForm["prorated_refund"]
		assert.False(t, hasProrated)
		_, hasRefund := request.PostForm["refund_amount"]
		assert.False(t, hasRefund)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"guid": "SUMOCK", "canceled": true, "canceled_at": "2013-10-04T12:00:00Z"}`))
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL, "MOCK_API_KEY")

	subscription, err := client.Subscriptions().Cancel(context.Background(), "SUMOCK", nil)
	require.NoError(t, err)
	assert.True(t, subscription.Canceled)
	assert.False(t, subscription.CanceledAt.IsZero())
}

func TestSubscriptionsCancelProratedRefund(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, request.ParseForm())
		assert.Equal(t, "1", request.PostForm.Get("prorated_refund"))

		_, hasRefund := request.PostForm["refund_amount"]
		assert.False(t, hasRefund)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"guid": "SUMOCK", "canceled": true}`))
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL, "MOCK_API_KEY")

	_, err := client.Subscriptions().Cancel(context.Background(), "SUMOCK", &billy.CancelRequest{
		ProratedRefund: true,
	})
	require.NoError(t, err)
}

func TestSubscriptionsCancelRefundAmount(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, request.ParseForm())
		assert.Equal(t, "250", request.PostForm.Get("refund_amount"))

		_, hasProrated := request.PostForm["prorated_refund"]
		assert.False(t, hasProrated)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"guid": "SUMOCK", "canceled": true}`))
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL, "MOCK_API_KEY")

	_, err := client.Subscriptions().Cancel(context.Background(), "SUMOCK", &billy.CancelRequest{
		RefundAmount: IntPtr(250),
	})
	require.NoError(t, err)
}

func TestSubscriptionsCancelZeroRefundAmountOmitted(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, request.ParseForm())

		// Zero is treated as "no refund", matching the omission rule.
		_, hasRefund := request.PostForm["refund_amount"]
		assert.False(t, hasRefund)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"guid": "SUMOCK", "canceled": true}`))
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL, "MOCK_API_KEY")

	_, err := client.Subscriptions().Cancel(context.Background(), "SUMOCK", &billy.CancelRequest{
		RefundAmount: IntPtr(0),
	})
	require.NoError(t, err)
}

func TestSubscriptionsGetAfterCancelReflectsCancellation(t *testing.T) {
	t.Parallel()

	var (
		canceled bool
		getCount int
	)

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")

		if request.Method == http.MethodPost {
			canceled = true
			_, _ = writer.Write([]byte(`{"guid": "SUMOCK", "canceled": true}`))

			return
		}

		getCount++

		if canceled {
			_, _ = writer.Write([]byte(`{"guid": "SUMOCK", "canceled": true}`))

			return
		}

		_, _ = writer.Write([]byte(`{"guid": "SUMOCK", "canceled": false}`))
	}))
	defer server.Close()

	client, err := New(&billy.Config{
		Endpoint: server.URL,
		APIKey:   "MOCK_API_KEY",
		Cache: &billy.CacheConfig{
			Type:   billy.CacheTypeMemory,
			Memory: &billy.MemoryCacheConfig{MaxSize: 10},
		},
	})
	require.NoError(t, err)

	ctx := context.Background()

	before, err := client.Subscriptions().Get(ctx, "SUMOCK")
	require.NoError(t, err)
	assert.False(t, before.Canceled)

	_, err = client.Subscriptions().Cancel(ctx, "SUMOCK", nil)
	require.NoError(t, err)

	// The cancel invalidates the cached snapshot, so the next read reaches
	// the server and reflects the cancellation.
	after, err := client.Subscriptions().Get(ctx, "SUMOCK")
	require.NoError(t, err)
	assert.True(t, after.Canceled)
	assert.Equal(t, 2, getCount)
}

func TestSubscriptionsGetNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte("no such subscription"))
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL, "MOCK_API_KEY")

	subscription, err := client.Subscriptions().Get(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Nil(t, subscription)
	assert.True(t, billy.IsNotFound(err))
	assert.Contains(t, err.Error(), "get_subscription")
}
