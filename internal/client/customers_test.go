package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billyhq/billy-go/pkg/billy"
)

func TestCustomersCreate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/customers", request.URL.Path)
		assert.Equal(t, "POST", request.Method)
		RequireBasicAuth(t, request, "MOCK_API_KEY")

		require.NoError(t, request.ParseForm())
		assert.Equal(t, "MOCK_EXTERNAL_ID", request.PostForm.Get("external_id"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"guid": "CUMOCK", "external_id": "MOCK_EXTERNAL_ID"}`))
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL, "MOCK_API_KEY")

	customer, err := client.Customers().Create(context.Background(), &billy.CustomerCreateRequest{
		ExternalID: StringPtr("MOCK_EXTERNAL_ID"),
	})
	require.NoError(t, err)
	assert.Equal(t, "CUMOCK", customer.GUID)
	assert.Equal(t, "MOCK_EXTERNAL_ID", customer.ExternalID)
}

func TestCustomersCreateWithoutExternalID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, request.ParseForm())

		// A nil ExternalID must omit the field entirely, not send it empty.
		_, present := request.PostForm["external_id"]
		assert.False(t, present)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"guid": "CUMOCK"}`))
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL, "MOCK_API_KEY")

	customer, err := client.Customers().Create(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "CUMOCK", customer.GUID)
}

func TestCustomersGet(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/customers/CUMOCK", request.URL.Path)
		assert.Equal(t, "GET", request.Method)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"guid": "CUMOCK", "company_guid": "CPMOCK", "deleted": false}`))
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL, "MOCK_API_KEY")

	customer, err := client.Customers().Get(context.Background(), "CUMOCK")
	require.NoError(t, err)
	assert.Equal(t, "CPMOCK", customer.CompanyGUID)
	assert.False(t, customer.Deleted)
}

func TestCustomersListWalksAllPages(t *testing.T) {
	t.Parallel()

	// Pages of 2, 2, 1 and then an empty page that terminates the walk.
	pages := [][]map[string]interface{}{
		{{"guid": "CU1"}, {"guid": "CU2"}},
		{{"guid": "CU3"}, {"guid": "CU4"}},
		{{"guid": "CU5"}},
		{},
	}

	var requests []string

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/customers", request.URL.Path)
		requests = append(requests, request.URL.RawQuery)

		index := len(requests) - 1
		require.Less(t, index, len(pages))

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"offset": index * 2,
			"limit":  2,
			"items":  pages[index],
		})
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL, "MOCK_API_KEY")

	customers, err := client.Customers().List(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 5)
	assert.Equal(t, "CU1", customers[0].GUID)
	assert.Equal(t, "CU5", customers[4].GUID)

	// First request lets the server pick the window; each follow-up window
	// comes from the previous response.
	require.Len(t, requests, 4)
	assert.Empty(t, requests[0])
	assert.Equal(t, "limit=2&offset=2", requests[1])
	assert.Equal(t, "limit=2&offset=4", requests[2])
	assert.Equal(t, "limit=2&offset=6", requests[3])
}

func TestCustomersListServerChangesLimit(t *testing.T) {
	t.Parallel()

	var requestCount int

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestCount++

		writer.Header().Set("Content-Type", "application/json")

		switch requestCount {
		case 1:
			// Server clamps the effective page size to 3.
			_, _ = writer.Write([]byte(`{"offset": 0, "limit": 3, "items": [{"guid": "CU1"}, {"guid": "CU2"}, {"guid": "CU3"}]}`))
		case 2:
			assert.Equal(t, "limit=3&offset=3", request.URL.RawQuery)
			_, _ = writer.Write([]byte(`{"offset": 3, "limit": 3, "items": []}`))
		default:
			t.Errorf("unexpected request %d", requestCount)
		}
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL, "MOCK_API_KEY")

	customers, err := client.Customers().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, customers, 3)
	assert.Equal(t, 2, requestCount)
}

func TestCustomersListPageFailureAborts(t *testing.T) {
	t.Parallel()

	var requestCount int

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestCount++

		if requestCount == 1 {
			writer.Header().Set("Content-Type", "application/json")
			_, _ = writer.Write([]byte(`{"offset": 0, "limit": 2, "items": [{"guid": "CU1"}, {"guid": "CU2"}]}`))

			return
		}

		writer.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(writer, "maintenance")
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL, "MOCK_API_KEY")

	customers, err := client.Customers().List(context.Background())
	require.Error(t, err)
	assert.Nil(t, customers)
	assert.True(t, billy.IsServiceError(err))
	assert.False(t, billy.IsNotFound(err))
	assert.Contains(t, err.Error(), "list_customers")
}
