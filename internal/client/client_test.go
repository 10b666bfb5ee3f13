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

func TestNewRequiresConfig(t *testing.T) {
	t.Parallel()

	client, err := New(nil)
	require.ErrorIs(t, err, billy.ErrConfigRequired)
	assert.Nil(t, client)
}

func TestNewRequiresEndpoint(t *testing.T) {
	t.Parallel()

	client, err := New(&billy.Config{})
	require.ErrorIs(t, err, billy.ErrEndpointRequired)
	assert.Nil(t, client)
}

func TestNewWiresInterceptors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "trace-123", request.Header.Get("X-Request-ID"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"guid": "CUMOCK"}`))
	}))
	defer server.Close()

	chain := billy.NewInterceptorChain()
	chain.AddRequestInterceptor(billy.HeaderInterceptor(map[string]string{"X-Request-ID": "trace-123"}))

	client, err := New(&billy.Config{
		Endpoint:     server.URL,
		APIKey:       "MOCK_API_KEY",
		Interceptors: chain,
	})
	require.NoError(t, err)

	customer, err := client.Customers().Get(context.Background(), "CUMOCK")
	require.NoError(t, err)
	assert.Equal(t, "CUMOCK", customer.GUID)
}
