package client

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/billyhq/billy-go/pkg/billy"
)

// NewTestClient creates a client bound to a test server with the given
// credential.
func NewTestClient(t *testing.T, serverURL, apiKey string) *Client {
	t.Helper()

	client, err := New(&billy.Config{
		Endpoint: serverURL,
		APIKey:   apiKey,
	})
	require.NoError(t, err)

	return client
}

// RequireBasicAuth asserts the request carries basic auth with the given
// username and an empty password.
func RequireBasicAuth(t *testing.T, request *http.Request, username string) {
	t.Helper()

	user, password, ok := request.BasicAuth()
	require.True(t, ok, "expected basic auth")
	require.Equal(t, username, user)
	require.Empty(t, password)
}

// StringPtr returns a pointer to the given string.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to the given int.
func IntPtr(i int) *int {
	return &i
}
