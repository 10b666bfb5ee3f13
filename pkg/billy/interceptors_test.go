package billy_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billyhq/billy-go/pkg/billy"
)

var errInterceptor = errors.New("interceptor rejected request")

func TestInterceptorChainOrder(t *testing.T) {
	t.Parallel()

	var order []string

	chain := billy.NewInterceptorChain()
	chain.AddRequestInterceptor(func(ctx context.Context, req *billy.Request) error {
		order = append(order, "first")

		return nil
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *billy.Request) error {
		order = append(order, "second")

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &billy.Request{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestInterceptorChainStopsOnError(t *testing.T) {
	t.Parallel()

	var secondRan bool

	chain := billy.NewInterceptorChain()
	chain.AddRequestInterceptor(func(ctx context.Context, req *billy.Request) error {
		return errInterceptor
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *billy.Request) error {
		secondRan = true

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &billy.Request{})
	require.ErrorIs(t, err, errInterceptor)
	assert.False(t, secondRan)
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := billy.HeaderInterceptor(map[string]string{"X-Custom": "value"})

	req := &billy.Request{Headers: make(http.Header)}
	require.NoError(t, interceptor(context.Background(), req))
	assert.Equal(t, "value", req.Headers.Get("X-Custom"))

	// Nil headers are initialized.
	bare := &billy.Request{}
	require.NoError(t, interceptor(context.Background(), bare))
	assert.Equal(t, "value", bare.Headers.Get("X-Custom"))
}

func TestMetricsInterceptors(t *testing.T) {
	t.Parallel()

	collector := billy.NewMetricsCollector()
	requestInterceptor := billy.MetricsRequestInterceptor(collector)
	responseInterceptor := billy.MetricsResponseInterceptor(collector)

	ctx := context.Background()
	req := &billy.Request{Method: "GET", Path: "/v1/customers"}

	require.NoError(t, requestInterceptor(ctx, req))
	require.NoError(t, responseInterceptor(ctx, req, &billy.Response{StatusCode: 200}))
	require.NoError(t, requestInterceptor(ctx, req))
	require.NoError(t, responseInterceptor(ctx, req, &billy.Response{StatusCode: 503}))

	metrics := collector.GetMetrics("GET /v1/customers")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(2), metrics.TotalRequests)
	assert.Equal(t, int64(1), metrics.TotalErrors)
	assert.False(t, metrics.LastRequestTime.IsZero())

	assert.Nil(t, collector.GetMetrics("GET /v1/plans"))
}

func TestMetricsCollectorOnChange(t *testing.T) {
	t.Parallel()

	collector := billy.NewMetricsCollector()

	var changedEndpoint string

	collector.SetOnChange(func(endpoint string, metrics *billy.Metrics) {
		changedEndpoint = endpoint
	})

	interceptor := billy.MetricsResponseInterceptor(collector)
	req := &billy.Request{Method: "POST", Path: "/v1/plans"}

	require.NoError(t, interceptor(context.Background(), req, &billy.Response{StatusCode: 200}))
	assert.Equal(t, "POST /v1/plans", changedEndpoint)
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	t.Parallel()

	breaker := billy.NewCircuitBreaker(&billy.CircuitBreakerConfig{
		Threshold:        2,
		Timeout:          time.Hour,
		SuccessThreshold: 1,
	})

	requestInterceptor := billy.CircuitBreakerRequestInterceptor(breaker)
	responseInterceptor := billy.CircuitBreakerResponseInterceptor(breaker)

	ctx := context.Background()
	req := &billy.Request{Method: "GET", Path: "/v1/customers"}
	failure := &billy.Response{StatusCode: 503}

	require.NoError(t, requestInterceptor(ctx, req))
	require.NoError(t, responseInterceptor(ctx, req, failure))
	require.NoError(t, requestInterceptor(ctx, req))
	require.NoError(t, responseInterceptor(ctx, req, failure))

	// Two failures tripped the breaker.
	err := requestInterceptor(ctx, req)
	assert.ErrorIs(t, err, billy.ErrCircuitBreakerOpen)
}

func TestCircuitBreakerRecovers(t *testing.T) {
	t.Parallel()

	breaker := billy.NewCircuitBreaker(&billy.CircuitBreakerConfig{
		Threshold:        1,
		Timeout:          time.Millisecond,
		SuccessThreshold: 1,
	})

	requestInterceptor := billy.CircuitBreakerRequestInterceptor(breaker)
	responseInterceptor := billy.CircuitBreakerResponseInterceptor(breaker)

	ctx := context.Background()
	req := &billy.Request{Method: "GET", Path: "/v1/customers"}

	require.NoError(t, responseInterceptor(ctx, req, &billy.Response{StatusCode: 500}))
	require.ErrorIs(t, requestInterceptor(ctx, req), billy.ErrCircuitBreakerOpen)

	// After the timeout the breaker half-opens, and a success closes it.
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, requestInterceptor(ctx, req))
	require.NoError(t, responseInterceptor(ctx, req, &billy.Response{StatusCode: 200}))
	require.NoError(t, requestInterceptor(ctx, req))
}

func TestRateLimitInterceptorHonorsContext(t *testing.T) {
	t.Parallel()

	interceptor := billy.RateLimitInterceptor(1)

	// First request consumes the token.
	require.NoError(t, interceptor(context.Background(), &billy.Request{}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := interceptor(ctx, &billy.Request{})
	if err != nil {
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
}

func TestLoggingInterceptors(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}

	request := billy.LoggingInterceptor(logger)
	response := billy.LoggingResponseInterceptor(logger)

	ctx := context.Background()
	req := &billy.Request{Method: "GET", Path: "/v1/plans"}

	require.NoError(t, request(ctx, req))
	require.NoError(t, response(ctx, req, &billy.Response{StatusCode: 200}))
	require.NoError(t, response(ctx, req, &billy.Response{StatusCode: 503, Error: errInterceptor}))

	assert.Equal(t, []string{"API Request", "API Response", "API Response Error"}, logger.messages)
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Info(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
}
