package billy

import (
	"context"
	"time"
)

// CompaniesClient provides access to company operations.
type CompaniesClient interface {
	// Create registers a company with the given payment processor key. The
	// request is unauthenticated; on success the client adopts the processor
	// key as its active credential for all subsequent calls.
	Create(ctx context.Context, processorKey string) (*Company, error)
	Get(ctx context.Context, guid string) (*Company, error)
}

// CustomersClient provides access to customer operations.
type CustomersClient interface {
	Create(ctx context.Context, request *CustomerCreateRequest) (*Customer, error)
	Get(ctx context.Context, guid string) (*Customer, error)
	// List fetches every customer, walking all pages eagerly.
	List(ctx context.Context) ([]Customer, error)
}

// PlansClient provides access to plan operations.
type PlansClient interface {
	Create(ctx context.Context, request *PlanCreateRequest) (*Plan, error)
	Get(ctx context.Context, guid string) (*Plan, error)
	List(ctx context.Context) ([]Plan, error)
	// Subscribe subscribes a customer to the plan.
	Subscribe(ctx context.Context, planGUID string, request *SubscribeRequest) (*Subscription, error)
}

// SubscriptionsClient provides access to subscription operations.
type SubscriptionsClient interface {
	Get(ctx context.Context, guid string) (*Subscription, error)
	List(ctx context.Context) ([]Subscription, error)
	// Cancel cancels the subscription and returns a fresh snapshot
	// reflecting the cancellation.
	Cancel(ctx context.Context, guid string, request *CancelRequest) (*Subscription, error)
}

// Client is the Billy API client.
//
// The active credential is mutable: company creation replaces it with the
// processor key. The client is not safe for concurrent use while that
// mutation can occur; callers needing concurrency must synchronize company
// creation externally.
type Client interface {
	Companies() CompaniesClient
	Customers() CustomersClient
	Plans() PlansClient
	Subscriptions() SubscriptionsClient

	// APIKey returns the active credential.
	APIKey() string
	// SetAPIKey replaces the active credential.
	SetAPIKey(key string)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a billy.Client.
//
// Per-request timeouts should generally be controlled via the context passed
// to client methods. Retry behavior is delegated to the HTTP transport and
// tuned via RetryMax/RetryWaitMin/RetryWaitMax; with RetryMax zero every
// failure surfaces immediately.
type Config struct {
	// Endpoint is the base URL of the Billy server. Defaults to the
	// production endpoint when empty. billyclient.New normalizes this value
	// by trimming a trailing slash and adding "https://" if no scheme is
	// present.
	Endpoint string

	// APIKey is the initial active credential, used as the basic-auth
	// username with an empty password. May be empty when the first call is
	// company creation, which installs the processor key as the credential.
	APIKey string

	// HTTPTimeout is the overall per-request timeout applied by the
	// transport when no tighter context deadline is set.
	HTTPTimeout time.Duration

	// RetryMax is the maximum number of transport retries for transient
	// failures (>=500, 429, and connection errors). Zero disables retries.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration

	// Debug enables verbose request/response logging when a Logger is set.
	Debug bool
	// Logger is an optional structured logger used by the transport.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Cache configures the optional GET response cache. Nil disables
	// caching.
	Cache *CacheConfig

	// Interceptors is an optional chain run around every request, for
	// header injection, metrics, rate limiting, or circuit breaking.
	Interceptors *InterceptorChain
}
