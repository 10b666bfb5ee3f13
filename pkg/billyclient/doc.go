// Package billyclient provides the primary entry point for constructing a
// Billy recurring-billing API client that implements the billy.Client
// interface.
//
// It layers endpoint normalization, the HTTP transport, retries, and the
// optional response cache on top of the resource interfaces and types defined
// in the billy package. Most applications should import billyclient to build
// a client, then use the returned billy.Client to access resource-specific
// clients: Companies(), Customers(), Plans(), and Subscriptions().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/billyhq/billy-go/pkg/billy"
//	  "github.com/billyhq/billy-go/pkg/billyclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // With an existing API key:
//	  cli, err := billyclient.New(&billy.Config{APIKey: "MY_BILLY_API_KEY"})
//	  if err != nil { log.Fatal(err) }
//
//	  // Or start from nothing: create a company with a payment processor
//	  // key, which becomes the client's credential for every later call.
//	  cli, err = billyclient.NewWithEndpoint("https://billing.example.com")
//	  if err != nil { log.Fatal(err) }
//
//	  company, err := cli.Companies().Create(ctx, "MY_PROCESSOR_KEY")
//	  if err != nil { log.Fatal(err) }
//	  _ = company
//
//	  customers, err := cli.Customers().List(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = customers
//	}
//
// # Helpers
//
// The package also provides convenience constructors NewWithAPIKey and
// NewWithEndpoint that wrap New with the appropriate configuration.
package billyclient
