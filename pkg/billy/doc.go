// Package billy defines the public API surface of the Billy recurring
// billing client: the Client interface, typed entities, error model,
// pagination, and the optional response cache.
//
// Create clients with the billyclient package:
//
//	client, err := billyclient.New(&billy.Config{
//		APIKey: "MY_BILLY_API_KEY",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	plan, err := client.Plans().Create(ctx, &billy.PlanCreateRequest{
//		PlanType:  billy.PlanTypeCharge,
//		Frequency: billy.FrequencyMonthly,
//		Amount:    500,
//	})
//
// Entities expose their documented schema as struct fields and keep the full
// server payload reachable through Field:
//
//	value, err := plan.Field("company_guid")
//
// Errors from the server are *billy.APIError values; IsNotFound and
// IsServiceError classify them:
//
//	_, err = client.Companies().Get(ctx, "no-such-guid")
//	if billy.IsNotFound(err) {
//		// handle missing record
//	}
package billy
