package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/billyhq/billy-go/pkg/billy"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewSubscriptionsCommand creates the subscriptions command group.
func NewSubscriptionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subscription", "subs"},
		Short:   "Manage subscriptions",
		Long:    "Inspect, list, and cancel subscriptions",
	}

	cmd.AddCommand(newSubscriptionsGetCommand())
	cmd.AddCommand(newSubscriptionsListCommand())
	cmd.AddCommand(newSubscriptionsCancelCommand())

	return cmd
}

func newSubscriptionsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SUBSCRIPTION_GUID",
		Short: "Get subscription details",
		Long:  "Display detailed information about a specific subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscriptionsGetCommand(args[0])
		},
	}
}

func runSubscriptionsGetCommand(guid string) error {
	client, err := createClient()
	if err != nil {
		return err
	}

	subscription, err := client.Subscriptions().Get(context.Background(), guid)
	if err != nil {
		return fmt.Errorf("failed to get subscription: %w", err)
	}

	return outputSubscription(subscription)
}

func newSubscriptionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		Long:  "List every subscription belonging to the company",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscriptionsListCommand()
		},
	}
}

func runSubscriptionsListCommand() error {
	client, err := createClient()
	if err != nil {
		return err
	}

	subscriptions, err := client.Subscriptions().List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return outputSubscriptions(subscriptions)
}

func newSubscriptionsCancelCommand() *cobra.Command {
	var (
		proratedRefund bool
		refundAmount   int
	)

	cmd := &cobra.Command{
		Use:   "cancel SUBSCRIPTION_GUID",
		Short: "Cancel a subscription",
		Long: `Cancel a subscription.

A prorated refund returns the unused share of the current period. A
refund amount overrides proration with an exact figure. The two are
mutually exclusive on the server side.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscriptionsCancelCommand(cmd, args[0], proratedRefund, refundAmount)
		},
	}

	cmd.Flags().BoolVar(&proratedRefund, "prorated-refund", false, "refund the unused share of the current period")
	cmd.Flags().IntVar(&refundAmount, "refund-amount", 0, "exact refund amount in the smallest currency unit")

	return cmd
}

func runSubscriptionsCancelCommand(cmd *cobra.Command, guid string, proratedRefund bool, refundAmount int) error {
	client, err := createClient()
	if err != nil {
		return err
	}

	request := &billy.CancelRequest{ProratedRefund: proratedRefund}
	if cmd.Flags().Changed("refund-amount") {
		request.RefundAmount = &refundAmount
	}

	subscription, err := client.Subscriptions().Cancel(context.Background(), guid, request)
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}

	return outputSubscription(subscription)
}

func outputSubscription(subscription *billy.Subscription) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(subscription.RawFields())
	case OutputFormatYAML:
		return StandardYAMLRenderer(subscription.RawFields())
	default:
		return renderSubscriptionDetailsTable(subscription)
	}
}

func renderSubscriptionDetailsTable(subscription *billy.Subscription) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("GUID", subscription.GUID)
	_ = table.Append("Plan GUID", subscription.PlanGUID)
	_ = table.Append("Customer GUID", subscription.CustomerGUID)
	_ = table.Append("Payment URI", subscription.PaymentURI)
	_ = table.Append("Amount", strconv.Itoa(subscription.Amount))
	_ = table.Append("Period", strconv.Itoa(subscription.Period))
	_ = table.Append("Canceled", formatBool(subscription.Canceled))
	_ = table.Append("Canceled At", formatTimestamp(subscription.CanceledAt))
	_ = table.Append("Started At", formatTimestamp(subscription.StartedAt))
	_ = table.Append("Next Transaction", formatTimestamp(subscription.NextTransactionAt))
	_ = table.Append("Created", formatTimestamp(subscription.CreatedAt))
	_ = table.Append("Updated", formatTimestamp(subscription.UpdatedAt))

	_ = table.Render()

	return nil
}

func outputSubscriptions(subscriptions []billy.Subscription) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(subscriptions)
	case OutputFormatYAML:
		return StandardYAMLRenderer(subscriptions)
	default:
		return renderSubscriptionTable(subscriptions)
	}
}

func renderSubscriptionTable(subscriptions []billy.Subscription) error {
	if len(subscriptions) == 0 {
		_, _ = os.Stdout.WriteString("No subscriptions found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("GUID", "Plan", "Customer", "Amount", "Canceled", "Next Transaction")

	for _, subscription := range subscriptions {
		_ = table.Append(subscription.GUID, subscription.PlanGUID, subscription.CustomerGUID,
			strconv.Itoa(subscription.Amount), formatBool(subscription.Canceled),
			formatTimestamp(subscription.NextTransactionAt))
	}

	_ = table.Render()

	return nil
}
