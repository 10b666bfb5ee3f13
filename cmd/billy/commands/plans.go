package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/billyhq/billy-go/pkg/billy"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewPlansCommand creates the plans command group.
func NewPlansCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plans",
		Aliases: []string{"plan"},
		Short:   "Manage billing plans",
		Long:    "Create, inspect, and list billing plans, and subscribe customers to them",
	}

	cmd.AddCommand(newPlansCreateCommand())
	cmd.AddCommand(newPlansGetCommand())
	cmd.AddCommand(newPlansListCommand())
	cmd.AddCommand(newPlansSubscribeCommand())

	return cmd
}

func newPlansCreateCommand() *cobra.Command {
	var (
		planType  string
		frequency string
		amount    int
		interval  int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a billing plan",
		Long: `Create a billing plan.

The amount is in the smallest currency unit, so 500 means $5.00. An
interval of 2 with a weekly frequency charges every two weeks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlansCreateCommand(planType, frequency, amount, interval)
		},
	}

	cmd.Flags().StringVar(&planType, "type", string(billy.PlanTypeCharge), "plan type (charge, payout)")
	cmd.Flags().StringVar(&frequency, "frequency", "", "billing frequency (daily, weekly, monthly, yearly)")
	cmd.Flags().IntVar(&amount, "amount", 0, "amount in the smallest currency unit")
	cmd.Flags().IntVar(&interval, "interval", 1, "number of frequency units between charges")
	_ = cmd.MarkFlagRequired("frequency")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runPlansCreateCommand(planType, frequency string, amount, interval int) error {
	client, err := createClient()
	if err != nil {
		return err
	}

	plan, err := client.Plans().Create(context.Background(), &billy.PlanCreateRequest{
		PlanType:  billy.PlanType(planType),
		Frequency: billy.Frequency(frequency),
		Amount:    amount,
		Interval:  interval,
	})
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	return outputPlan(plan)
}

func newPlansGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PLAN_GUID",
		Short: "Get plan details",
		Long:  "Display detailed information about a specific billing plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlansGetCommand(args[0])
		},
	}
}

func runPlansGetCommand(guid string) error {
	client, err := createClient()
	if err != nil {
		return err
	}

	plan, err := client.Plans().Get(context.Background(), guid)
	if err != nil {
		return fmt.Errorf("failed to get plan: %w", err)
	}

	return outputPlan(plan)
}

func newPlansListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List billing plans",
		Long:  "List every billing plan belonging to the company",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlansListCommand()
		},
	}
}

func runPlansListCommand() error {
	client, err := createClient()
	if err != nil {
		return err
	}

	plans, err := client.Plans().List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}

	return outputPlans(plans)
}

func newPlansSubscribeCommand() *cobra.Command {
	var (
		customerGUID string
		paymentURI   string
		amount       int
		startedAt    string
	)

	cmd := &cobra.Command{
		Use:   "subscribe PLAN_GUID",
		Short: "Subscribe a customer to a plan",
		Long: `Subscribe a customer to a billing plan.

The amount overrides the plan amount for this subscription only. The
start time defers the first charge and must be RFC 3339, for example
2026-09-01T00:00:00Z.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlansSubscribeCommand(cmd, args[0], customerGUID, paymentURI, amount, startedAt)
		},
	}

	cmd.Flags().StringVar(&customerGUID, "customer", "", "customer GUID to subscribe")
	cmd.Flags().StringVar(&paymentURI, "payment-uri", "", "funding instrument URI")
	cmd.Flags().IntVar(&amount, "amount", 0, "per-subscription amount override")
	cmd.Flags().StringVar(&startedAt, "started-at", "", "deferred start time (RFC 3339)")
	_ = cmd.MarkFlagRequired("customer")

	return cmd
}

func runPlansSubscribeCommand(cmd *cobra.Command, planGUID, customerGUID, paymentURI string, amount int, startedAt string) error {
	client, err := createClient()
	if err != nil {
		return err
	}

	request := &billy.SubscribeRequest{CustomerGUID: customerGUID}

	if cmd.Flags().Changed("payment-uri") {
		request.PaymentURI = &paymentURI
	}

	if cmd.Flags().Changed("amount") {
		request.Amount = &amount
	}

	if cmd.Flags().Changed("started-at") {
		start, err := time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return fmt.Errorf("failed to parse started-at: %w", err)
		}

		request.StartedAt = &start
	}

	subscription, err := client.Plans().Subscribe(context.Background(), planGUID, request)
	if err != nil {
		return fmt.Errorf("failed to subscribe customer: %w", err)
	}

	return outputSubscription(subscription)
}

func outputPlan(plan *billy.Plan) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(plan.RawFields())
	case OutputFormatYAML:
		return StandardYAMLRenderer(plan.RawFields())
	default:
		return renderPlanDetailsTable(plan)
	}
}

func renderPlanDetailsTable(plan *billy.Plan) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("GUID", plan.GUID)
	_ = table.Append("Type", string(plan.PlanType))
	_ = table.Append("Frequency", string(plan.Frequency))
	_ = table.Append("Amount", strconv.Itoa(plan.Amount))
	_ = table.Append("Interval", strconv.Itoa(plan.Interval))
	_ = table.Append("Company GUID", plan.CompanyGUID)
	_ = table.Append("Deleted", formatBool(plan.Deleted))
	_ = table.Append("Created", formatTimestamp(plan.CreatedAt))
	_ = table.Append("Updated", formatTimestamp(plan.UpdatedAt))

	_ = table.Render()

	return nil
}

func outputPlans(plans []billy.Plan) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(plans)
	case OutputFormatYAML:
		return StandardYAMLRenderer(plans)
	default:
		return renderPlanTable(plans)
	}
}

func renderPlanTable(plans []billy.Plan) error {
	if len(plans) == 0 {
		_, _ = os.Stdout.WriteString("No plans found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("GUID", "Type", "Frequency", "Amount", "Interval", "Created")

	for _, plan := range plans {
		_ = table.Append(plan.GUID, string(plan.PlanType), string(plan.Frequency),
			strconv.Itoa(plan.Amount), strconv.Itoa(plan.Interval),
			formatTimestamp(plan.CreatedAt))
	}

	_ = table.Render()

	return nil
}
