package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/billyhq/billy-go/pkg/billy"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewCustomersCommand creates the customers command group.
func NewCustomersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer"},
		Short:   "Manage customers",
		Long:    "Create, inspect, and list Billy customers",
	}

	cmd.AddCommand(newCustomersCreateCommand())
	cmd.AddCommand(newCustomersGetCommand())
	cmd.AddCommand(newCustomersListCommand())

	return cmd
}

func newCustomersCreateCommand() *cobra.Command {
	var externalID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a customer",
		Long:  "Create a customer, optionally tagged with an identifier from your own system",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCustomersCreateCommand(cmd, externalID)
		},
	}

	cmd.Flags().StringVar(&externalID, "external-id", "", "identifier from an external system")

	return cmd
}

func runCustomersCreateCommand(cmd *cobra.Command, externalID string) error {
	client, err := createClient()
	if err != nil {
		return err
	}

	request := &billy.CustomerCreateRequest{}
	if cmd.Flags().Changed("external-id") {
		request.ExternalID = &externalID
	}

	customer, err := client.Customers().Create(context.Background(), request)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return outputCustomer(customer)
}

func newCustomersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CUSTOMER_GUID",
		Short: "Get customer details",
		Long:  "Display detailed information about a specific customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCustomersGetCommand(args[0])
		},
	}
}

func runCustomersGetCommand(guid string) error {
	client, err := createClient()
	if err != nil {
		return err
	}

	customer, err := client.Customers().Get(context.Background(), guid)
	if err != nil {
		return fmt.Errorf("failed to get customer: %w", err)
	}

	return outputCustomer(customer)
}

func newCustomersListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Long:  "List every customer belonging to the company",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCustomersListCommand()
		},
	}
}

func runCustomersListCommand() error {
	client, err := createClient()
	if err != nil {
		return err
	}

	customers, err := client.Customers().List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list customers: %w", err)
	}

	return outputCustomers(customers)
}

func outputCustomer(customer *billy.Customer) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(customer.RawFields())
	case OutputFormatYAML:
		return StandardYAMLRenderer(customer.RawFields())
	default:
		return renderCustomerDetailsTable(customer)
	}
}

func renderCustomerDetailsTable(customer *billy.Customer) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("GUID", customer.GUID)
	_ = table.Append("External ID", customer.ExternalID)
	_ = table.Append("Company GUID", customer.CompanyGUID)
	_ = table.Append("Deleted", formatBool(customer.Deleted))
	_ = table.Append("Created", formatTimestamp(customer.CreatedAt))
	_ = table.Append("Updated", formatTimestamp(customer.UpdatedAt))

	_ = table.Render()

	return nil
}

func outputCustomers(customers []billy.Customer) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(customers)
	case OutputFormatYAML:
		return StandardYAMLRenderer(customers)
	default:
		return renderCustomerTable(customers)
	}
}

func renderCustomerTable(customers []billy.Customer) error {
	if len(customers) == 0 {
		_, _ = os.Stdout.WriteString("No customers found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("GUID", "External ID", "Deleted", "Created")

	for _, customer := range customers {
		_ = table.Append(customer.GUID, customer.ExternalID,
			formatBool(customer.Deleted),
			formatTimestamp(customer.CreatedAt))
	}

	_ = table.Render()

	return nil
}
