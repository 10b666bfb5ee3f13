package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/billyhq/billy-go/pkg/billy"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrProcessorKeyRequired is returned when company creation runs without a
// processor key and stdin is not a terminal to prompt on.
var ErrProcessorKeyRequired = errors.New("processor key required")

// NewCompaniesCommand creates the companies command group.
func NewCompaniesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "Manage companies",
		Long:    "Register and inspect Billy companies",
	}

	cmd.AddCommand(newCompaniesCreateCommand())
	cmd.AddCommand(newCompaniesGetCommand())

	return cmd
}

func newCompaniesCreateCommand() *cobra.Command {
	var processorKey string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a company",
		Long: `Register a company with its payment processor key.

Registration is the bootstrap step. It needs no credentials, and the
processor key becomes the API key for every later call.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompaniesCreateCommand(processorKey)
		},
	}

	cmd.Flags().StringVar(&processorKey, "processor-key", "", "payment processor key (prompted when omitted)")

	return cmd
}

func runCompaniesCreateCommand(processorKey string) error {
	if processorKey == "" {
		var err error

		processorKey, err = promptForSecret("Processor key: ")
		if err != nil {
			return err
		}
	}

	if processorKey == "" {
		return ErrProcessorKeyRequired
	}

	client, err := createUnauthenticatedClient()
	if err != nil {
		return err
	}

	company, err := client.Companies().Create(context.Background(), processorKey)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	return outputCompany(company)
}

func newCompaniesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get COMPANY_GUID",
		Short: "Get company details",
		Long:  "Display detailed information about a specific company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompaniesGetCommand(args[0])
		},
	}
}

func runCompaniesGetCommand(guid string) error {
	client, err := createClient()
	if err != nil {
		return err
	}

	company, err := client.Companies().Get(context.Background(), guid)
	if err != nil {
		return fmt.Errorf("failed to get company: %w", err)
	}

	return outputCompany(company)
}

func outputCompany(company *billy.Company) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(company.RawFields())
	case OutputFormatYAML:
		return StandardYAMLRenderer(company.RawFields())
	default:
		return renderCompanyTable(company)
	}
}

func renderCompanyTable(company *billy.Company) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("GUID", company.GUID)
	_ = table.Append("API Key", company.APIKey)
	_ = table.Append("Created", formatTimestamp(company.CreatedAt))
	_ = table.Append("Updated", formatTimestamp(company.UpdatedAt))

	_ = table.Render()

	return nil
}
