package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rezonia/szamlazz-go/internal/config"
	"github.com/rezonia/szamlazz-go/internal/envelope"
)

// placeholderKey stands in for the agent key when rendering without one
const placeholderKey = "AGENT-KEY"

var renderCallID string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print request documents without sending them",
	Long: `Render the request document the agent would receive for a document file.

The output is the exact XML uploaded by the issue commands. When no
credentials are configured a placeholder agent key is used.

Examples:
  szamlazz render invoice invoice.yaml
  szamlazz render receipt receipt.yaml --call-id auto`,
}

var renderInvoiceCmd = &cobra.Command{
	Use:   "invoice FILE",
	Short: "Render an issue-invoice request",
	Args:  cobra.ExactArgs(1),
	RunE:  runRenderInvoice,
}

var renderReceiptCmd = &cobra.Command{
	Use:   "receipt FILE",
	Short: "Render an issue-receipt request",
	Args:  cobra.ExactArgs(1),
	RunE:  runRenderReceipt,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.AddCommand(renderInvoiceCmd, renderReceiptCmd)

	renderReceiptCmd.Flags().StringVar(&renderCallID, "call-id", "", `Receipt call identifier ("auto" generates one)`)
}

func renderAssembler() (*envelope.Assembler, error) {
	creds, err := cfg.Credentials()
	if err != nil {
		printVerbose("No credentials configured, using placeholder agent key\n")
		if creds, err = envelope.APIKey(placeholderKey); err != nil {
			return nil, err
		}
	}
	return envelope.New(creds, nil), nil
}

func runRenderInvoice(cmd *cobra.Command, args []string) error {
	inv, err := config.LoadInvoice(args[0])
	if err != nil {
		return err
	}
	asm, err := renderAssembler()
	if err != nil {
		return err
	}
	req, err := asm.IssueInvoice(inv, cfg.InvoiceSettings())
	if err != nil {
		return err
	}
	printVerbose("Totals: net %s, VAT %s, gross %s\n", req.Totals.NetValue, req.Totals.TaxValue, req.Totals.GrossValue)
	_, err = cmd.OutOrStdout().Write(req.Body)
	return err
}

func runRenderReceipt(cmd *cobra.Command, args []string) error {
	r, err := config.LoadReceipt(args[0])
	if err != nil {
		return err
	}
	applyCallID(r, renderCallID)
	asm, err := renderAssembler()
	if err != nil {
		return err
	}
	req, err := asm.IssueReceipt(r, false)
	if err != nil {
		return err
	}
	printVerbose("Totals: net %s, VAT %s, gross %s\n", req.Totals.NetValue, req.Totals.TaxValue, req.Totals.GrossValue)
	_, err = cmd.OutOrStdout().Write(req.Body)
	return err
}
