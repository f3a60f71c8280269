package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/szamlazz-go/internal/agent"
	"github.com/rezonia/szamlazz-go/internal/config"
	"github.com/rezonia/szamlazz-go/internal/envelope"
	"github.com/rezonia/szamlazz-go/internal/model"
)

var (
	invoiceID       string
	orderNumber     string
	withPDF         bool
	savePDF         string
	download        bool
	xmlReply        bool
	invoiceEInvoice bool
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Issue, fetch and reverse invoices",
	Long: `Work with invoices on the agent.

Examples:
  szamlazz invoice issue invoice.yaml
  szamlazz invoice issue invoice.yaml --download --xml --save-pdf invoice.pdf
  szamlazz invoice get --id E-2024-7 --pdf --save-pdf invoice.pdf
  szamlazz invoice get --order-number ORD-7
  szamlazz invoice reverse --id E-2024-7`,
}

var invoiceIssueCmd = &cobra.Command{
	Use:   "issue FILE",
	Short: "Issue the invoice described by a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoiceIssue,
}

var invoiceGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch an issued invoice",
	Args:  cobra.NoArgs,
	RunE:  runInvoiceGet,
}

var invoiceReverseCmd = &cobra.Command{
	Use:   "reverse",
	Short: "Reverse (storno) an issued invoice",
	Args:  cobra.NoArgs,
	RunE:  runInvoiceReverse,
}

func init() {
	rootCmd.AddCommand(invoiceCmd)
	invoiceCmd.AddCommand(invoiceIssueCmd, invoiceGetCmd, invoiceReverseCmd)

	for _, c := range []*cobra.Command{invoiceIssueCmd, invoiceReverseCmd} {
		c.Flags().BoolVar(&download, "download", false, "Ask for the invoice PDF (env: SZAMLAZZ_DOWNLOAD)")
		c.Flags().BoolVar(&xmlReply, "xml", false, "Ask for an XML reply (env: SZAMLAZZ_RESPONSE_VERSION=2)")
		c.Flags().BoolVar(&invoiceEInvoice, "e-invoice", false, "Issue as e-invoice (env: SZAMLAZZ_E_INVOICE)")
		c.Flags().StringVar(&savePDF, "save-pdf", "", "Write the returned PDF to this path")
	}

	invoiceGetCmd.Flags().StringVar(&invoiceID, "id", "", "Invoice number")
	invoiceGetCmd.Flags().StringVar(&orderNumber, "order-number", "", "Order number")
	invoiceGetCmd.Flags().BoolVar(&withPDF, "pdf", false, "Include the invoice PDF")
	invoiceGetCmd.Flags().StringVar(&savePDF, "save-pdf", "", "Write the returned PDF to this path")

	invoiceReverseCmd.Flags().StringVar(&invoiceID, "id", "", "Invoice number")
	_ = invoiceReverseCmd.MarkFlagRequired("id")
}

// invoiceSettings merges command flags into the configured settings
func invoiceSettings(cmd *cobra.Command) envelope.InvoiceSettings {
	s := cfg.InvoiceSettings()
	if cmd.Flags().Changed("download") {
		s.Download = download
	} else if savePDF != "" {
		s.Download = true
	}
	if cmd.Flags().Changed("xml") {
		s.ResponseVersion = model.ResponsePlainTextOrPDF
		if xmlReply {
			s.ResponseVersion = model.ResponseXML
		}
	}
	if cmd.Flags().Changed("e-invoice") {
		s.EInvoice = invoiceEInvoice
	}
	return s
}

func runInvoiceIssue(cmd *cobra.Command, args []string) error {
	inv, err := config.LoadInvoice(args[0])
	if err != nil {
		return err
	}
	client, err := newClient(agent.WithSettings(invoiceSettings(cmd)))
	if err != nil {
		return err
	}

	printVerbose("Issuing invoice from %s\n", args[0])
	res, err := client.IssueInvoice(context.Background(), inv)
	if err != nil {
		return err
	}
	return finish(cmd.OutOrStdout(), res, savePDF)
}

func runInvoiceGet(cmd *cobra.Command, args []string) error {
	if invoiceID == "" && orderNumber == "" {
		return fmt.Errorf("either --id or --order-number is required")
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	res, err := client.GetInvoiceData(context.Background(), envelope.InvoiceQuery{
		InvoiceNumber: invoiceID,
		OrderNumber:   orderNumber,
		PDF:           withPDF || savePDF != "",
	})
	if err != nil {
		return err
	}
	return finish(cmd.OutOrStdout(), res, savePDF)
}

func runInvoiceReverse(cmd *cobra.Command, args []string) error {
	client, err := newClient(agent.WithSettings(invoiceSettings(cmd)))
	if err != nil {
		return err
	}

	printVerbose("Reversing invoice %s\n", invoiceID)
	res, err := client.ReverseInvoice(context.Background(), invoiceID)
	if err != nil {
		return err
	}
	return finish(cmd.OutOrStdout(), res, savePDF)
}
