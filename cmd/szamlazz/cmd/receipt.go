package cmd

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rezonia/szamlazz-go/internal/agent"
	"github.com/rezonia/szamlazz-go/internal/config"
	"github.com/rezonia/szamlazz-go/internal/model"
)

var (
	receiptID     string
	receiptCallID string
	receiptPDF    bool
	receiptSave   string
)

var receiptCmd = &cobra.Command{
	Use:   "receipt",
	Short: "Issue and fetch receipts",
	Long: `Work with receipts on the agent.

A call identifier makes issuing idempotent: the agent answers a repeated
call identifier with the receipt it already issued.

Examples:
  szamlazz receipt issue receipt.yaml --call-id auto
  szamlazz receipt issue receipt.yaml --pdf --save-pdf receipt.pdf
  szamlazz receipt get --id NYGT-2024-1 -f table`,
}

var receiptIssueCmd = &cobra.Command{
	Use:   "issue FILE",
	Short: "Issue the receipt described by a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runReceiptIssue,
}

var receiptGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch an issued receipt",
	Args:  cobra.NoArgs,
	RunE:  runReceiptGet,
}

func init() {
	rootCmd.AddCommand(receiptCmd)
	receiptCmd.AddCommand(receiptIssueCmd, receiptGetCmd)

	for _, c := range []*cobra.Command{receiptIssueCmd, receiptGetCmd} {
		c.Flags().BoolVar(&receiptPDF, "pdf", false, "Include the receipt PDF")
		c.Flags().StringVar(&receiptSave, "save-pdf", "", "Write the returned PDF to this path")
	}
	receiptIssueCmd.Flags().StringVar(&receiptCallID, "call-id", "", `Call identifier ("auto" generates one)`)

	receiptGetCmd.Flags().StringVar(&receiptID, "id", "", "Receipt number")
	_ = receiptGetCmd.MarkFlagRequired("id")
}

// applyCallID sets the receipt's call identifier from a flag value
func applyCallID(r *model.Receipt, callID string) {
	switch callID = strings.TrimSpace(callID); callID {
	case "":
	case "auto":
		id := uuid.NewString()
		r.CallID = &id
		printVerbose("Call identifier: %s\n", id)
	default:
		r.CallID = &callID
	}
}

func runReceiptIssue(cmd *cobra.Command, args []string) error {
	r, err := config.LoadReceipt(args[0])
	if err != nil {
		return err
	}
	applyCallID(r, receiptCallID)

	settings := cfg.InvoiceSettings()
	settings.Download = receiptPDF || receiptSave != ""
	client, err := newClient(agent.WithSettings(settings))
	if err != nil {
		return err
	}

	printVerbose("Issuing receipt from %s\n", args[0])
	res, err := client.IssueReceipt(context.Background(), r)
	if err != nil {
		return err
	}
	return finish(cmd.OutOrStdout(), res, receiptSave)
}

func runReceiptGet(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	res, err := client.GetReceiptData(context.Background(), receiptID, receiptPDF || receiptSave != "")
	if err != nil {
		return err
	}
	return finish(cmd.OutOrStdout(), res, receiptSave)
}
