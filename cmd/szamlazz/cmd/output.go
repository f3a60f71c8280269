package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/rezonia/szamlazz-go/internal/agent"
	"github.com/rezonia/szamlazz-go/internal/attachment"
	"github.com/rezonia/szamlazz-go/internal/logger"
	"github.com/rezonia/szamlazz-go/internal/reconcile"
)

// ResultOutput is the printed form of one agent reply
type ResultOutput struct {
	Operation  string           `json:"operation"`
	DocumentID string           `json:"document_id,omitempty"`
	NetTotal   *decimal.Decimal `json:"net_total,omitempty"`
	GrossTotal *decimal.Decimal `json:"gross_total,omitempty"`
	PDFBytes   int              `json:"pdf_bytes,omitempty"`
	PDFPath    string           `json:"pdf_path,omitempty"`
	Message    string           `json:"message,omitempty"`
}

// FileInfoOutput is the printed form of an inspected PDF
type FileInfoOutput struct {
	File       string                 `json:"file"`
	Size       int                    `json:"size,omitempty"`
	Pages      int                    `json:"pages,omitempty"`
	Valid      bool                   `json:"valid"`
	Problem    string                 `json:"problem,omitempty"`
	Signatures []attachment.Signature `json:"signatures,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// newClient builds an agent client from the resolved configuration; opts
// apply last
func newClient(opts ...agent.Option) (*agent.Client, error) {
	if configErr != nil {
		return nil, configErr
	}
	creds, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}
	printVerbose("Agent: %s (%s)\n", cfg.URL, creds)
	base := []agent.Option{
		agent.WithBaseURL(cfg.URL),
		agent.WithTimeout(cfg.Timeout),
		agent.WithSettings(cfg.InvoiceSettings()),
		agent.WithLogger(logger.Log),
	}
	return agent.New(creds, append(base, opts...)...)
}

// finish saves the attachment when asked and prints the reply
func finish(w io.Writer, res *reconcile.Result, pdfPath string) error {
	out := ResultOutput{
		Operation:  res.Operation,
		DocumentID: res.DocumentID,
		NetTotal:   res.NetTotal,
		GrossTotal: res.GrossTotal,
		PDFBytes:   len(res.PDF),
		Message:    strings.TrimSpace(res.Raw),
	}

	if pdfPath != "" {
		if !res.HasPDF() {
			return fmt.Errorf("no PDF in the reply; request one with --pdf or --download")
		}
		if err := attachment.Save(pdfPath, res.PDF); err != nil {
			return err
		}
		out.PDFPath = pdfPath
		printVerbose("Saved PDF to %s\n", pdfPath)
	}
	return outputResult(w, out)
}

func outputResult(w io.Writer, out ResultOutput) error {
	switch outputFormat {
	case "json":
		return outputJSON(w, out)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "OPERATION\tDOCUMENT\tNET\tGROSS\tPDF")
		fmt.Fprintln(tw, "---------\t--------\t---\t-----\t---")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			out.Operation,
			out.DocumentID,
			decimalText(out.NetTotal),
			decimalText(out.GrossTotal),
			pdfText(out),
		)
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputFileInfo(w io.Writer, infos []FileInfoOutput) error {
	switch outputFormat {
	case "json":
		return outputJSON(w, infos)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tSIZE\tPAGES\tVALID\tSIGNED BY\tPROBLEM")
		fmt.Fprintln(tw, "----\t----\t-----\t-----\t---------\t-------")
		for _, i := range infos {
			if i.Error != "" {
				fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\n", i.File, i.Error)
				continue
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%t\t%s\t%s\n", i.File, i.Size, i.Pages, i.Valid, signersText(i.Signatures), i.Problem)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func decimalText(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

func signersText(sigs []attachment.Signature) string {
	if len(sigs) == 0 {
		return "-"
	}
	names := make([]string, 0, len(sigs))
	for _, sig := range sigs {
		name := sig.Signer
		if !sig.Valid {
			name += " (invalid)"
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func pdfText(out ResultOutput) string {
	switch {
	case out.PDFPath != "":
		return out.PDFPath
	case out.PDFBytes > 0:
		return fmt.Sprintf("%d bytes", out.PDFBytes)
	}
	return "-"
}
