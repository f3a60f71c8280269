package szamlazz

import (
	"context"

	"github.com/pkg/errors"

	"github.com/rezonia/szamlazz-go/internal/agent"
	"github.com/rezonia/szamlazz-go/internal/attachment"
	"github.com/rezonia/szamlazz-go/internal/config"
)

// Client talks to the agent. Calls on one Client are serialized.
type Client = agent.Client

// Option configures a Client
type Option = agent.Option

// Client options
var (
	WithBaseURL    = agent.WithBaseURL
	WithHTTPClient = agent.WithHTTPClient
	WithTimeout    = agent.WithTimeout
	WithLogger     = agent.WithLogger
	WithClock      = agent.WithClock
	WithSettings   = agent.WithSettings
)

// NewClient creates a client authenticating with creds
func NewClient(creds Credentials, opts ...Option) (*Client, error) {
	return agent.New(creds, opts...)
}

// NewClientFromEnv creates a client from SZAMLAZZ_* environment variables
// and an optional .env file in the working directory. Options given here
// override the environment.
func NewClientFromEnv(opts ...Option) (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	creds, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}
	base := []Option{
		agent.WithBaseURL(cfg.URL),
		agent.WithTimeout(cfg.Timeout),
		agent.WithSettings(cfg.InvoiceSettings()),
	}
	return agent.New(creds, append(base, opts...)...)
}

// BatchResult is the outcome of one document of a batch
type BatchResult struct {
	Index  int
	Result *Result
	Err    error
}

// IssueInvoices issues invoices one after another and reports each outcome.
// It stops early only when ctx is done.
func IssueInvoices(ctx context.Context, c *Client, invoices []*Invoice) []BatchResult {
	results := make([]BatchResult, 0, len(invoices))
	for i, inv := range invoices {
		if err := ctx.Err(); err != nil {
			results = append(results, BatchResult{Index: i, Err: err})
			continue
		}
		res, err := c.IssueInvoice(ctx, inv)
		results = append(results, BatchResult{Index: i, Result: res, Err: err})
	}
	return results
}

// SavePDF writes the PDF attachment of res to path
func SavePDF(path string, res *Result) error {
	if res == nil || !res.HasPDF() {
		return errors.New("result carries no PDF")
	}
	return attachment.Save(path, res.PDF)
}

// PDFInfo describes a PDF attachment
type PDFInfo = attachment.Info

// PDFSignature describes one digital signature of an e-invoice PDF
type PDFSignature = attachment.Signature

var (
	// InspectPDF validates a PDF and counts its pages
	InspectPDF = attachment.Inspect
	// InspectPDFFile is InspectPDF on a file
	InspectPDFFile = attachment.InspectFile
	// NewSignatureChecker lists e-invoice signatures with poppler's pdfsig
	NewSignatureChecker = attachment.NewSignatureChecker
)
