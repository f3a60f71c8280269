// Package agent is the Számlázz.hu agent client. Each operation assembles a
// request document, posts it as a multipart upload and reconciles the reply.
package agent

//go:generate mockgen -destination=../mocks/mock_doer.go -package=mocks github.com/rezonia/szamlazz-go/internal/agent Doer

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rezonia/szamlazz-go/internal/envelope"
	"github.com/rezonia/szamlazz-go/internal/logger"
	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/reconcile"
	"github.com/rezonia/szamlazz-go/internal/render"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

// DefaultTimeout bounds one round trip unless overridden
const DefaultTimeout = 60 * time.Second

// Doer sends HTTP requests; *http.Client satisfies it
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the agent endpoint. Calls on one Client are serialized so
// the session cookie is read and written by one call at a time.
type Client struct {
	mu sync.Mutex

	doer      Doer
	baseURL   string
	timeout   time.Duration
	log       *zap.Logger
	builder   *render.Builder
	assembler *envelope.Assembler
	settings  envelope.InvoiceSettings
	cookies   []*http.Cookie
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another endpoint, such as a sandbox
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithHTTPClient sets the HTTP collaborator
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithTimeout bounds each call; zero disables the bound
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the client's logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock sets the time source for defaulted dates
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.builder = render.NewBuilder(render.WithClock(now))
	}
}

// WithSettings replaces the invoice settings
func WithSettings(s envelope.InvoiceSettings) Option {
	return func(c *Client) {
		c.settings = s
	}
}

// New creates a client authenticating with creds
func New(creds envelope.Credentials, opts ...Option) (*Client, error) {
	if creds.IsZero() {
		return nil, model.NewValidationError("Credentials", nil, "required", "agent key or user/password pair is required")
	}

	c := &Client{
		doer:     http.DefaultClient,
		baseURL:  wire.DefaultURL,
		timeout:  DefaultTimeout,
		log:      logger.Log,
		builder:  render.NewBuilder(),
		settings: envelope.DefaultInvoiceSettings(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.assembler = envelope.New(creds, c.builder)
	return c, nil
}

// SetRequestInvoiceDownload toggles PDF download for issue and reverse calls
func (c *Client) SetRequestInvoiceDownload(download bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.Download = download
}

// SetResponseVersion selects plain-text/PDF or XML replies for invoice calls
func (c *Client) SetResponseVersion(v model.ResponseVersion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.ResponseVersion = v
}

// Settings returns a copy of the current invoice settings
func (c *Client) Settings() envelope.InvoiceSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// GetInvoiceData fetches an issued invoice by number or order number
func (c *Client) GetInvoiceData(ctx context.Context, q envelope.InvoiceQuery) (*reconcile.Result, error) {
	return c.call(ctx, func(s envelope.InvoiceSettings) (*envelope.Request, error) {
		return c.assembler.GetInvoiceData(q)
	})
}

// ReverseInvoice issues the reversal of invoiceNumber
func (c *Client) ReverseInvoice(ctx context.Context, invoiceNumber string) (*reconcile.Result, error) {
	return c.call(ctx, func(s envelope.InvoiceSettings) (*envelope.Request, error) {
		return c.assembler.ReverseInvoice(invoiceNumber, s)
	})
}

// IssueInvoice issues inv
func (c *Client) IssueInvoice(ctx context.Context, inv *model.Invoice) (*reconcile.Result, error) {
	return c.call(ctx, func(s envelope.InvoiceSettings) (*envelope.Request, error) {
		return c.assembler.IssueInvoice(inv, s)
	})
}

// GetReceiptData fetches an issued receipt, with its PDF when pdf is set
func (c *Client) GetReceiptData(ctx context.Context, receiptNumber string, pdf bool) (*reconcile.Result, error) {
	return c.call(ctx, func(s envelope.InvoiceSettings) (*envelope.Request, error) {
		return c.assembler.GetReceiptData(receiptNumber, pdf)
	})
}

// IssueReceipt issues r. The PDF is requested when invoice download is on.
func (c *Client) IssueReceipt(ctx context.Context, r *model.Receipt) (*reconcile.Result, error) {
	return c.call(ctx, func(s envelope.InvoiceSettings) (*envelope.Request, error) {
		return c.assembler.IssueReceipt(r, s.Download)
	})
}

// call assembles and sends one request while holding the client lock
func (c *Client) call(ctx context.Context, assemble func(envelope.InvoiceSettings) (*envelope.Request, error)) (*reconcile.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req, err := assemble(c.settings)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	log := c.log.With(zap.String("operation", req.Envelope.Name))
	log.Debug("sending request", zap.String("url", c.baseURL), zap.Int("bytes", len(req.Body)))

	resp, err := c.post(ctx, req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return nil, err
	}

	result, err := reconcile.Reconcile(resp, reconcile.Expectation{
		Envelope:   req.Envelope,
		Structured: req.Structured,
		ExpectPDF:  req.ExpectPDF,
	})
	if err != nil {
		fields := []zap.Field{zap.Int("status", resp.StatusCode), zap.Error(err)}
		var sErr *model.ServiceError
		if errors.As(err, &sErr) {
			fields = append(fields, zap.String("error_code", sErr.Code))
		}
		log.Warn("request rejected", fields...)
		return nil, err
	}

	log.Debug("request done",
		zap.Int("status", resp.StatusCode),
		zap.String("document_id", result.DocumentID),
		zap.Bool("pdf", result.HasPDF()),
	)
	return result, nil
}
