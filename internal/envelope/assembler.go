// Package envelope wraps rendered documents and queries into the complete
// request documents of the agent's five operations.
package envelope

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/render"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

// InvoiceSettings are the per-request switches of invoice operations
type InvoiceSettings struct {
	EInvoice        bool
	Download        bool
	DownloadCount   int
	ResponseVersion model.ResponseVersion
}

// DefaultInvoiceSettings mirrors the service defaults
func DefaultInvoiceSettings() InvoiceSettings {
	return InvoiceSettings{
		DownloadCount:   1,
		ResponseVersion: model.ResponsePlainTextOrPDF,
	}
}

// InvoiceQuery selects an invoice by number or by order number
type InvoiceQuery struct {
	InvoiceNumber string
	OrderNumber   string
	PDF           bool
}

// Request is an assembled request document with what its reply will carry
type Request struct {
	Envelope wire.Envelope
	Body     []byte
	// Structured is true when the reply is an XML document
	Structured bool
	// ExpectPDF is true when the reply carries the document's PDF
	ExpectPDF bool
	// Totals are the locally computed sums of issued documents
	Totals model.Amounts
}

// Assembler builds request documents for one set of credentials
type Assembler struct {
	creds   Credentials
	builder *render.Builder
}

// New creates an Assembler. A nil builder uses the wall clock.
func New(creds Credentials, builder *render.Builder) *Assembler {
	if builder == nil {
		builder = render.NewBuilder()
	}
	return &Assembler{creds: creds, builder: builder}
}

func (a *Assembler) document(env wire.Envelope) (*etree.Document, *etree.Element, error) {
	if a.creds.IsZero() {
		return nil, nil, model.NewValidationError("Credentials", nil, "required", "agent key or user/password pair is required")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(env.Root)
	root.CreateAttr(wire.AttrXMLNS, env.Namespace)
	root.CreateAttr(wire.AttrXMLNSXSI, wire.XSINamespace)
	root.CreateAttr(wire.AttrSchemaLocation, env.SchemaLocation)
	return doc, root, nil
}

func finish(env wire.Envelope, doc *etree.Document, structured, pdf bool, totals model.Amounts) (*Request, error) {
	body, err := render.Write(doc)
	if err != nil {
		return nil, err
	}
	return &Request{
		Envelope:   env,
		Body:       body,
		Structured: structured,
		ExpectPDF:  pdf,
		Totals:     totals,
	}, nil
}

func child(parent *etree.Element, name, value string) {
	parent.CreateElement(name).SetText(value)
}

// GetInvoiceData asks for an issued invoice's data, optionally with its PDF.
// The reply is always structured.
func (a *Assembler) GetInvoiceData(q InvoiceQuery) (*Request, error) {
	number := strings.TrimSpace(q.InvoiceNumber)
	order := strings.TrimSpace(q.OrderNumber)
	if number == "" && order == "" {
		return nil, model.NewValidationError("InvoiceNumber", nil, "required", "invoice number or order number is required")
	}

	env := wire.GetInvoiceData
	doc, root, err := a.document(env)
	if err != nil {
		return nil, err
	}
	a.creds.appendTo(root)
	if number != "" {
		child(root, wire.InvoiceNumber, number)
	}
	if order != "" {
		child(root, wire.OrderNumber, order)
	}
	child(root, wire.PDFFlag, strconv.FormatBool(q.PDF))

	return finish(env, doc, true, q.PDF, model.Amounts{})
}

// ReverseInvoice asks for the reversal (storno) of an issued invoice, dated
// with the builder clock.
func (a *Assembler) ReverseInvoice(invoiceNumber string, s InvoiceSettings) (*Request, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return nil, model.NewValidationError("InvoiceNumber", nil, "required", "invoice number is required")
	}

	env := wire.ReverseInvoice
	doc, root, err := a.document(env)
	if err != nil {
		return nil, err
	}
	settings := root.CreateElement(wire.Settings)
	a.creds.appendTo(settings)
	child(settings, wire.EInvoice, strconv.FormatBool(s.EInvoice))
	child(settings, wire.Download, strconv.FormatBool(s.Download))

	header := root.CreateElement(wire.Header)
	child(header, wire.InvoiceNumber, invoiceNumber)
	child(header, wire.IssueDate, a.builder.Today().Format(wire.DateLayout))

	return finish(env, doc, s.ResponseVersion.Structured(), s.Download, model.Amounts{})
}

// IssueInvoice wraps inv into an issue request
func (a *Assembler) IssueInvoice(inv *model.Invoice, s InvoiceSettings) (*Request, error) {
	if inv == nil {
		return nil, model.NewValidationError("Invoice", nil, "required", "invoice missing")
	}
	if s.DownloadCount < 1 {
		s.DownloadCount = 1
	}
	if s.ResponseVersion.Value == 0 {
		s.ResponseVersion = model.ResponsePlainTextOrPDF
	}

	env := wire.IssueInvoice
	doc, root, err := a.document(env)
	if err != nil {
		return nil, err
	}
	settings := root.CreateElement(wire.Settings)
	a.creds.appendTo(settings)
	child(settings, wire.EInvoice, strconv.FormatBool(s.EInvoice))
	child(settings, wire.Download, strconv.FormatBool(s.Download))
	child(settings, wire.DownloadCount, strconv.Itoa(s.DownloadCount))
	child(settings, wire.ReplyVersion, strconv.Itoa(s.ResponseVersion.Value))

	totals, err := a.builder.Invoice(root, inv)
	if err != nil {
		return nil, err
	}
	return finish(env, doc, s.ResponseVersion.Structured(), s.Download, totals)
}

// GetReceiptData asks for an issued receipt, optionally with its PDF.
// The reply is always structured.
func (a *Assembler) GetReceiptData(receiptNumber string, pdf bool) (*Request, error) {
	receiptNumber = strings.TrimSpace(receiptNumber)
	if receiptNumber == "" {
		return nil, model.NewValidationError("ReceiptNumber", nil, "required", "receipt number is required")
	}

	env := wire.GetReceiptData
	doc, root, err := a.document(env)
	if err != nil {
		return nil, err
	}
	settings := root.CreateElement(wire.Settings)
	a.creds.appendTo(settings)
	child(settings, wire.PDFDownload, strconv.FormatBool(pdf))

	header := root.CreateElement(wire.Header)
	child(header, wire.ReceiptNumber, receiptNumber)

	return finish(env, doc, true, pdf, model.Amounts{})
}

// IssueReceipt wraps r into an issue request. The reply is always structured.
func (a *Assembler) IssueReceipt(r *model.Receipt, pdf bool) (*Request, error) {
	if r == nil {
		return nil, model.NewValidationError("Receipt", nil, "required", "receipt missing")
	}

	env := wire.IssueReceipt
	doc, root, err := a.document(env)
	if err != nil {
		return nil, err
	}
	settings := root.CreateElement(wire.Settings)
	a.creds.appendTo(settings)
	child(settings, wire.PDFDownload, strconv.FormatBool(pdf))

	totals, err := a.builder.Receipt(root, r)
	if err != nil {
		return nil, err
	}
	return finish(env, doc, true, pdf, totals)
}
