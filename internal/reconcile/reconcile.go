// Package reconcile turns a raw agent reply into a Result or a typed error.
//
// Checks run in a fixed order and the first failure is terminal:
// transport status, error headers, then (for structured replies) the reply
// document's own failure flag.
package reconcile

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

// Response is the raw reply of the HTTP collaborator
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// Expectation describes the reply shape one request asked for
type Expectation struct {
	Envelope   wire.Envelope
	Structured bool
	ExpectPDF  bool
}

// Result is the uniform outcome of a successful operation
type Result struct {
	Operation  string
	DocumentID string
	NetTotal   *decimal.Decimal
	GrossTotal *decimal.Decimal
	PDF        []byte
	PDFBase64  string
	// Raw is the body of an unstructured reply without attachment
	Raw string
	// Data is the reply's data element of a structured reply
	Data *etree.Element
}

// HasPDF reports whether the reply carried an attachment
func (r *Result) HasPDF() bool {
	return len(r.PDF) > 0
}

// Reconcile validates resp against exp and extracts the result
func Reconcile(resp *Response, exp Expectation) (*Result, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, model.NewTransportError(resp.StatusCode, resp.Status, nil)
	}
	if err := headerError(resp.Header); err != nil {
		return nil, err
	}

	res := &Result{Operation: exp.Envelope.Name}
	if exp.Structured {
		if err := readStructured(res, resp.Body, exp); err != nil {
			return nil, err
		}
	} else if exp.ExpectPDF {
		res.PDF = resp.Body
		res.PDFBase64 = base64.StdEncoding.EncodeToString(resp.Body)
	} else {
		res.Raw = string(resp.Body)
	}

	if err := fromHeaders(res, resp.Header); err != nil {
		return nil, err
	}
	return res, nil
}

func headerError(h http.Header) error {
	code := strings.TrimSpace(h.Get(wire.HeaderErrorCode))
	if code == "" {
		return nil
	}
	return model.NewServiceError(code, DecodeMessage(h.Get(wire.HeaderError)), model.SourceHeader)
}

// DecodeMessage restores a form-encoded header message: '+' becomes a space
// and percent escapes are decoded. Malformed escapes are kept verbatim.
func DecodeMessage(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return strings.ReplaceAll(s, "+", " ")
	}
	return decoded
}

// fromHeaders overrides body-derived fields with the service's headers
func fromHeaders(res *Result, h http.Header) error {
	if id := strings.TrimSpace(h.Get(wire.HeaderInvoiceNumber)); id != "" {
		res.DocumentID = id
	}
	for _, t := range []struct {
		header string
		dst    **decimal.Decimal
	}{
		{wire.HeaderNetTotal, &res.NetTotal},
		{wire.HeaderGrossTotal, &res.GrossTotal},
	} {
		v := strings.TrimSpace(h.Get(t.header))
		if v == "" {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return model.NewResponseError(res.Operation, t.header, "total is not a number", err)
		}
		*t.dst = &d
	}
	return nil
}

func readStructured(res *Result, body []byte, exp Expectation) error {
	env := exp.Envelope
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return model.NewResponseError(env.Name, "body", "malformed XML", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != env.ReplyRoot {
		got := ""
		if root != nil {
			got = root.Tag
		}
		return model.NewResponseError(env.Name, "body", fmt.Sprintf("unexpected root element %q, want %q", got, env.ReplyRoot), nil)
	}

	if err := bodyError(root); err != nil {
		return err
	}

	data := root
	if env.DataElement != "" {
		if el := root.SelectElement(env.DataElement); el != nil {
			data = el
		}
	}
	res.Data = data

	res.DocumentID = elementText(data, env.IDPath)
	for _, t := range []struct {
		path string
		dst  **decimal.Decimal
	}{
		{env.NetPath, &res.NetTotal},
		{env.GrossPath, &res.GrossTotal},
	} {
		v := elementText(data, t.path)
		if v == "" {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return model.NewResponseError(env.Name, t.path, "total is not a number", err)
		}
		*t.dst = &d
	}

	if env.PDFElement == "" {
		return nil
	}
	pdfEl := root.SelectElement(env.PDFElement)
	if pdfEl == nil {
		return nil
	}
	res.PDFBase64 = strings.TrimSpace(pdfEl.Text())
	pdf, err := base64.StdEncoding.DecodeString(stripSpace(res.PDFBase64))
	if err != nil {
		return model.NewResponseError(env.Name, env.PDFElement, "attachment is not valid base64", err)
	}
	res.PDF = pdf
	return nil
}

// bodyError reports a failure flagged inside the reply document
func bodyError(root *etree.Element) error {
	if !strings.EqualFold(elementText(root, wire.Success), "false") {
		return nil
	}
	code := elementText(root, wire.ErrorCode)
	msg := elementText(root, wire.ErrorMessage)
	if msg == "" {
		msg = "request failed"
	}
	return model.NewServiceError(code, msg, model.SourceBody)
}

func elementText(parent *etree.Element, path string) string {
	if path == "" {
		return ""
	}
	el := parent.FindElement(path)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
