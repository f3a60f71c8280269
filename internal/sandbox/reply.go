package sandbox

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"

	"github.com/beevik/etree"
	"github.com/gin-gonic/gin"

	money "github.com/rezonia/szamlazz-go/internal/decimal"
	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/render"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

// Document type codes of the reply's tipus element
const (
	typeInvoice         = "SZ"
	typeInvoiceReversal = "SS"
	typeReceipt         = "NY"
)

func replyDocument(root string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc, doc.CreateElement(root)
}

func child(parent *etree.Element, name, text string) *etree.Element {
	el := parent.CreateElement(name)
	el.SetText(text)
	return el
}

func (s *Server) writeXML(c *gin.Context, doc *etree.Document) {
	data, err := render.Write(doc)
	if err != nil {
		c.String(http.StatusInternalServerError, "%s", err.Error())
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=UTF-8", data)
}

// failHeader reports a failure the way the agent does for rejected requests:
// in the error headers, with an XML body when the reply is structured
func (s *Server) failHeader(c *gin.Context, env wire.Envelope, structured bool, code, message string) {
	c.Header(wire.HeaderErrorCode, code)
	c.Header(wire.HeaderError, url.QueryEscape(message))
	if structured && env.ReplyRoot != "" {
		s.failBody(c, env, code, message)
		return
	}
	c.String(http.StatusOK, "%s", message)
}

// failBody reports a failure inside the reply document only
func (s *Server) failBody(c *gin.Context, env wire.Envelope, code, message string) {
	doc, root := replyDocument(env.ReplyRoot)
	child(root, wire.Success, "false")
	child(root, wire.ErrorCode, code)
	child(root, wire.ErrorMessage, message)
	s.writeXML(c, doc)
}

func typeCode(doc Document) string {
	switch {
	case doc.Type == model.DocumentTypeReceipt:
		return typeReceipt
	case doc.ReversalOf != "":
		return typeInvoiceReversal
	}
	return typeInvoice
}

func appendTotals(parent *etree.Element, doc Document) {
	total := parent.CreateElement(wire.Totals).CreateElement(wire.GrandTotal)
	child(total, wire.ReceiptNetValue, money.Format(doc.Net))
	child(total, wire.ReceiptTaxValue, money.Format(doc.Tax))
	child(total, wire.ReceiptGrossVal, money.Format(doc.Gross))
}

func appendPDF(parent *etree.Element, name string, doc Document) {
	child(parent, name, base64.StdEncoding.EncodeToString(renderPDF(doc)))
}

// replyInvoice answers issue and reverse requests: totals in headers, then
// plain text, a raw PDF or an XML document
func (s *Server) replyInvoice(c *gin.Context, env wire.Envelope, doc Document, structured, pdf bool) {
	c.Header(wire.HeaderInvoiceNumber, doc.Number)
	c.Header(wire.HeaderNetTotal, money.Format(doc.Net))
	c.Header(wire.HeaderGrossTotal, money.Format(doc.Gross))

	if !structured {
		if pdf {
			c.Data(http.StatusOK, "application/pdf", renderPDF(doc))
			return
		}
		c.String(http.StatusOK, "xmlagentresponse=DONE;%s", doc.Number)
		return
	}

	out, root := replyDocument(env.ReplyRoot)
	child(root, wire.Success, "true")
	child(root, wire.InvoiceNumber, doc.Number)
	child(root, wire.ReplyNet, money.Format(doc.Net))
	child(root, wire.ReplyGross, money.Format(doc.Gross))
	if pdf {
		appendPDF(root, env.PDFElement, doc)
	}
	s.writeXML(c, out)
}

// replyInvoiceData answers a fetch-invoice request
func (s *Server) replyInvoiceData(c *gin.Context, doc Document, pdf bool) {
	out, root := replyDocument(wire.GetInvoiceData.ReplyRoot)
	base := root.CreateElement(wire.Base)
	child(base, wire.ReplyID, doc.ID)
	child(base, wire.InvoiceNumber, doc.Number)
	child(base, wire.ReplyType, typeCode(doc))
	child(base, wire.IssueDate, doc.IssueDate.Format(wire.DateLayout))
	child(base, wire.Currency, doc.Currency.Code)
	child(base, wire.Storno, strconv.FormatBool(doc.Reversed))
	if doc.OrderNo != "" {
		child(base, wire.OrderNumber, doc.OrderNo)
	}
	appendTotals(root, doc)
	if pdf {
		appendPDF(root, wire.GetInvoiceData.PDFElement, doc)
	}
	s.writeXML(c, out)
}

// replyReceipt answers issue and fetch receipt requests
func (s *Server) replyReceipt(c *gin.Context, env wire.Envelope, doc Document, pdf bool) {
	out, root := replyDocument(env.ReplyRoot)
	child(root, wire.Success, "true")

	receipt := root.CreateElement(wire.Receipt)
	base := receipt.CreateElement(wire.Base)
	child(base, wire.ReplyID, doc.ID)
	if doc.CallID != "" {
		child(base, wire.CallID, doc.CallID)
	}
	child(base, wire.ReceiptNumber, doc.Number)
	child(base, wire.ReplyType, typeCode(doc))
	child(base, wire.Storno, strconv.FormatBool(doc.Reversed))
	child(base, wire.ReceiptCurrency, doc.Currency.Code)
	appendTotals(receipt, doc)

	if pdf {
		appendPDF(root, env.PDFElement, doc)
	}
	s.writeXML(c, out)
}
