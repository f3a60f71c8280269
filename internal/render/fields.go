// Package render turns parties, line items, invoices and receipts into the
// element trees the agent expects. Optional fields that are absent produce no
// element; present fields keep the schema's order.
package render

import (
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	money "github.com/rezonia/szamlazz-go/internal/decimal"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

// IndentSpaces is the indentation width of written documents
const IndentSpaces = 2

// field is one (element name, optional text) pair; nil text means absent
type field struct {
	name  string
	value *string
}

func f(name string, value *string) field {
	return field{name: name, value: value}
}

// appendFields adds the present fields to parent, in order
func appendFields(parent *etree.Element, fields ...field) {
	for _, fl := range fields {
		if fl.value == nil {
			continue
		}
		parent.CreateElement(fl.name).SetText(*fl.value)
	}
}

// Group creates a child element named name holding the present fields
func group(parent *etree.Element, name string, fields ...field) *etree.Element {
	el := parent.CreateElement(name)
	appendFields(el, fields...)
	return el
}

func text(s string) *string { return &s }

func optText(p *string) *string { return p }

func boolText(b bool) *string { return text(strconv.FormatBool(b)) }

func optBool(p *bool) *string {
	if p == nil {
		return nil
	}
	return boolText(*p)
}

func intText(n int) *string { return text(strconv.Itoa(n)) }

func optInt(p *int) *string {
	if p == nil {
		return nil
	}
	return intText(*p)
}

func decText(d decimal.Decimal) *string { return text(money.Format(d)) }

func optDec(p *decimal.Decimal) *string {
	if p == nil {
		return nil
	}
	return decText(*p)
}

func dateText(t time.Time) *string { return text(t.Format(wire.DateLayout)) }

// Write serializes doc with the agent's indentation
func Write(doc *etree.Document) ([]byte, error) {
	doc.Indent(IndentSpaces)
	return doc.WriteToBytes()
}

// Fragment serializes a single element, for inspection and tests
func Fragment(el *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	doc.Indent(IndentSpaces)
	return doc.WriteToString()
}
