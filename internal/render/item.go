package render

import (
	"github.com/beevik/etree"

	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

// valueNames are the element names of a line's computed amounts
type valueNames struct {
	net, tax, gross string
}

var (
	invoiceValues = valueNames{wire.InvoiceNetValue, wire.InvoiceTaxValue, wire.InvoiceGrossVal}
	receiptValues = valueNames{wire.ReceiptNetValue, wire.ReceiptTaxValue, wire.ReceiptGrossVal}
)

// InvoiceItem computes li in currency cur and appends it as an invoice line
func InvoiceItem(parent *etree.Element, li *model.LineItem, cur model.Currency) (model.Amounts, error) {
	return lineItem(parent, li, cur, invoiceValues, true)
}

// ReceiptItem computes li in currency cur and appends it as a receipt line.
// Receipt lines carry no comment.
func ReceiptItem(parent *etree.Element, li *model.LineItem, cur model.Currency) (model.Amounts, error) {
	return lineItem(parent, li, cur, receiptValues, false)
}

func lineItem(parent *etree.Element, li *model.LineItem, cur model.Currency, names valueNames, withComment bool) (model.Amounts, error) {
	a, err := li.Calculate(cur)
	if err != nil {
		return model.Amounts{}, err
	}

	comment := li.Comment
	if !withComment {
		comment = nil
	}

	group(parent, wire.Item,
		f(wire.Label, text(li.Label)),
		f(wire.Identifier, optText(li.ID)),
		f(wire.Quantity, decText(li.Quantity)),
		f(wire.Unit, text(li.Unit)),
		f(wire.NetUnitPrice, decText(a.NetUnitPrice)),
		f(wire.TaxRate, text(li.TaxRate.String())),
		f(names.net, decText(a.NetValue)),
		f(names.tax, decText(a.TaxValue)),
		f(names.gross, decText(a.GrossValue)),
		f(wire.Comment, optText(comment)),
	)
	return a, nil
}
