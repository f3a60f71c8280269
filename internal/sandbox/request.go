package sandbox

import (
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

const maxRequestMemory = 8 << 20

// submission is one decoded agent request
type submission struct {
	env  wire.Envelope
	root *etree.Element
}

// readSubmission finds the agent file field of the multipart form and parses
// the request document it carries
func readSubmission(c *gin.Context) (*submission, error) {
	if err := c.Request.ParseMultipartForm(maxRequestMemory); err != nil {
		return nil, errors.Wrap(err, "read multipart form")
	}
	for field, files := range c.Request.MultipartForm.File {
		env, ok := wire.LookupFileField(field)
		if !ok || len(files) == 0 {
			continue
		}

		f, err := files[0].Open()
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", field)
		}
		defer f.Close()

		doc := etree.NewDocument()
		if _, err := doc.ReadFrom(f); err != nil {
			return nil, errors.Wrap(err, "parse request document")
		}
		root := doc.Root()
		if root == nil || root.Tag != env.Root {
			return nil, errors.Errorf("%s expects a %s document", field, env.Root)
		}
		return &submission{env: env, root: root}, nil
	}
	return nil, errors.New("no agent file field in request")
}

// value returns the trimmed text of the element at path, or ""
func value(parent *etree.Element, path string) string {
	if parent == nil {
		return ""
	}
	el := parent.FindElement(path)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

func flag(parent *etree.Element, path string) bool {
	return strings.EqualFold(value(parent, path), "true")
}

// settings returns the beallitasok block, or the root for operations that
// carry their settings at the top level
func (s *submission) settings() *etree.Element {
	if el := s.root.SelectElement(wire.Settings); el != nil {
		return el
	}
	return s.root
}

func (s *submission) header() *etree.Element {
	return s.root.SelectElement(wire.Header)
}

func (s *submission) date(fallback time.Time) (time.Time, error) {
	v := value(s.header(), wire.IssueDate)
	if v == "" {
		return fallback, nil
	}
	t, err := time.Parse(wire.DateLayout, v)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "%s", wire.IssueDate)
	}
	return t, nil
}

func (s *submission) currency() model.Currency {
	if cur, ok := model.LookupCurrency(value(s.header(), wire.Currency)); ok {
		return cur
	}
	return model.CurrencyHUF
}

// lineNames are the element names of a line's values
type lineNames struct {
	net, tax, gross string
}

var (
	invoiceLine = lineNames{wire.InvoiceNetValue, wire.InvoiceTaxValue, wire.InvoiceGrossVal}
	receiptLine = lineNames{wire.ReceiptNetValue, wire.ReceiptTaxValue, wire.ReceiptGrossVal}
)

// totals sums the request's lines. Declared line values are taken as sent;
// lines without them are recomputed from quantity, rate and net unit price.
func (s *submission) totals(names lineNames) (model.Amounts, error) {
	items := s.root.SelectElement(wire.Items)
	if items == nil {
		return model.Amounts{}, errors.Errorf("missing %s", wire.Items)
	}
	lines := items.SelectElements(wire.Item)
	if len(lines) == 0 {
		return model.Amounts{}, errors.Errorf("%s has no %s", wire.Items, wire.Item)
	}

	cur := s.currency()
	all := make([]model.Amounts, 0, len(lines))
	for i, line := range lines {
		a, err := lineAmounts(line, names, cur)
		if err != nil {
			return model.Amounts{}, errors.Wrapf(err, "%s %d", wire.Item, i+1)
		}
		all = append(all, a)
	}
	return model.SumAmounts(all), nil
}

func lineAmounts(line *etree.Element, names lineNames, cur model.Currency) (model.Amounts, error) {
	if a, ok := declaredAmounts(line, names); ok {
		return a, nil
	}

	qty, err := decimal.NewFromString(value(line, wire.Quantity))
	if err != nil {
		return model.Amounts{}, errors.Wrap(err, wire.Quantity)
	}
	rate, err := model.ParseTaxRate(value(line, wire.TaxRate))
	if err != nil {
		return model.Amounts{}, err
	}
	price, err := decimal.NewFromString(value(line, wire.NetUnitPrice))
	if err != nil {
		return model.Amounts{}, errors.Wrap(err, wire.NetUnitPrice)
	}
	return model.ComputeAmounts(qty, rate, &price, nil, cur.RoundPriceExp)
}

func declaredAmounts(line *etree.Element, names lineNames) (model.Amounts, bool) {
	var vals [3]decimal.Decimal
	for i, name := range []string{names.net, names.tax, names.gross} {
		d, err := decimal.NewFromString(value(line, name))
		if err != nil {
			return model.Amounts{}, false
		}
		vals[i] = d
	}
	return model.Amounts{NetValue: vals[0], TaxValue: vals[1], GrossValue: vals[2]}, true
}
