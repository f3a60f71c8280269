package render

import (
	"time"

	"github.com/beevik/etree"

	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

// Builder renders documents. Its clock supplies the dates an invoice leaves
// unset.
type Builder struct {
	now func() time.Time
}

// Option configures a Builder
type Option func(*Builder)

// WithClock sets the time source used for defaulted dates
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder creates a Builder using the wall clock unless overridden
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Today returns the builder clock's current time
func (b *Builder) Today() time.Time {
	return b.now()
}

func (b *Builder) dateOr(t time.Time) *string {
	if t.IsZero() {
		return dateText(b.now())
	}
	return dateText(t)
}

// Invoice appends the header, seller, buyer and item elements of inv to
// parent. It returns the summed amounts of the rendered lines.
func (b *Builder) Invoice(parent *etree.Element, inv *model.Invoice) (model.Amounts, error) {
	if err := inv.Validate(); err != nil {
		return model.Amounts{}, err
	}

	group(parent, wire.Header,
		f(wire.IssueDate, b.dateOr(inv.IssueDate)),
		f(wire.FulfillmentDate, b.dateOr(inv.FulfillmentDate)),
		f(wire.DueDate, b.dateOr(inv.DueDate)),
		f(wire.PaymentMethod, text(inv.PaymentMethod.Value)),
		f(wire.Currency, text(inv.Currency.Code)),
		f(wire.Language, text(inv.Language.Code)),
		f(wire.Comment, optText(inv.Comment)),
		f(wire.ExchangeBank, optText(inv.ExchangeBank)),
		f(wire.ExchangeRate, optDec(inv.ExchangeRate)),
		f(wire.OrderNumber, optText(inv.OrderNumber)),
		f(wire.PrepaymentInvoice, optBool(inv.PrepaymentInvoice)),
		f(wire.FinalInvoice, optBool(inv.FinalInvoice)),
		f(wire.Proforma, optBool(inv.Proforma)),
		f(wire.LogoExtra, optText(inv.LogoImage)),
		f(wire.InvoicePrefix, optText(inv.InvoiceIDPrefix)),
		f(wire.Paid, optBool(inv.Paid)),
	)
	Seller(parent, inv.Seller)
	Buyer(parent, inv.Buyer)

	items := parent.CreateElement(wire.Items)
	amounts := make([]model.Amounts, 0, len(inv.Items))
	for i := range inv.Items {
		a, err := InvoiceItem(items, &inv.Items[i], inv.Currency)
		if err != nil {
			return model.Amounts{}, err
		}
		amounts = append(amounts, a)
	}
	return model.SumAmounts(amounts), nil
}

// Receipt appends the header, item and optional payment elements of r to
// parent. It returns the summed amounts of the rendered lines.
func (b *Builder) Receipt(parent *etree.Element, r *model.Receipt) (model.Amounts, error) {
	if err := r.Validate(); err != nil {
		return model.Amounts{}, err
	}

	group(parent, wire.Header,
		f(wire.CallID, optText(r.CallID)),
		f(wire.ReceiptPrefix, text(r.Prefix)),
		f(wire.PaymentMethod, text(r.PaymentMethod.Value)),
		f(wire.ReceiptCurrency, text(r.Currency.Code)),
		f(wire.ReceiptBank, optText(r.ExchangeBank)),
		f(wire.ReceiptRate, optDec(r.ExchangeRate)),
		f(wire.Comment, optText(r.Comment)),
		f(wire.PDFTemplate, optText(r.PDFTemplateID)),
		f(wire.BuyerLedger, optText(r.LedgerID)),
	)

	items := parent.CreateElement(wire.Items)
	amounts := make([]model.Amounts, 0, len(r.Items))
	for i := range r.Items {
		a, err := ReceiptItem(items, &r.Items[i], r.Currency)
		if err != nil {
			return model.Amounts{}, err
		}
		amounts = append(amounts, a)
	}

	if len(r.Payments) > 0 {
		payments := parent.CreateElement(wire.Payments)
		for _, p := range r.Payments {
			group(payments, wire.Payment,
				f(wire.PaymentInstr, text(p.Method)),
				f(wire.PaymentAmount, decText(p.Amount)),
				f(wire.PaymentDesc, optText(p.Description)),
			)
		}
	}
	return model.SumAmounts(amounts), nil
}
