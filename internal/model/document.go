package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType distinguishes invoice from receipt
type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "invoice"
	DocumentTypeReceipt DocumentType = "receipt"
)

// Invoice describes an invoice to be issued.
// Zero dates are replaced with the issuing day when rendered.
type Invoice struct {
	IssueDate       time.Time `json:"issue_date"`
	FulfillmentDate time.Time `json:"fulfillment_date"`
	DueDate         time.Time `json:"due_date"`

	PaymentMethod PaymentMethod `json:"payment_method"`
	Currency      Currency      `json:"currency"`
	Language      Language      `json:"language"`

	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
	ExchangeBank *string          `json:"exchange_bank,omitempty"`

	Seller *Seller    `json:"seller"`
	Buyer  *Buyer     `json:"buyer"`
	Items  []LineItem `json:"items"`

	OrderNumber       *string `json:"order_number,omitempty"`
	Comment           *string `json:"comment,omitempty"`
	LogoImage         *string `json:"logo_image,omitempty"`
	InvoiceIDPrefix   *string `json:"invoice_id_prefix,omitempty"`
	PrepaymentInvoice *bool   `json:"prepayment_invoice,omitempty"`
	FinalInvoice      *bool   `json:"final_invoice,omitempty"`
	Proforma          *bool   `json:"proforma,omitempty"`
	Paid              *bool   `json:"paid,omitempty"`
}

// Validate checks mandatory fields and the exchange-rate pairing
func (inv *Invoice) Validate() error {
	if inv.PaymentMethod.IsZero() {
		return NewValidationError("PaymentMethod", nil, "required", "payment method missing")
	}
	if inv.Currency.IsZero() {
		return NewValidationError("Currency", nil, "required", "currency missing")
	}
	if inv.Language.IsZero() {
		return NewValidationError("Language", nil, "required", "language missing")
	}
	if err := validateExchange(inv.Currency, inv.ExchangeRate, inv.ExchangeBank); err != nil {
		return err
	}
	if inv.Seller == nil {
		return NewValidationError("Seller", nil, "required", "seller missing")
	}
	if inv.Buyer == nil {
		return NewValidationError("Buyer", nil, "required", "buyer missing")
	}
	if err := inv.Buyer.Validate(); err != nil {
		return err
	}
	if len(inv.Items) == 0 {
		return NewValidationError("Items", nil, "required", "at least one line item is required")
	}
	return nil
}

// ReceiptPayment is one entry of a receipt's payment breakdown
type ReceiptPayment struct {
	Method      string          `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description,omitempty"`
}

// Receipt describes a receipt to be issued
type Receipt struct {
	CallID        *string       `json:"call_id,omitempty"`
	Prefix        string        `json:"prefix"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Currency      Currency      `json:"currency"`

	ExchangeBank *string          `json:"exchange_bank,omitempty"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`

	Comment       *string `json:"comment,omitempty"`
	PDFTemplateID *string `json:"pdf_template_id,omitempty"`
	LedgerID      *string `json:"ledger_id,omitempty"`

	Items    []LineItem       `json:"items"`
	Payments []ReceiptPayment `json:"payments,omitempty"`
}

// Validate checks mandatory fields and the exchange-rate pairing
func (r *Receipt) Validate() error {
	if r.PaymentMethod.IsZero() {
		return NewValidationError("PaymentMethod", nil, "required", "payment method missing")
	}
	if strings.TrimSpace(r.Prefix) == "" {
		return NewValidationError("Prefix", nil, "required", "receipt number prefix missing")
	}
	if r.Currency.IsZero() {
		return NewValidationError("Currency", nil, "required", "currency missing")
	}
	if err := validateExchange(r.Currency, r.ExchangeRate, r.ExchangeBank); err != nil {
		return err
	}
	if len(r.Items) == 0 {
		return NewValidationError("Items", nil, "required", "at least one line item is required")
	}
	for i, p := range r.Payments {
		if strings.TrimSpace(p.Method) == "" {
			return NewValidationError("Payments.Method", i, "required", "payment method missing")
		}
	}
	return nil
}

func validateExchange(cur Currency, rate *decimal.Decimal, bank *string) error {
	hasRate := rate != nil
	hasBank := bank != nil && strings.TrimSpace(*bank) != ""
	if hasRate != hasBank {
		return NewValidationError("ExchangeRate", cur.Code, "pair", "exchange rate and exchange bank must be given together")
	}
	if !cur.IsHome() && !hasRate {
		return NewValidationError("ExchangeRate", cur.Code, "required", "foreign currency needs exchange rate and bank")
	}
	if hasRate && !rate.IsPositive() {
		return NewValidationError("ExchangeRate", rate.String(), "positive", "exchange rate must be positive")
	}
	return nil
}
