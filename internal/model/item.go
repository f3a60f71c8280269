package model

import (
	"strings"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/szamlazz-go/internal/decimal"
)

// LineItem is one billable line of an invoice or receipt.
// Exactly one of NetUnitPrice and GrossUnitPrice drives the calculation;
// when both are set the net price wins.
type LineItem struct {
	Label          string           `json:"label"`
	ID             *string          `json:"id,omitempty"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Unit           string           `json:"unit"`
	TaxRate        TaxRate          `json:"tax_rate"`
	NetUnitPrice   *decimal.Decimal `json:"net_unit_price,omitempty"`
	GrossUnitPrice *decimal.Decimal `json:"gross_unit_price,omitempty"`
	Comment        *string          `json:"comment,omitempty"`
}

// Amounts are the monetary fields derived for one line item
type Amounts struct {
	NetUnitPrice decimal.Decimal
	NetValue     decimal.Decimal
	TaxValue     decimal.Decimal
	GrossValue   decimal.Decimal
}

// ComputeAmounts derives net, tax and gross values of a line from the unit
// price given, honoring the currency's rounding exponent.
func ComputeAmounts(quantity decimal.Decimal, rate TaxRate, netUnitPrice, grossUnitPrice *decimal.Decimal, roundPriceExp int32) (Amounts, error) {
	if quantity.IsZero() {
		return Amounts{}, NewValidationError("Quantity", quantity.String(), "non-zero", "quantity must not be zero")
	}
	if err := rate.Validate(); err != nil {
		return Amounts{}, err
	}

	var a Amounts
	switch {
	case netUnitPrice != nil:
		a.NetUnitPrice = *netUnitPrice
		a.NetValue = money.RoundPrice(netUnitPrice.Mul(quantity), roundPriceExp)
		if rate.IsExempt() {
			a.TaxValue = money.Zero
		} else {
			a.TaxValue = money.PercentOf(a.NetValue, rate.PercentValue(), roundPriceExp)
		}
		a.GrossValue = a.NetValue.Add(a.TaxValue)
	case grossUnitPrice != nil:
		a.GrossValue = money.RoundPrice(grossUnitPrice.Mul(quantity), roundPriceExp)
		if rate.IsExempt() {
			a.TaxValue = money.Zero
		} else {
			a.TaxValue = money.IncludedTax(a.GrossValue, rate.PercentValue(), roundPriceExp)
		}
		a.NetValue = a.GrossValue.Sub(a.TaxValue)
		a.NetUnitPrice = money.UnitPrice(a.NetValue, quantity)
	default:
		return Amounts{}, NewValidationError("UnitPrice", nil, "required", "net or gross unit price is required")
	}
	return a, nil
}

// Validate checks the caller-supplied fields of the line
func (li *LineItem) Validate() error {
	if strings.TrimSpace(li.Label) == "" {
		return NewValidationError("Label", nil, "required", "label must not be empty")
	}
	if li.Quantity.IsZero() {
		return NewValidationError("Quantity", li.Quantity.String(), "non-zero", "quantity must not be zero")
	}
	if err := li.TaxRate.Validate(); err != nil {
		return err
	}
	if li.NetUnitPrice == nil && li.GrossUnitPrice == nil {
		return NewValidationError("UnitPrice", li.Label, "required", "net or gross unit price is required")
	}
	return nil
}

// Calculate validates the line and computes its amounts in currency cur
func (li *LineItem) Calculate(cur Currency) (Amounts, error) {
	if err := li.Validate(); err != nil {
		return Amounts{}, err
	}
	return ComputeAmounts(li.Quantity, li.TaxRate, li.NetUnitPrice, li.GrossUnitPrice, cur.RoundPriceExp)
}

// SumAmounts totals the amounts of several lines
func SumAmounts(all []Amounts) Amounts {
	var total Amounts
	for _, a := range all {
		total.NetValue = total.NetValue.Add(a.NetValue)
		total.TaxValue = total.TaxValue.Add(a.TaxValue)
		total.GrossValue = total.GrossValue.Add(a.GrossValue)
	}
	return total
}
