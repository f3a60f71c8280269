package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ExemptionCode names the legal basis of a tax-exempt line
type ExemptionCode string

const (
	ExemptTAM ExemptionCode = "TAM"
	ExemptAAM ExemptionCode = "AAM"
	ExemptEU  ExemptionCode = "EU"
	ExemptEUK ExemptionCode = "EUK"
	ExemptMAA ExemptionCode = "MAA"
	ExemptAKK ExemptionCode = "ÁKK"
)

var exemptionCodes = []ExemptionCode{ExemptTAM, ExemptAAM, ExemptEU, ExemptEUK, ExemptMAA, ExemptAKK}

// ParseExemptionCode recognizes an exemption code. "AKK" is accepted for "ÁKK".
func ParseExemptionCode(s string) (ExemptionCode, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "AKK" {
		return ExemptAKK, true
	}
	for _, c := range exemptionCodes {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type taxKind uint8

const (
	taxUnset taxKind = iota
	taxNumeric
	taxExempt
)

// TaxRate is either a numeric percent or an exemption code.
// The zero value is unset and fails validation.
type TaxRate struct {
	kind    taxKind
	percent decimal.Decimal
	code    ExemptionCode
}

// Percent creates a numeric tax rate
func Percent(p decimal.Decimal) TaxRate {
	return TaxRate{kind: taxNumeric, percent: p}
}

// PercentInt creates a numeric tax rate from a whole percent
func PercentInt(p int64) TaxRate {
	return Percent(decimal.NewFromInt(p))
}

// Exempt creates a tax-exempt rate
func Exempt(code ExemptionCode) TaxRate {
	return TaxRate{kind: taxExempt, code: code}
}

// ParseTaxRate reads a number ("27", "5.5") or an exemption code ("AAM")
func ParseTaxRate(s string) (TaxRate, error) {
	s = strings.TrimSpace(s)
	if code, ok := ParseExemptionCode(s); ok {
		return Exempt(code), nil
	}
	p, err := decimal.NewFromString(strings.TrimSuffix(s, "%"))
	if err != nil {
		return TaxRate{}, NewValidationError("TaxRate", s, "format", "neither a number nor a known exemption code")
	}
	return Percent(p), nil
}

// IsSet reports whether a rate was given
func (t TaxRate) IsSet() bool { return t.kind != taxUnset }

// IsExempt reports whether the rate is an exemption code
func (t TaxRate) IsExempt() bool { return t.kind == taxExempt }

// PercentValue returns the numeric percent; zero for exempt rates
func (t TaxRate) PercentValue() decimal.Decimal {
	if t.kind != taxNumeric {
		return decimal.Zero
	}
	return t.percent
}

// Code returns the exemption code; empty for numeric rates
func (t TaxRate) Code() ExemptionCode { return t.code }

// String renders the rate the way the service expects it in afakulcs
func (t TaxRate) String() string {
	switch t.kind {
	case taxNumeric:
		return t.percent.String()
	case taxExempt:
		return string(t.code)
	}
	return ""
}

// Validate checks the rate is set, recognized, and not negative
func (t TaxRate) Validate() error {
	switch t.kind {
	case taxUnset:
		return NewValidationError("TaxRate", nil, "required", "tax rate missing")
	case taxNumeric:
		if t.percent.IsNegative() {
			return NewValidationError("TaxRate", t.percent.String(), "range", "must not be negative")
		}
	case taxExempt:
		if _, ok := ParseExemptionCode(string(t.code)); !ok {
			return NewValidationError("TaxRate", string(t.code), "enum", "unknown exemption code")
		}
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (t TaxRate) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TaxRate) UnmarshalText(text []byte) error {
	parsed, err := ParseTaxRate(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
