package model_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/szamlazz-go/internal/model"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestComputeAmounts_FromNetUnitPrice(t *testing.T) {
	a, err := model.ComputeAmounts(decimal.NewFromInt(2), model.PercentInt(27), dec("100"), nil, 0)
	require.NoError(t, err)

	assert.True(t, a.NetValue.Equal(decimal.NewFromInt(200)), "net %s", a.NetValue)
	assert.True(t, a.TaxValue.Equal(decimal.NewFromInt(54)), "tax %s", a.TaxValue)
	assert.True(t, a.GrossValue.Equal(decimal.NewFromInt(254)), "gross %s", a.GrossValue)
	assert.True(t, a.NetUnitPrice.Equal(decimal.NewFromInt(100)))
}

func TestComputeAmounts_FromGrossUnitPrice(t *testing.T) {
	a, err := model.ComputeAmounts(decimal.NewFromInt(2), model.PercentInt(27), nil, dec("254"), 0)
	require.NoError(t, err)

	assert.True(t, a.GrossValue.Equal(decimal.NewFromInt(508)), "gross %s", a.GrossValue)
	assert.True(t, a.TaxValue.Equal(decimal.NewFromInt(108)), "tax %s", a.TaxValue)
	assert.True(t, a.NetValue.Equal(decimal.NewFromInt(400)), "net %s", a.NetValue)
	assert.True(t, a.NetUnitPrice.Equal(decimal.NewFromInt(200)), "unit %s", a.NetUnitPrice)
}

func TestComputeAmounts_NetWinsWhenBothGiven(t *testing.T) {
	a, err := model.ComputeAmounts(decimal.NewFromInt(1), model.PercentInt(27), dec("100"), dec("999"), 0)
	require.NoError(t, err)
	assert.True(t, a.NetValue.Equal(decimal.NewFromInt(100)))
	assert.True(t, a.GrossValue.Equal(decimal.NewFromInt(127)))
}

func TestComputeAmounts_CurrencyPrecision(t *testing.T) {
	// 3 * 3.333 = 9.999 -> 10.00 in EUR, tax 20% = 2.00
	a, err := model.ComputeAmounts(decimal.NewFromInt(3), model.PercentInt(20), dec("3.333"), nil, model.CurrencyEUR.RoundPriceExp)
	require.NoError(t, err)
	assert.True(t, a.NetValue.Equal(decimal.RequireFromString("10")))
	assert.True(t, a.TaxValue.Equal(decimal.RequireFromString("2")))

	// Gross side keeps the derived unit price at two digits even in HUF
	a, err = model.ComputeAmounts(decimal.NewFromInt(3), model.PercentInt(27), nil, dec("1000"), 0)
	require.NoError(t, err)
	assert.True(t, a.GrossValue.Equal(decimal.NewFromInt(3000)))
	assert.True(t, a.TaxValue.Equal(decimal.NewFromInt(638)))
	assert.True(t, a.NetValue.Equal(decimal.NewFromInt(2362)))
	assert.True(t, a.NetUnitPrice.Equal(decimal.RequireFromString("787.33")))
}

func TestComputeAmounts_ExemptRates(t *testing.T) {
	codes := []model.ExemptionCode{
		model.ExemptTAM, model.ExemptAAM, model.ExemptEU,
		model.ExemptEUK, model.ExemptMAA, model.ExemptAKK,
	}

	for _, code := range codes {
		t.Run(string(code), func(t *testing.T) {
			a, err := model.ComputeAmounts(decimal.NewFromInt(3), model.Exempt(code), dec("10.4"), nil, 0)
			require.NoError(t, err)
			assert.True(t, a.TaxValue.IsZero())
			assert.True(t, a.NetValue.Equal(a.GrossValue))
			assert.True(t, a.NetValue.Equal(decimal.NewFromInt(31)))

			a, err = model.ComputeAmounts(decimal.NewFromInt(3), model.Exempt(code), nil, dec("10"), 0)
			require.NoError(t, err)
			assert.True(t, a.TaxValue.IsZero())
			assert.True(t, a.NetValue.Equal(a.GrossValue))
			assert.True(t, a.NetUnitPrice.Equal(decimal.NewFromInt(10)))
		})
	}
}

func TestComputeAmounts_NetPlusTaxEqualsGross(t *testing.T) {
	rates := []int64{0, 5, 18, 27}
	prices := []string{"0.01", "1", "9.99", "123.455", "1000.5"}
	quantities := []string{"1", "2", "0.5", "7", "-1"}

	for _, exp := range []int32{0, 1, 2, 3} {
		for _, rate := range rates {
			for _, price := range prices {
				for _, qty := range quantities {
					name := fmt.Sprintf("exp=%d rate=%d price=%s qty=%s", exp, rate, price, qty)
					q := decimal.RequireFromString(qty)

					a, err := model.ComputeAmounts(q, model.PercentInt(rate), dec(price), nil, exp)
					require.NoError(t, err, name)
					assert.True(t, a.NetValue.Add(a.TaxValue).Equal(a.GrossValue), "net mode %s", name)

					a, err = model.ComputeAmounts(q, model.PercentInt(rate), nil, dec(price), exp)
					require.NoError(t, err, name)
					assert.True(t, a.NetValue.Add(a.TaxValue).Equal(a.GrossValue), "gross mode %s", name)
				}
			}
		}
	}
}

func TestComputeAmounts_Errors(t *testing.T) {
	tests := []struct {
		name  string
		qty   decimal.Decimal
		rate  model.TaxRate
		net   *decimal.Decimal
		gross *decimal.Decimal
		field string
	}{
		{"zero quantity", decimal.Zero, model.PercentInt(27), dec("1"), nil, "Quantity"},
		{"no unit price", decimal.NewFromInt(1), model.PercentInt(27), nil, nil, "UnitPrice"},
		{"unset tax rate", decimal.NewFromInt(1), model.TaxRate{}, dec("1"), nil, "TaxRate"},
		{"negative tax rate", decimal.NewFromInt(1), model.PercentInt(-5), dec("1"), nil, "TaxRate"},
		{"unknown exemption", decimal.NewFromInt(1), model.Exempt("XYZ"), dec("1"), nil, "TaxRate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.ComputeAmounts(tt.qty, tt.rate, tt.net, tt.gross, 0)
			require.Error(t, err)

			var vErr *model.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestLineItem_Calculate(t *testing.T) {
	item := model.LineItem{
		Label:        "Consulting",
		Quantity:     decimal.NewFromInt(2),
		Unit:         "hour",
		TaxRate:      model.PercentInt(27),
		NetUnitPrice: dec("100"),
	}

	a, err := item.Calculate(model.CurrencyHUF)
	require.NoError(t, err)
	assert.True(t, a.GrossValue.Equal(decimal.NewFromInt(254)))
}

func TestLineItem_Validate_EmptyLabel(t *testing.T) {
	item := model.LineItem{
		Label:        "   ",
		Quantity:     decimal.NewFromInt(1),
		TaxRate:      model.PercentInt(27),
		NetUnitPrice: dec("100"),
	}

	_, err := item.Calculate(model.CurrencyHUF)
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Label", vErr.Field)
}

func TestSumAmounts(t *testing.T) {
	total := model.SumAmounts([]model.Amounts{
		{NetValue: decimal.NewFromInt(200), TaxValue: decimal.NewFromInt(54), GrossValue: decimal.NewFromInt(254)},
		{NetValue: decimal.NewFromInt(400), TaxValue: decimal.NewFromInt(108), GrossValue: decimal.NewFromInt(508)},
	})

	assert.True(t, total.NetValue.Equal(decimal.NewFromInt(600)))
	assert.True(t, total.TaxValue.Equal(decimal.NewFromInt(162)))
	assert.True(t, total.GrossValue.Equal(decimal.NewFromInt(762)))
}
