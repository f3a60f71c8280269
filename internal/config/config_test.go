package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/szamlazz-go/internal/config"
	"github.com/rezonia/szamlazz-go/internal/model"
)

var allEnv = []string{
	config.EnvAPIKey, config.EnvUser, config.EnvPassword, config.EnvURL, config.EnvTimeout,
	config.EnvEInvoice, config.EnvDownload, config.EnvDownloadCount, config.EnvResponseVersion,
	config.EnvLogLevel,
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnv {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://www.szamlazz.hu/szamla/", cfg.URL)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.DownloadCount)
	assert.Equal(t, "info", cfg.LogLevel)

	s := cfg.InvoiceSettings()
	assert.False(t, s.Download)
	assert.Equal(t, model.ResponsePlainTextOrPDF, s.ResponseVersion)

	_, err = cfg.Credentials()
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestFromEnv_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvUser, "demo")
	t.Setenv(config.EnvPassword, "secret")
	t.Setenv(config.EnvURL, "http://localhost:8089/szamla/")
	t.Setenv(config.EnvTimeout, "5s")
	t.Setenv(config.EnvDownload, "true")
	t.Setenv(config.EnvDownloadCount, "3")
	t.Setenv(config.EnvResponseVersion, "2")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8089/szamla/", cfg.URL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	s := cfg.InvoiceSettings()
	assert.True(t, s.Download)
	assert.Equal(t, 3, s.DownloadCount)
	assert.True(t, s.ResponseVersion.Structured())

	creds, err := cfg.Credentials()
	require.NoError(t, err)
	assert.False(t, creds.UsesAPIKey())
}

func TestFromEnv_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvResponseVersion, "7")
	_, err := config.FromEnv()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv(config.EnvDownloadCount, "0")
	_, err = config.FromEnv()
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SZAMLAZZ_API_KEY=file-key\n"), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.APIKey)

	_, err = config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

const invoiceYAML = `
issue_date: 2024-01-02
payment_method: bank transfer
currency: HUF
language: hu
order_number: ORD-7
proforma: true
seller:
  bank:
    name: OTP
    account_number: 11111111-22222222-33333333
buyer:
  name: Kovacs Bt.
  zip: "1234"
  city: Budapest
  address: Fo utca 1.
  tax_subject: 7
  post_address:
    name: Kovacs Janos
    zip: "4321"
    city: Debrecen
    address: Kossuth ter 2.
items:
  - label: Consulting
    quantity: 2
    unit: hour
    tax_rate: 27
    net_unit_price: 100
  - label: Export
    quantity: "1.5"
    unit: pcs
    tax_rate: EUK
    gross_unit_price: "10.25"
`

func TestParseInvoice(t *testing.T) {
	inv, err := config.ParseInvoice([]byte(invoiceYAML))
	require.NoError(t, err)
	require.NoError(t, inv.Validate())

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), inv.IssueDate)
	assert.True(t, inv.FulfillmentDate.IsZero())
	assert.Equal(t, model.PaymentBankTransfer, inv.PaymentMethod)
	assert.Equal(t, model.CurrencyHUF, inv.Currency)
	assert.Equal(t, "ORD-7", *inv.OrderNumber)
	assert.True(t, *inv.Proforma)
	assert.Equal(t, "OTP", inv.Seller.Bank.Name)
	assert.Equal(t, 7, *inv.Buyer.TaxSubject)
	assert.Equal(t, "Debrecen", inv.Buyer.PostAddress.City)

	require.Len(t, inv.Items, 2)
	assert.True(t, inv.Items[0].Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, inv.Items[0].NetUnitPrice.Equal(decimal.NewFromInt(100)))
	assert.Nil(t, inv.Items[0].GrossUnitPrice)
	assert.True(t, inv.Items[1].TaxRate.IsExempt())
	assert.True(t, inv.Items[1].GrossUnitPrice.Equal(decimal.RequireFromString("10.25")))
}

func TestParseInvoice_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad date", "issue_date: 02/01/2024\n"},
		{"unknown currency", "currency: XXX\n"},
		{"unknown payment method", "payment_method: barter\n"},
		{"unknown language", "language: klingon\n"},
		{"bad tax rate", "items:\n  - label: x\n    tax_rate: VAT\n"},
		{"not yaml", "items: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ParseInvoice([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestLoadReceipt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prefix: NYGT
payment_method: cash
currency: Ft
items:
  - label: Tea
    quantity: 1
    unit: cup
    tax_rate: 27
    gross_unit_price: 500
payments:
  - method: készpénz
    amount: 500
`), 0o600))

	r, err := config.LoadReceipt(path)
	require.NoError(t, err)
	require.NoError(t, r.Validate())
	assert.Equal(t, "NYGT", r.Prefix)
	assert.Equal(t, model.CurrencyFt, r.Currency)
	require.Len(t, r.Payments, 1)
	assert.True(t, r.Payments[0].Amount.Equal(decimal.NewFromInt(500)))

	_, err = config.LoadReceipt(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
