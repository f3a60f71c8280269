// Package szamlazz provides a public API for issuing and fetching invoices and
// receipts through the Számlázz.hu agent.
//
// Example usage:
//
//	creds, err := szamlazz.APIKey(os.Getenv("SZAMLAZZ_API_KEY"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := szamlazz.NewClient(creds)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := client.IssueInvoice(ctx, invoice)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.DocumentID, res.GrossTotal)
package szamlazz

import (
	"github.com/rezonia/szamlazz-go/internal/config"
	"github.com/rezonia/szamlazz-go/internal/envelope"
	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/reconcile"
)

// Re-export document types for public API
type (
	Invoice        = model.Invoice
	Receipt        = model.Receipt
	ReceiptPayment = model.ReceiptPayment
	LineItem       = model.LineItem
	Amounts        = model.Amounts
	Buyer          = model.Buyer
	Seller         = model.Seller
	BankAccount    = model.BankAccount
	SellerEmail    = model.SellerEmail
	PostAddress    = model.PostAddress
	TaxRate        = model.TaxRate
	ExemptionCode  = model.ExemptionCode
)

// Re-export catalog types
type (
	Currency        = model.Currency
	PaymentMethod   = model.PaymentMethod
	Language        = model.Language
	ResponseVersion = model.ResponseVersion
)

// Re-export request and reply types
type (
	Credentials     = envelope.Credentials
	InvoiceQuery    = envelope.InvoiceQuery
	InvoiceSettings = envelope.InvoiceSettings
	Result          = reconcile.Result
)

// Re-export error types
type (
	ValidationError = model.ValidationError
	TransportError  = model.TransportError
	ServiceError    = model.ServiceError
	ResponseError   = model.ResponseError
)

// Re-export exemption codes
const (
	ExemptTAM = model.ExemptTAM
	ExemptAAM = model.ExemptAAM
	ExemptEU  = model.ExemptEU
	ExemptEUK = model.ExemptEUK
	ExemptMAA = model.ExemptMAA
	ExemptAKK = model.ExemptAKK
)

// Re-export common catalog entries
var (
	CurrencyFt  = model.CurrencyFt
	CurrencyHUF = model.CurrencyHUF
	CurrencyEUR = model.CurrencyEUR
	CurrencyUSD = model.CurrencyUSD
	CurrencyGBP = model.CurrencyGBP
	CurrencyCHF = model.CurrencyCHF

	PaymentCash         = model.PaymentCash
	PaymentBankTransfer = model.PaymentBankTransfer
	PaymentCreditCard   = model.PaymentCreditCard
	PaymentPayPal       = model.PaymentPayPal
	PaymentStripe       = model.PaymentStripe

	LanguageHungarian = model.LanguageHungarian
	LanguageEnglish   = model.LanguageEnglish
	LanguageGerman    = model.LanguageGerman
	LanguageItalian   = model.LanguageItalian
	LanguageRomanian  = model.LanguageRomanian
	LanguageSlovak    = model.LanguageSlovak

	ResponsePlainTextOrPDF = model.ResponsePlainTextOrPDF
	ResponseXML            = model.ResponseXML
)

// Re-export constructors
var (
	APIKey       = envelope.APIKey
	UserPassword = envelope.UserPassword

	Percent      = model.Percent
	PercentInt   = model.PercentInt
	Exempt       = model.Exempt
	ParseTaxRate = model.ParseTaxRate

	LookupCurrency      = model.LookupCurrency
	LookupPaymentMethod = model.LookupPaymentMethod
	LookupLanguage      = model.LookupLanguage

	String = model.String
	Bool   = model.Bool
	Int    = model.Int
)

// LoadInvoice reads an invoice from a YAML document file
func LoadInvoice(path string) (*Invoice, error) {
	return config.LoadInvoice(path)
}

// LoadReceipt reads a receipt from a YAML document file
func LoadReceipt(path string) (*Receipt, error) {
	return config.LoadReceipt(path)
}
