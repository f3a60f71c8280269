package model

import "strings"

// Currency is a currency code with the precision line amounts are rounded to
type Currency struct {
	Code          string
	RoundPriceExp int32
	Comment       string
}

func (c Currency) String() string { return c.Code }

// IsZero reports whether the currency was left unset
func (c Currency) IsZero() bool { return c.Code == "" }

// IsHome reports whether c is the service's home currency
func (c Currency) IsHome() bool {
	return c.Code == CurrencyFt.Code || c.Code == CurrencyHUF.Code
}

// PaymentMethod is a payment method as the service names it
type PaymentMethod struct {
	Value   string
	Comment string
}

func (p PaymentMethod) String() string { return p.Value }

// IsZero reports whether the payment method was left unset
func (p PaymentMethod) IsZero() bool { return p.Value == "" }

// Language is a document language code
type Language struct {
	Code string
	Name string
}

func (l Language) String() string { return l.Code }

// IsZero reports whether the language was left unset
func (l Language) IsZero() bool { return l.Code == "" }

// ResponseVersion selects the reply shape of invoice operations
type ResponseVersion struct {
	Value   int
	Comment string
}

func (r ResponseVersion) String() string { return r.Comment }

// Structured reports whether the service answers with an XML document
func (r ResponseVersion) Structured() bool { return r.Value == ResponseXML.Value }

// Currencies
var (
	CurrencyFt  = Currency{"Ft", 0, "Hungarian Forint"}
	CurrencyHUF = Currency{"HUF", 0, "Hungarian Forint"}
	CurrencyEUR = Currency{"EUR", 2, "Euro"}
	CurrencyCHF = Currency{"CHF", 2, "Swiss Franc"}
	CurrencyUSD = Currency{"USD", 2, "US Dollar"}
	CurrencyAUD = Currency{"AUD", 2, "Australian Dollar"}
	CurrencyAED = Currency{"AED", 2, "Emirati Dirham"}
	CurrencyBGN = Currency{"BGN", 2, "Bulgarian Lev"}
	CurrencyCAD = Currency{"CAD", 2, "Canadian Dollar"}
	CurrencyCNY = Currency{"CNY", 2, "Chinese Yuan Renminbi"}
	CurrencyCZK = Currency{"CZK", 2, "Czech Koruna"}
	CurrencyDKK = Currency{"DKK", 2, "Danish Krone"}
	CurrencyEEK = Currency{"EEK", 2, "Estonian Kroon"}
	CurrencyGBP = Currency{"GBP", 2, "British Pound"}
	CurrencyHRK = Currency{"HRK", 2, "Croatian Kuna"}
	CurrencyISK = Currency{"ISK", 2, "Icelandic Krona"}
	CurrencyJPY = Currency{"JPY", 2, "Japanese Yen"}
	CurrencyLTL = Currency{"LTL", 2, "Lithuanian Litas"}
	CurrencyLVL = Currency{"LVL", 2, "Latvian Lats"}
	CurrencyNOK = Currency{"NOK", 2, "Norwegian Krone"}
	CurrencyNZD = Currency{"NZD", 2, "New Zealand Dollar"}
	CurrencyPLN = Currency{"PLN", 2, "Polish Zloty"}
	CurrencyRON = Currency{"RON", 2, "Romanian New Leu"}
	CurrencyRUB = Currency{"RUB", 2, "Russian Ruble"}
	CurrencySEK = Currency{"SEK", 2, "Swedish Krona"}
	CurrencySKK = Currency{"SKK", 2, "Slovak Koruna"}
	CurrencyUAH = Currency{"UAH", 2, "Ukrainian Hryvnia"}
)

// Payment methods
var (
	PaymentCash         = PaymentMethod{"Készpénz", "cash"}
	PaymentBankTransfer = PaymentMethod{"Átutalás", "bank transfer"}
	PaymentCreditCard   = PaymentMethod{"Bankkártya", "credit card"}
	PaymentPayPal       = PaymentMethod{"PayPal", "PayPal"}
	PaymentStripe       = PaymentMethod{"Stripe", "Stripe"}
)

// Languages
var (
	LanguageHungarian = Language{"hu", "Hungarian"}
	LanguageEnglish   = Language{"en", "English"}
	LanguageGerman    = Language{"de", "German"}
	LanguageItalian   = Language{"it", "Italian"}
	LanguageRomanian  = Language{"ro", "Romanian"}
	LanguageSlovak    = Language{"sk", "Slovak"}
)

// Response versions
var (
	ResponsePlainTextOrPDF = ResponseVersion{1, "text"}
	ResponseXML            = ResponseVersion{2, "xml"}
)

var currencies = []Currency{
	CurrencyFt, CurrencyHUF, CurrencyEUR, CurrencyCHF, CurrencyUSD, CurrencyAUD,
	CurrencyAED, CurrencyBGN, CurrencyCAD, CurrencyCNY, CurrencyCZK, CurrencyDKK,
	CurrencyEEK, CurrencyGBP, CurrencyHRK, CurrencyISK, CurrencyJPY, CurrencyLTL,
	CurrencyLVL, CurrencyNOK, CurrencyNZD, CurrencyPLN, CurrencyRON, CurrencyRUB,
	CurrencySEK, CurrencySKK, CurrencyUAH,
}

var paymentMethods = []PaymentMethod{
	PaymentCash, PaymentBankTransfer, PaymentCreditCard, PaymentPayPal, PaymentStripe,
}

var languages = []Language{
	LanguageHungarian, LanguageEnglish, LanguageGerman,
	LanguageItalian, LanguageRomanian, LanguageSlovak,
}

// Currencies returns the currency catalog
func Currencies() []Currency {
	return append([]Currency(nil), currencies...)
}

// LookupCurrency finds a currency by code, case-insensitively
func LookupCurrency(code string) (Currency, bool) {
	for _, c := range currencies {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Currency{}, false
}

// LookupPaymentMethod finds a payment method by service value or English comment
func LookupPaymentMethod(name string) (PaymentMethod, bool) {
	for _, p := range paymentMethods {
		if strings.EqualFold(p.Value, name) || strings.EqualFold(p.Comment, name) {
			return p, true
		}
	}
	return PaymentMethod{}, false
}

// LookupLanguage finds a language by code or English name
func LookupLanguage(name string) (Language, bool) {
	for _, l := range languages {
		if strings.EqualFold(l.Code, name) || strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Language{}, false
}

// LookupResponseVersion finds a response version by its numeric value
func LookupResponseVersion(value int) (ResponseVersion, bool) {
	switch value {
	case ResponsePlainTextOrPDF.Value:
		return ResponsePlainTextOrPDF, true
	case ResponseXML.Value:
		return ResponseXML, true
	}
	return ResponseVersion{}, false
}
