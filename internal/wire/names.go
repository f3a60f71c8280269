// Package wire holds every element, attribute, header and form-field name of
// the Számlázz.hu agent protocol. The remote service validates requests against
// schemas it owns, so these strings and the element order built from them are
// fixed.
package wire

// DefaultURL is the agent endpoint
const DefaultURL = "https://www.szamlazz.hu/szamla/"

// Request file part
const (
	RequestFileName    = "request.xml"
	RequestContentType = "text/xml"
)

// DateLayout is the textual date format of every date element
const DateLayout = "2006-01-02"

// Response headers
const (
	HeaderErrorCode     = "szlahu_error_code"
	HeaderError         = "szlahu_error"
	HeaderInvoiceNumber = "szlahu_szamlaszam"
	HeaderNetTotal      = "szlahu_nettovegosszeg"
	HeaderGrossTotal    = "szlahu_bruttovegosszeg"
	HeaderSetCookie     = "Set-Cookie"
	HeaderCookie        = "Cookie"
)

// Envelope attributes
const (
	AttrXMLNS          = "xmlns"
	AttrXMLNSXSI       = "xmlns:xsi"
	AttrSchemaLocation = "xsi:schemaLocation"
	XSINamespace       = "http://www.w3.org/2001/XMLSchema-instance"
)

// Authentication and settings
const (
	Settings      = "beallitasok"
	Header        = "fejlec"
	AgentKey      = "szamlaagentkulcs"
	User          = "felhasznalo"
	Password      = "jelszo"
	EInvoice      = "eszamla"
	Download      = "szamlaLetoltes"
	DownloadCount = "szamlaLetoltesPld"
	ReplyVersion  = "valaszVerzio"
	PDFDownload   = "pdfLetoltes"
	PDFFlag       = "pdf"
)

// Invoice header
const (
	IssueDate         = "keltDatum"
	FulfillmentDate   = "teljesitesDatum"
	DueDate           = "fizetesiHataridoDatum"
	PaymentMethod     = "fizmod"
	Currency          = "penznem"
	Language          = "szamlaNyelve"
	Comment           = "megjegyzes"
	ExchangeBank      = "arfolyamBank"
	ExchangeRate      = "arfolyam"
	OrderNumber       = "rendelesSzam"
	PrepaymentInvoice = "elolegszamla"
	FinalInvoice      = "vegszamla"
	Proforma          = "dijbekero"
	LogoExtra         = "logoExtra"
	InvoicePrefix     = "szamlaszamElotag"
	Paid              = "fizetve"
	InvoiceNumber     = "szamlaszam"
)

// Seller
const (
	Seller        = "elado"
	Bank          = "bank"
	BankAccount   = "bankszamlaszam"
	EmailReplyTo  = "emailReplyto"
	EmailSubject  = "emailTargy"
	EmailText     = "emailSzoveg"
	SignatoryName = "alairoNeve"
)

// Buyer
const (
	Buyer       = "vevo"
	Name        = "nev"
	Country     = "orszag"
	Zip         = "irsz"
	City        = "telepules"
	Address     = "cim"
	Email       = "email"
	SendEmail   = "sendEmail"
	TaxSubject  = "adoalany"
	TaxNumber   = "adoszam"
	PostName    = "postazasiNev"
	PostZip     = "postazasiIrsz"
	PostCity    = "postazasiTelepules"
	PostAddress = "postazasiCim"
	Identifier  = "azonosito"
	Phone       = "telefonszam"
)

// Line items
const (
	Items           = "tetelek"
	Item            = "tetel"
	Label           = "megnevezes"
	Quantity        = "mennyiseg"
	Unit            = "mennyisegiEgyseg"
	NetUnitPrice    = "nettoEgysegar"
	TaxRate         = "afakulcs"
	InvoiceNetValue = "nettoErtek"
	InvoiceTaxValue = "afaErtek"
	InvoiceGrossVal = "bruttoErtek"
	ReceiptNetValue = "netto"
	ReceiptTaxValue = "afa"
	ReceiptGrossVal = "brutto"
)

// Receipt header and payments
const (
	CallID          = "hivasAzonosito"
	ReceiptPrefix   = "elotag"
	ReceiptCurrency = "penznem"
	ReceiptBank     = "devizabank"
	ReceiptRate     = "devizaarf"
	PDFTemplate     = "pdfSablon"
	BuyerLedger     = "fokonyvVevo"
	ReceiptNumber   = "nyugtaszam"
	Payments        = "kifizetesek"
	Payment         = "kifizetes"
	PaymentInstr    = "fizetoeszkoz"
	PaymentAmount   = "osszeg"
	PaymentDesc     = "leiras"
)

// Reply documents
const (
	Success      = "sikeres"
	ErrorCode    = "hibakod"
	ErrorMessage = "hibauzenet"
	Base         = "alap"
	Totals       = "osszegek"
	GrandTotal   = "totalossz"
	Receipt      = "nyugta"
	ReceiptPDF   = "nyugtaPdf"
	InvoicePDF   = "pdf"
	ReplyNet     = "szamlanetto"
	ReplyGross   = "szamlabrutto"
	Storno       = "stornozott"
	ReplyType    = "tipus"
	ReplyID      = "id"
)

// Envelope describes one operation kind's request and reply documents
type Envelope struct {
	Name           string
	Root           string
	Namespace      string
	SchemaLocation string
	FileField      string
	ReplyRoot      string
	DataElement    string
	PDFElement     string
	// Reply paths, relative to the data element
	IDPath    string
	NetPath   string
	GrossPath string
}

// The five operations of the agent
var (
	GetInvoiceData = Envelope{
		Name:           "get-invoice-data",
		Root:           "xmlszamlaxml",
		Namespace:      "http://www.szamlazz.hu/xmlszamlaxml",
		SchemaLocation: "http://www.szamlazz.hu/xmlszamlaxml http://www.szamlazz.hu/docs/xsds/agentpdf/xmlszamlaxml.xsd",
		FileField:      "action-szamla_agent_xml",
		ReplyRoot:      "szamla",
		PDFElement:     InvoicePDF,
		IDPath:         Base + "/" + InvoiceNumber,
		NetPath:        totalPath(ReceiptNetValue),
		GrossPath:      totalPath(ReceiptGrossVal),
	}
	ReverseInvoice = Envelope{
		Name:           "reverse-invoice",
		Root:           "xmlszamlast",
		Namespace:      "http://www.szamlazz.hu/xmlszamlast",
		SchemaLocation: "http://www.szamlazz.hu/xmlszamlast https://www.szamlazz.hu/szamla/docs/xsds/agentst/xmlszamlast.xsd",
		FileField:      "action-szamla_agent_st",
		ReplyRoot:      "xmlszamlavalasz",
		PDFElement:     InvoicePDF,
		IDPath:         InvoiceNumber,
		NetPath:        ReplyNet,
		GrossPath:      ReplyGross,
	}
	IssueInvoice = Envelope{
		Name:           "issue-invoice",
		Root:           "xmlszamla",
		Namespace:      "http://www.szamlazz.hu/xmlszamla",
		SchemaLocation: "http://www.szamlazz.hu/xmlszamla xmlszamla.xsd",
		FileField:      "action-xmlagentxmlfile",
		ReplyRoot:      "xmlszamlavalasz",
		PDFElement:     InvoicePDF,
		IDPath:         InvoiceNumber,
		NetPath:        ReplyNet,
		GrossPath:      ReplyGross,
	}
	GetReceiptData = Envelope{
		Name:           "get-receipt-data",
		Root:           "xmlnyugtaget",
		Namespace:      "http://www.szamlazz.hu/xmlnyugtaget",
		SchemaLocation: "http://www.szamlazz.hu/xmlnyugtaget http://www.szamlazz.hu/docs/xsds/agentpdf/xmlnyugtaget.xsd",
		FileField:      "action-szamla_agent_nyugta_get",
		ReplyRoot:      "xmlnyugtavalasz",
		DataElement:    Receipt,
		PDFElement:     ReceiptPDF,
		IDPath:         Base + "/" + ReceiptNumber,
		NetPath:        totalPath(ReceiptNetValue),
		GrossPath:      totalPath(ReceiptGrossVal),
	}
	IssueReceipt = Envelope{
		Name:           "issue-receipt",
		Root:           "xmlnyugtacreate",
		Namespace:      "http://www.szamlazz.hu/xmlnyugtacreate",
		SchemaLocation: "http://www.szamlazz.hu/xmlnyugtacreate http://www.szamlazz.hu/docs/xsds/nyugta/xmlnyugtacreate.xsd",
		FileField:      "action-szamla_agent_nyugta_create",
		ReplyRoot:      "xmlnyugtavalasz",
		DataElement:    Receipt,
		PDFElement:     ReceiptPDF,
		IDPath:         Base + "/" + ReceiptNumber,
		NetPath:        totalPath(ReceiptNetValue),
		GrossPath:      totalPath(ReceiptGrossVal),
	}
)

func totalPath(name string) string {
	return Totals + "/" + GrandTotal + "/" + name
}

// Envelopes lists every operation, in protocol order
func Envelopes() []Envelope {
	return []Envelope{GetInvoiceData, ReverseInvoice, IssueInvoice, GetReceiptData, IssueReceipt}
}

// LookupFileField finds the operation a multipart field name belongs to
func LookupFileField(field string) (Envelope, bool) {
	for _, e := range Envelopes() {
		if e.FileField == field {
			return e, true
		}
	}
	return Envelope{}, false
}
