package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

type itemFile struct {
	Label          string           `yaml:"label"`
	ID             *string          `yaml:"id"`
	Quantity       decimal.Decimal  `yaml:"quantity"`
	Unit           string           `yaml:"unit"`
	TaxRate        model.TaxRate    `yaml:"tax_rate"`
	NetUnitPrice   *decimal.Decimal `yaml:"net_unit_price"`
	GrossUnitPrice *decimal.Decimal `yaml:"gross_unit_price"`
	Comment        *string          `yaml:"comment"`
}

type postAddressFile struct {
	Name    string `yaml:"name"`
	Zip     string `yaml:"zip"`
	City    string `yaml:"city"`
	Address string `yaml:"address"`
}

type buyerFile struct {
	Name        string           `yaml:"name"`
	Country     *string          `yaml:"country"`
	Zip         string           `yaml:"zip"`
	City        string           `yaml:"city"`
	Address     string           `yaml:"address"`
	Email       *string          `yaml:"email"`
	SendEmail   *bool            `yaml:"send_email"`
	TaxSubject  *int             `yaml:"tax_subject"`
	TaxNumber   *string          `yaml:"tax_number"`
	PostAddress *postAddressFile `yaml:"post_address"`
	Identifier  *string          `yaml:"identifier"`
	IssuerName  *string          `yaml:"issuer_name"`
	Phone       *string          `yaml:"phone"`
	Comment     *string          `yaml:"comment"`
}

type sellerFile struct {
	Bank *struct {
		Name          string `yaml:"name"`
		AccountNumber string `yaml:"account_number"`
	} `yaml:"bank"`
	Email *struct {
		ReplyTo string `yaml:"reply_to"`
		Subject string `yaml:"subject"`
		Message string `yaml:"message"`
	} `yaml:"email"`
	IssuerName *string `yaml:"issuer_name"`
}

type invoiceFile struct {
	IssueDate       string `yaml:"issue_date"`
	FulfillmentDate string `yaml:"fulfillment_date"`
	DueDate         string `yaml:"due_date"`
	PaymentMethod   string `yaml:"payment_method"`
	Currency        string `yaml:"currency"`
	Language        string `yaml:"language"`

	ExchangeRate *decimal.Decimal `yaml:"exchange_rate"`
	ExchangeBank *string          `yaml:"exchange_bank"`

	Seller *sellerFile `yaml:"seller"`
	Buyer  *buyerFile  `yaml:"buyer"`
	Items  []itemFile  `yaml:"items"`

	OrderNumber       *string `yaml:"order_number"`
	Comment           *string `yaml:"comment"`
	LogoImage         *string `yaml:"logo_image"`
	InvoiceIDPrefix   *string `yaml:"invoice_id_prefix"`
	PrepaymentInvoice *bool   `yaml:"prepayment_invoice"`
	FinalInvoice      *bool   `yaml:"final_invoice"`
	Proforma          *bool   `yaml:"proforma"`
	Paid              *bool   `yaml:"paid"`
}

type receiptFile struct {
	CallID        *string          `yaml:"call_id"`
	Prefix        string           `yaml:"prefix"`
	PaymentMethod string           `yaml:"payment_method"`
	Currency      string           `yaml:"currency"`
	ExchangeBank  *string          `yaml:"exchange_bank"`
	ExchangeRate  *decimal.Decimal `yaml:"exchange_rate"`
	Comment       *string          `yaml:"comment"`
	PDFTemplateID *string          `yaml:"pdf_template_id"`
	LedgerID      *string          `yaml:"ledger_id"`
	Items         []itemFile       `yaml:"items"`
	Payments      []struct {
		Method      string          `yaml:"method"`
		Amount      decimal.Decimal `yaml:"amount"`
		Description *string         `yaml:"description"`
	} `yaml:"payments"`
}

// LoadInvoice reads an invoice document from a YAML file
func LoadInvoice(path string) (*model.Invoice, error) {
	var f invoiceFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	return f.toModel()
}

// ParseInvoice reads an invoice document from YAML data
func ParseInvoice(data []byte) (*model.Invoice, error) {
	var f invoiceFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse invoice")
	}
	return f.toModel()
}

// LoadReceipt reads a receipt document from a YAML file
func LoadReceipt(path string) (*model.Receipt, error) {
	var f receiptFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	return f.toModel()
}

// ParseReceipt reads a receipt document from YAML data
func ParseReceipt(data []byte) (*model.Receipt, error) {
	var f receiptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse receipt")
	}
	return f.toModel()
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}
	return nil
}

func (f *invoiceFile) toModel() (*model.Invoice, error) {
	inv := &model.Invoice{
		ExchangeRate:      f.ExchangeRate,
		ExchangeBank:      f.ExchangeBank,
		OrderNumber:       f.OrderNumber,
		Comment:           f.Comment,
		LogoImage:         f.LogoImage,
		InvoiceIDPrefix:   f.InvoiceIDPrefix,
		PrepaymentInvoice: f.PrepaymentInvoice,
		FinalInvoice:      f.FinalInvoice,
		Proforma:          f.Proforma,
		Paid:              f.Paid,
	}

	var err error
	if inv.IssueDate, err = parseDate("issue_date", f.IssueDate); err != nil {
		return nil, err
	}
	if inv.FulfillmentDate, err = parseDate("fulfillment_date", f.FulfillmentDate); err != nil {
		return nil, err
	}
	if inv.DueDate, err = parseDate("due_date", f.DueDate); err != nil {
		return nil, err
	}
	if inv.PaymentMethod, err = lookupPaymentMethod(f.PaymentMethod); err != nil {
		return nil, err
	}
	if inv.Currency, err = lookupCurrency(f.Currency); err != nil {
		return nil, err
	}
	if f.Language != "" {
		lang, ok := model.LookupLanguage(f.Language)
		if !ok {
			return nil, errors.Errorf("unknown language %q", f.Language)
		}
		inv.Language = lang
	}

	if s := f.Seller; s != nil {
		inv.Seller = &model.Seller{IssuerName: s.IssuerName}
		if s.Bank != nil {
			inv.Seller.Bank = &model.BankAccount{Name: s.Bank.Name, AccountNumber: s.Bank.AccountNumber}
		}
		if s.Email != nil {
			inv.Seller.Email = &model.SellerEmail{ReplyToAddress: s.Email.ReplyTo, Subject: s.Email.Subject, Message: s.Email.Message}
		}
	}
	if b := f.Buyer; b != nil {
		inv.Buyer = &model.Buyer{
			Name:       b.Name,
			Country:    b.Country,
			Zip:        b.Zip,
			City:       b.City,
			Address:    b.Address,
			Email:      b.Email,
			SendEmail:  b.SendEmail,
			TaxSubject: b.TaxSubject,
			TaxNumber:  b.TaxNumber,
			Identifier: b.Identifier,
			IssuerName: b.IssuerName,
			Phone:      b.Phone,
			Comment:    b.Comment,
		}
		if pa := b.PostAddress; pa != nil {
			inv.Buyer.PostAddress = &model.PostAddress{Name: pa.Name, Zip: pa.Zip, City: pa.City, Address: pa.Address}
		}
	}
	inv.Items = toItems(f.Items)
	return inv, nil
}

func (f *receiptFile) toModel() (*model.Receipt, error) {
	r := &model.Receipt{
		CallID:        f.CallID,
		Prefix:        f.Prefix,
		ExchangeBank:  f.ExchangeBank,
		ExchangeRate:  f.ExchangeRate,
		Comment:       f.Comment,
		PDFTemplateID: f.PDFTemplateID,
		LedgerID:      f.LedgerID,
		Items:         toItems(f.Items),
	}

	var err error
	if r.PaymentMethod, err = lookupPaymentMethod(f.PaymentMethod); err != nil {
		return nil, err
	}
	if r.Currency, err = lookupCurrency(f.Currency); err != nil {
		return nil, err
	}
	for _, p := range f.Payments {
		r.Payments = append(r.Payments, model.ReceiptPayment{Method: p.Method, Amount: p.Amount, Description: p.Description})
	}
	return r, nil
}

func toItems(files []itemFile) []model.LineItem {
	items := make([]model.LineItem, 0, len(files))
	for _, it := range files {
		items = append(items, model.LineItem{
			Label:          it.Label,
			ID:             it.ID,
			Quantity:       it.Quantity,
			Unit:           it.Unit,
			TaxRate:        it.TaxRate,
			NetUnitPrice:   it.NetUnitPrice,
			GrossUnitPrice: it.GrossUnitPrice,
			Comment:        it.Comment,
		})
	}
	return items
}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(wire.DateLayout, value)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "%s", field)
	}
	return t, nil
}

func lookupPaymentMethod(name string) (model.PaymentMethod, error) {
	if strings.TrimSpace(name) == "" {
		return model.PaymentMethod{}, nil
	}
	pm, ok := model.LookupPaymentMethod(name)
	if !ok {
		return model.PaymentMethod{}, errors.Errorf("unknown payment method %q", name)
	}
	return pm, nil
}

func lookupCurrency(code string) (model.Currency, error) {
	if strings.TrimSpace(code) == "" {
		return model.Currency{}, nil
	}
	cur, ok := model.LookupCurrency(code)
	if !ok {
		return model.Currency{}, errors.Errorf("unknown currency %q", code)
	}
	return cur, nil
}
