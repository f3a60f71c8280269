package model

import "strings"

// String returns a pointer to s, for optional fields
func String(s string) *string { return &s }

// Bool returns a pointer to b, for optional fields
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n, for optional fields
func Int(n int) *int { return &n }

// PostAddress is the buyer's mailing address when it differs from the billing one
type PostAddress struct {
	Name    string `json:"name"`
	Zip     string `json:"zip"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// Buyer is the invoiced party
type Buyer struct {
	Name      string  `json:"name"`
	Country   *string `json:"country,omitempty"`
	Zip       string  `json:"zip"`
	City      string  `json:"city"`
	Address   string  `json:"address"`
	Email     *string `json:"email,omitempty"`
	SendEmail *bool   `json:"send_email,omitempty"`
	// TaxSubject is the service's adoalany code (-1 unknown, 1 domestic VAT id, 6 foreign, 7 private person)
	TaxSubject  *int         `json:"tax_subject,omitempty"`
	TaxNumber   *string      `json:"tax_number,omitempty"`
	PostAddress *PostAddress `json:"post_address,omitempty"`
	Identifier  *string      `json:"identifier,omitempty"`
	IssuerName  *string      `json:"issuer_name,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	Comment     *string      `json:"comment,omitempty"`
}

// Validate checks the mandatory buyer fields
func (b *Buyer) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"Buyer.Name", b.Name},
		{"Buyer.Zip", b.Zip},
		{"Buyer.City", b.City},
		{"Buyer.Address", b.Address},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return NewValidationError(r.field, nil, "required", "missing")
		}
	}
	if pa := b.PostAddress; pa != nil && strings.TrimSpace(pa.Name) == "" {
		return NewValidationError("Buyer.PostAddress.Name", nil, "required", "missing")
	}
	return nil
}

// BankAccount identifies the seller's bank account printed on invoices
type BankAccount struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
}

// SellerEmail configures the notification mail sent to the buyer
type SellerEmail struct {
	ReplyToAddress string `json:"reply_to_address"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
}

// Seller overrides the issuing account's defaults; every field is optional
type Seller struct {
	Bank       *BankAccount `json:"bank,omitempty"`
	Email      *SellerEmail `json:"email,omitempty"`
	IssuerName *string      `json:"issuer_name,omitempty"`
}
