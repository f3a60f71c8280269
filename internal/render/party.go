package render

import (
	"github.com/beevik/etree"

	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

// Seller appends the seller element. The element is always present; its
// children only when the corresponding override is set.
func Seller(parent *etree.Element, s *model.Seller) *etree.Element {
	el := parent.CreateElement(wire.Seller)
	if s == nil {
		return el
	}
	if s.Bank != nil {
		appendFields(el,
			f(wire.Bank, text(s.Bank.Name)),
			f(wire.BankAccount, text(s.Bank.AccountNumber)),
		)
	}
	if s.Email != nil {
		appendFields(el,
			f(wire.EmailReplyTo, text(s.Email.ReplyToAddress)),
			f(wire.EmailSubject, text(s.Email.Subject)),
			f(wire.EmailText, text(s.Email.Message)),
		)
	}
	appendFields(el, f(wire.SignatoryName, optText(s.IssuerName)))
	return el
}

// Buyer appends the buyer element, including the postal address when given
func Buyer(parent *etree.Element, b *model.Buyer) *etree.Element {
	var post model.PostAddress
	hasPost := b.PostAddress != nil
	if hasPost {
		post = *b.PostAddress
	}
	postField := func(name, value string) field {
		if !hasPost {
			return f(name, nil)
		}
		return f(name, text(value))
	}

	return group(parent, wire.Buyer,
		f(wire.Name, text(b.Name)),
		f(wire.Country, optText(b.Country)),
		f(wire.Zip, text(b.Zip)),
		f(wire.City, text(b.City)),
		f(wire.Address, text(b.Address)),
		f(wire.Email, optText(b.Email)),
		f(wire.SendEmail, optBool(b.SendEmail)),
		f(wire.TaxSubject, optInt(b.TaxSubject)),
		f(wire.TaxNumber, optText(b.TaxNumber)),
		postField(wire.PostName, post.Name),
		postField(wire.PostZip, post.Zip),
		postField(wire.PostCity, post.City),
		postField(wire.PostAddress, post.Address),
		f(wire.Identifier, optText(b.Identifier)),
		f(wire.SignatoryName, optText(b.IssuerName)),
		f(wire.Phone, optText(b.Phone)),
		f(wire.Comment, optText(b.Comment)),
	)
}
