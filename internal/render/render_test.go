package render_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/render"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newBuilder() *render.Builder {
	return render.NewBuilder(render.WithClock(func() time.Time { return fixedNow }))
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func childNames(el *etree.Element) []string {
	names := make([]string, 0, len(el.ChildElements()))
	for _, c := range el.ChildElements() {
		names = append(names, c.Tag)
	}
	return names
}

func textOf(t *testing.T, el *etree.Element, path string) string {
	t.Helper()
	found := el.FindElement(path)
	require.NotNil(t, found, "element %s", path)
	return found.Text()
}

func sampleInvoice() *model.Invoice {
	return &model.Invoice{
		IssueDate:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		PaymentMethod: model.PaymentBankTransfer,
		Currency:      model.CurrencyHUF,
		Language:      model.LanguageHungarian,
		Seller: &model.Seller{
			Bank:       &model.BankAccount{Name: "OTP", AccountNumber: "11111111-22222222-33333333"},
			IssuerName: model.String("Kiss Anna"),
		},
		Buyer: &model.Buyer{
			Name:       "Kovacs Bt.",
			Zip:        "1234",
			City:       "Budapest",
			Address:    "Fo utca 1.",
			SendEmail:  model.Bool(false),
			TaxSubject: model.Int(7),
			PostAddress: &model.PostAddress{
				Name: "Kovacs Janos", Zip: "4321", City: "Debrecen", Address: "Kossuth ter 2.",
			},
		},
		OrderNumber: model.String("ORD-7"),
		Proforma:    model.Bool(true),
		Items: []model.LineItem{
			{
				Label:        "Consulting",
				Quantity:     decimal.NewFromInt(2),
				Unit:         "hour",
				TaxRate:      model.PercentInt(27),
				NetUnitPrice: dec("100"),
				Comment:      model.String("March"),
			},
			{
				Label:          "Book",
				ID:             model.String("B-1"),
				Quantity:       decimal.NewFromInt(2),
				Unit:           "pcs",
				TaxRate:        model.PercentInt(27),
				GrossUnitPrice: dec("254"),
			},
		},
	}
}

func TestBuilder_Invoice_ElementOrder(t *testing.T) {
	root := etree.NewElement("xmlszamla")
	total, err := newBuilder().Invoice(root, sampleInvoice())
	require.NoError(t, err)

	assert.Equal(t, []string{"fejlec", "elado", "vevo", "tetelek"}, childNames(root))
	assert.Equal(t, []string{
		"keltDatum", "teljesitesDatum", "fizetesiHataridoDatum", "fizmod", "penznem",
		"szamlaNyelve", "rendelesSzam", "dijbekero",
	}, childNames(root.SelectElement("fejlec")))
	assert.Equal(t, []string{"bank", "bankszamlaszam", "alairoNeve"}, childNames(root.SelectElement("elado")))
	assert.Equal(t, []string{
		"nev", "irsz", "telepules", "cim", "sendEmail", "adoalany",
		"postazasiNev", "postazasiIrsz", "postazasiTelepules", "postazasiCim",
	}, childNames(root.SelectElement("vevo")))
	assert.Equal(t, []string{
		"megnevezes", "mennyiseg", "mennyisegiEgyseg", "nettoEgysegar", "afakulcs",
		"nettoErtek", "afaErtek", "bruttoErtek", "megjegyzes",
	}, childNames(root.FindElement("tetelek/tetel")))

	assert.True(t, total.NetValue.Equal(decimal.NewFromInt(600)))
	assert.True(t, total.TaxValue.Equal(decimal.NewFromInt(162)))
	assert.True(t, total.GrossValue.Equal(decimal.NewFromInt(762)))
}

func TestBuilder_Invoice_Values(t *testing.T) {
	root := etree.NewElement("xmlszamla")
	_, err := newBuilder().Invoice(root, sampleInvoice())
	require.NoError(t, err)

	assert.Equal(t, "2024-01-02", textOf(t, root, "fejlec/keltDatum"))
	assert.Equal(t, "2024-03-15", textOf(t, root, "fejlec/teljesitesDatum"))
	assert.Equal(t, "2024-03-15", textOf(t, root, "fejlec/fizetesiHataridoDatum"))
	assert.Equal(t, "Átutalás", textOf(t, root, "fejlec/fizmod"))
	assert.Equal(t, "HUF", textOf(t, root, "fejlec/penznem"))
	assert.Equal(t, "hu", textOf(t, root, "fejlec/szamlaNyelve"))
	assert.Equal(t, "true", textOf(t, root, "fejlec/dijbekero"))
	assert.Equal(t, "false", textOf(t, root, "vevo/sendEmail"))
	assert.Equal(t, "7", textOf(t, root, "vevo/adoalany"))

	items := root.SelectElement("tetelek").SelectElements("tetel")
	require.Len(t, items, 2)

	assert.Equal(t, "100", textOf(t, items[0], "nettoEgysegar"))
	assert.Equal(t, "200", textOf(t, items[0], "nettoErtek"))
	assert.Equal(t, "54", textOf(t, items[0], "afaErtek"))
	assert.Equal(t, "254", textOf(t, items[0], "bruttoErtek"))

	assert.Equal(t, "B-1", textOf(t, items[1], "azonosito"))
	assert.Equal(t, "200", textOf(t, items[1], "nettoEgysegar"))
	assert.Equal(t, "400", textOf(t, items[1], "nettoErtek"))
	assert.Equal(t, "108", textOf(t, items[1], "afaErtek"))
	assert.Equal(t, "508", textOf(t, items[1], "bruttoErtek"))
	assert.Nil(t, items[1].SelectElement("megjegyzes"))
}

func TestBuilder_Invoice_ValidationAtRenderTime(t *testing.T) {
	inv := sampleInvoice()
	inv.Buyer = nil

	_, err := newBuilder().Invoice(etree.NewElement("xmlszamla"), inv)
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Buyer", vErr.Field)

	inv = sampleInvoice()
	inv.Items[1].Quantity = decimal.Zero
	_, err = newBuilder().Invoice(etree.NewElement("xmlszamla"), inv)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Quantity", vErr.Field)
}

func TestBuilder_Invoice_DoesNotMutateItems(t *testing.T) {
	inv := sampleInvoice()
	_, err := newBuilder().Invoice(etree.NewElement("xmlszamla"), inv)
	require.NoError(t, err)

	assert.Nil(t, inv.Items[1].NetUnitPrice)
	assert.Nil(t, inv.Items[0].GrossUnitPrice)
}

func TestBuilder_Receipt(t *testing.T) {
	r := &model.Receipt{
		CallID:        model.String("call-1"),
		Prefix:        "NYGT",
		PaymentMethod: model.PaymentCash,
		Currency:      model.CurrencyEUR,
		ExchangeBank:  model.String("MNB"),
		ExchangeRate:  dec("390.25"),
		Items: []model.LineItem{{
			Label:        "Coffee",
			Quantity:     decimal.NewFromInt(3),
			Unit:         "cup",
			TaxRate:      model.Exempt(model.ExemptAAM),
			NetUnitPrice: dec("1.5"),
			Comment:      model.String("dropped on receipts"),
		}},
		Payments: []model.ReceiptPayment{
			{Method: "készpénz", Amount: decimal.RequireFromString("4.5")},
		},
	}

	root := etree.NewElement("xmlnyugtacreate")
	total, err := newBuilder().Receipt(root, r)
	require.NoError(t, err)

	assert.Equal(t, []string{"fejlec", "tetelek", "kifizetesek"}, childNames(root))
	assert.Equal(t, []string{
		"hivasAzonosito", "elotag", "fizmod", "penznem", "devizabank", "devizaarf",
	}, childNames(root.SelectElement("fejlec")))
	assert.Equal(t, []string{
		"megnevezes", "mennyiseg", "mennyisegiEgyseg", "nettoEgysegar", "afakulcs",
		"netto", "afa", "brutto",
	}, childNames(root.FindElement("tetelek/tetel")))

	assert.Equal(t, "390.25", textOf(t, root, "fejlec/devizaarf"))
	assert.Equal(t, "AAM", textOf(t, root, "tetelek/tetel/afakulcs"))
	assert.Equal(t, "4.5", textOf(t, root, "tetelek/tetel/netto"))
	assert.Equal(t, "0", textOf(t, root, "tetelek/tetel/afa"))
	assert.Equal(t, "4.5", textOf(t, root, "kifizetesek/kifizetes/osszeg"))
	assert.True(t, total.GrossValue.Equal(decimal.RequireFromString("4.5")))
}

func TestBuilder_Receipt_NoPayments(t *testing.T) {
	r := &model.Receipt{
		Prefix:        "NYGT",
		PaymentMethod: model.PaymentCash,
		Currency:      model.CurrencyFt,
		Items: []model.LineItem{{
			Label:          "Tea",
			Quantity:       decimal.NewFromInt(1),
			TaxRate:        model.PercentInt(27),
			GrossUnitPrice: dec("500"),
		}},
	}

	root := etree.NewElement("xmlnyugtacreate")
	_, err := newBuilder().Receipt(root, r)
	require.NoError(t, err)
	assert.Nil(t, root.SelectElement("kifizetesek"))
	assert.Nil(t, root.FindElement("fejlec/hivasAzonosito"))
}

func TestSeller_Empty(t *testing.T) {
	parent := etree.NewElement("x")
	el := render.Seller(parent, &model.Seller{})
	assert.Equal(t, "elado", el.Tag)
	assert.Empty(t, el.ChildElements())
}

func TestFragment_Indents(t *testing.T) {
	parent := etree.NewElement("x")
	render.Buyer(parent, &model.Buyer{Name: "A", Zip: "1", City: "B", Address: "C"})

	out, err := render.Fragment(parent)
	require.NoError(t, err)
	assert.Contains(t, out, "\n  <vevo>\n    <nev>A</nev>")
}

// Every field set on input can be recovered by element name from the output
func TestBuilder_Invoice_RoundTrip(t *testing.T) {
	inv := sampleInvoice()
	inv.Comment = model.String("Thanks")
	inv.LogoImage = model.String("logo.png")
	inv.InvoiceIDPrefix = model.String("ABC")
	inv.Paid = model.Bool(true)
	inv.Buyer.Email = model.String("buyer@example.com")
	inv.Buyer.Phone = model.String("+36 1 234 5678")
	inv.Buyer.TaxNumber = model.String("12345678-1-42")

	doc := etree.NewDocument()
	root := doc.CreateElement("xmlszamla")
	_, err := newBuilder().Invoice(root, inv)
	require.NoError(t, err)

	data, err := render.Write(doc)
	require.NoError(t, err)

	back := etree.NewDocument()
	require.NoError(t, back.ReadFromBytes(data))
	parsed := back.Root()

	expected := map[string]string{
		"fejlec/megjegyzes":              "Thanks",
		"fejlec/logoExtra":               "logo.png",
		"fejlec/szamlaszamElotag":        "ABC",
		"fejlec/fizetve":                 "true",
		"fejlec/rendelesSzam":            "ORD-7",
		"elado/bank":                     "OTP",
		"elado/bankszamlaszam":           "11111111-22222222-33333333",
		"elado/alairoNeve":               "Kiss Anna",
		"vevo/nev":                       "Kovacs Bt.",
		"vevo/email":                     "buyer@example.com",
		"vevo/telefonszam":               "+36 1 234 5678",
		"vevo/adoszam":                   "12345678-1-42",
		"vevo/postazasiTelepules":        "Debrecen",
		"tetelek/tetel/megnevezes":       "Consulting",
		"tetelek/tetel/mennyiseg":        "2",
		"tetelek/tetel/mennyisegiEgyseg": "hour",
		"tetelek/tetel/megjegyzes":       "March",
	}
	for path, want := range expected {
		assert.Equal(t, want, textOf(t, parsed, path), path)
	}
}
