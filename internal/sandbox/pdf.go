package sandbox

import (
	"bytes"
	"fmt"
	"strings"

	money "github.com/rezonia/szamlazz-go/internal/decimal"
	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

var pdfEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

// renderPDF produces a single-page PDF summarizing doc
func renderPDF(doc Document) []byte {
	title := "Invoice"
	if doc.Type == model.DocumentTypeReceipt {
		title = "Receipt"
	}
	if doc.ReversalOf != "" {
		title = "Reversal of " + doc.ReversalOf
	}
	lines := []string{
		"Szamlazz.hu sandbox",
		fmt.Sprintf("%s %s", title, doc.Number),
		"Date: " + doc.IssueDate.Format(wire.DateLayout),
		fmt.Sprintf("Net: %s %s", money.Format(doc.Net), doc.Currency.Code),
		fmt.Sprintf("VAT: %s %s", money.Format(doc.Tax), doc.Currency.Code),
		fmt.Sprintf("Gross: %s %s", money.Format(doc.Gross), doc.Currency.Code),
	}

	var content bytes.Buffer
	content.WriteString("BT\n/F1 12 Tf\n16 TL\n72 770 Td\n")
	for _, l := range lines {
		fmt.Fprintf(&content, "(%s) '\n", pdfEscaper.Replace(l))
	}
	content.WriteString("ET\n")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
