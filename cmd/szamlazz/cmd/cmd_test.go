package cmd

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/szamlazz-go/internal/sandbox"
)

const invoiceFile = `
issue_date: 2024-04-02
payment_method: cash
currency: HUF
language: en
order_number: ORD-9
seller:
  issuer_name: Tester
buyer:
  name: Buyer Kft.
  zip: "1000"
  city: Budapest
  address: Vaci ut 1.
items:
  - label: Widget
    quantity: 2
    unit: pcs
    tax_rate: 27
    net_unit_price: 500
`

const receiptFile = `
prefix: NYGT
payment_method: cash
currency: Ft
items:
  - label: Tea
    quantity: 1
    unit: cup
    tax_rate: 27
    gross_unit_price: 300
`

func resetFlags(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SZAMLAZZ_API_KEY", "SZAMLAZZ_USER", "SZAMLAZZ_PASSWORD", "SZAMLAZZ_URL",
		"SZAMLAZZ_DOWNLOAD", "SZAMLAZZ_RESPONSE_VERSION", "SZAMLAZZ_DOWNLOAD_COUNT",
	} {
		t.Setenv(key, "")
	}
	verbose, outputFormat = false, "json"
	apiKey, user, password, agentURL, envFile = "", "", "", "", ""
	invoiceID, orderNumber, savePDF = "", "", ""
	withPDF, download, xmlReply, invoiceEInvoice = false, false, false, false
	receiptID, receiptCallID, receiptSave, receiptPDF = "", "", "", false
	renderCallID, checkSignatures = "", false
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func startSandbox(t *testing.T) string {
	t.Helper()
	cfg := sandbox.DefaultConfig()
	cfg.APIKey = "cli-key"
	clock := func() time.Time { return time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC) }
	ts := httptest.NewServer(sandbox.NewServer(cfg, sandbox.WithClock(clock)).Handler())
	t.Cleanup(ts.Close)
	return ts.URL + sandbox.AgentPath
}

func TestRenderInvoice_Placeholder(t *testing.T) {
	resetFlags(t)
	path := writeFile(t, "invoice.yaml", invoiceFile)

	out, err := run(t, "render", "invoice", path)
	require.NoError(t, err)
	assert.Contains(t, out, "<xmlszamla ")
	assert.Contains(t, out, "<szamlaagentkulcs>"+placeholderKey+"</szamlaagentkulcs>")
	assert.Contains(t, out, "<bruttoErtek>1270</bruttoErtek>")
}

func TestRenderReceipt_CallID(t *testing.T) {
	resetFlags(t)
	path := writeFile(t, "receipt.yaml", receiptFile)

	out, err := run(t, "--api-key", "k", "render", "receipt", path, "--call-id", "fixed-1")
	require.NoError(t, err)
	assert.Contains(t, out, "<hivasAzonosito>fixed-1</hivasAzonosito>")
	assert.Contains(t, out, "<szamlaagentkulcs>k</szamlaagentkulcs>")
}

func TestInvoiceCommands_Sandbox(t *testing.T) {
	resetFlags(t)
	url := startSandbox(t)
	path := writeFile(t, "invoice.yaml", invoiceFile)

	out, err := run(t, "--url", url, "--api-key", "cli-key", "invoice", "issue", path)
	require.NoError(t, err)
	var issued ResultOutput
	require.NoError(t, json.Unmarshal([]byte(out), &issued))
	assert.Equal(t, "SBX-2024-1", issued.DocumentID)
	assert.Equal(t, "1270", issued.GrossTotal.String())
	assert.Equal(t, "xmlagentresponse=DONE;SBX-2024-1", issued.Message)

	pdfPath := filepath.Join(t.TempDir(), "out", "invoice.pdf")
	out, err = run(t, "--url", url, "--api-key", "cli-key", "invoice", "get", "--order-number", "ORD-9", "--save-pdf", pdfPath)
	require.NoError(t, err)
	var fetched ResultOutput
	require.NoError(t, json.Unmarshal([]byte(out), &fetched))
	assert.Equal(t, "SBX-2024-1", fetched.DocumentID)
	assert.Equal(t, pdfPath, fetched.PDFPath)

	out, err = run(t, "info", pdfPath)
	require.NoError(t, err)
	var infos []FileInfoOutput
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, 1, infos[0].Pages)
	assert.Empty(t, infos[0].Error)

	outputFormat = "table"
	out, err = run(t, "--url", url, "--api-key", "cli-key", "-f", "table", "invoice", "get", "--id", "SBX-2024-1", "--save-pdf", "")
	require.NoError(t, err)
	assert.Contains(t, out, "DOCUMENT")
	assert.Contains(t, out, "SBX-2024-1")
}

func TestInvoiceCommands_Errors(t *testing.T) {
	resetFlags(t)
	url := startSandbox(t)

	_, err := run(t, "--url", url, "--api-key", "cli-key", "invoice", "get")
	require.Error(t, err)

	_, err = run(t, "--url", url, "--api-key", "wrong", "invoice", "get", "--id", "X-1")
	require.Error(t, err)
}

func TestReceiptCommands_Sandbox(t *testing.T) {
	resetFlags(t)
	url := startSandbox(t)
	path := writeFile(t, "receipt.yaml", receiptFile)

	out, err := run(t, "--url", url, "--api-key", "cli-key", "receipt", "issue", path, "--call-id", "auto")
	require.NoError(t, err)
	var issued ResultOutput
	require.NoError(t, json.Unmarshal([]byte(out), &issued))
	assert.Equal(t, "NYGT-2024-1", issued.DocumentID)
	assert.Equal(t, "300", issued.GrossTotal.String())

	out, err = run(t, "--url", url, "--api-key", "cli-key", "receipt", "get", "--id", issued.DocumentID)
	require.NoError(t, err)
	var fetched ResultOutput
	require.NoError(t, json.Unmarshal([]byte(out), &fetched))
	assert.Equal(t, issued.DocumentID, fetched.DocumentID)
}
