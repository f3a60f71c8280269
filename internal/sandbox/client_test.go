package sandbox_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/szamlazz-go/internal/agent"
	"github.com/rezonia/szamlazz-go/internal/attachment"
	"github.com/rezonia/szamlazz-go/internal/envelope"
	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/sandbox"
)

// startAgent runs the sandbox behind an httptest server and returns a client
// pointed at it
func startAgent(t *testing.T, creds envelope.Credentials) (*sandbox.Server, *agent.Client) {
	t.Helper()
	srv := newTestServer()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c, err := agent.New(creds,
		agent.WithBaseURL(ts.URL+sandbox.AgentPath),
		agent.WithHTTPClient(ts.Client()),
		agent.WithClock(fixedClock),
	)
	require.NoError(t, err)
	return srv, c
}

func apiKey(t *testing.T) envelope.Credentials {
	t.Helper()
	creds, err := envelope.APIKey("test-key")
	require.NoError(t, err)
	return creds
}

func TestClient_IssueAndFetchInvoice(t *testing.T) {
	ctx := context.Background()
	_, c := startAgent(t, apiKey(t))

	issued, err := c.IssueInvoice(ctx, sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, "SBX-2024-1", issued.DocumentID)
	assert.True(t, issued.NetTotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, issued.GrossTotal.Equal(decimal.NewFromInt(254)))
	assert.False(t, issued.HasPDF())

	data, err := c.GetInvoiceData(ctx, envelope.InvoiceQuery{InvoiceNumber: "SBX-2024-1"})
	require.NoError(t, err)
	assert.Equal(t, "SBX-2024-1", data.DocumentID)
	assert.True(t, data.GrossTotal.Equal(decimal.NewFromInt(254)))
	assert.Equal(t, "false", data.Data.FindElement("alap/stornozott").Text())

	byOrder, err := c.GetInvoiceData(ctx, envelope.InvoiceQuery{OrderNumber: "ORD-1", PDF: true})
	require.NoError(t, err)
	assert.Equal(t, "SBX-2024-1", byOrder.DocumentID)
	require.True(t, byOrder.HasPDF())

	info, err := attachment.Inspect(byOrder.PDF)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Pages)
}

func TestClient_UnknownInvoice(t *testing.T) {
	_, c := startAgent(t, apiKey(t))

	_, err := c.GetInvoiceData(context.Background(), envelope.InvoiceQuery{InvoiceNumber: "NOPE-1"})
	var sErr *model.ServiceError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, sandbox.CodeUnknownDocument, sErr.Code)
	assert.Equal(t, model.SourceBody, sErr.Source)
}

func TestClient_XMLWithPDF(t *testing.T) {
	_, c := startAgent(t, apiKey(t))
	c.SetRequestInvoiceDownload(true)
	c.SetResponseVersion(model.ResponseXML)

	res, err := c.IssueInvoice(context.Background(), sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, "SBX-2024-1", res.DocumentID)
	require.True(t, res.HasPDF())
	assert.True(t, attachment.IsPDF(res.PDF))
	assert.NotEmpty(t, res.PDFBase64)
}

func TestClient_PlainTextPDF(t *testing.T) {
	_, c := startAgent(t, apiKey(t))
	c.SetRequestInvoiceDownload(true)

	res, err := c.IssueInvoice(context.Background(), sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, "SBX-2024-1", res.DocumentID)
	assert.True(t, attachment.IsPDF(res.PDF))
}

func TestClient_ReverseInvoice(t *testing.T) {
	ctx := context.Background()
	srv, c := startAgent(t, apiKey(t))
	c.SetResponseVersion(model.ResponseXML)

	_, err := c.IssueInvoice(ctx, sampleInvoice())
	require.NoError(t, err)

	rev, err := c.ReverseInvoice(ctx, "SBX-2024-1")
	require.NoError(t, err)
	assert.Equal(t, "SBX-2024-2", rev.DocumentID)
	assert.True(t, rev.GrossTotal.Equal(decimal.NewFromInt(-254)))

	orig, ok := srv.Store().Get(model.DocumentTypeInvoice, "SBX-2024-1")
	require.True(t, ok)
	assert.True(t, orig.Reversed)

	data, err := c.GetInvoiceData(ctx, envelope.InvoiceQuery{InvoiceNumber: "SBX-2024-2"})
	require.NoError(t, err)
	assert.Equal(t, "SS", data.Data.FindElement("alap/tipus").Text())

	_, err = c.ReverseInvoice(ctx, "SBX-2024-1")
	var sErr *model.ServiceError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, sandbox.CodeAlreadyReversed, sErr.Code)
	assert.Equal(t, model.SourceHeader, sErr.Source)
}

func TestClient_Receipts(t *testing.T) {
	ctx := context.Background()
	_, c := startAgent(t, apiKey(t))
	c.SetRequestInvoiceDownload(true)

	r := sampleReceipt()
	r.CallID = model.String("call-1")
	issued, err := c.IssueReceipt(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "NYGT-2024-1", issued.DocumentID)
	assert.True(t, issued.NetTotal.Equal(decimal.NewFromInt(787)))
	assert.True(t, issued.HasPDF())

	again, err := c.IssueReceipt(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, issued.DocumentID, again.DocumentID)

	got, err := c.GetReceiptData(ctx, "NYGT-2024-1", false)
	require.NoError(t, err)
	assert.Equal(t, "NYGT-2024-1", got.DocumentID)
	assert.True(t, got.GrossTotal.Equal(decimal.NewFromInt(1000)))
	assert.False(t, got.HasPDF())

	_, err = c.GetReceiptData(ctx, "NYGT-2024-9", false)
	var sErr *model.ServiceError
	require.ErrorAs(t, err, &sErr)
}

func TestClient_LoginFailed(t *testing.T) {
	creds, err := envelope.UserPassword("demo", "wrong")
	require.NoError(t, err)
	_, c := startAgent(t, creds)

	_, err = c.IssueInvoice(context.Background(), sampleInvoice())
	var sErr *model.ServiceError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, sandbox.CodeAuthFailed, sErr.Code)
	assert.Equal(t, "Sikertelen bejelentkezés.", sErr.Message)
	assert.Equal(t, model.SourceHeader, sErr.Source)
}

func TestClient_UserPassword(t *testing.T) {
	creds, err := envelope.UserPassword("demo", "secret")
	require.NoError(t, err)
	_, c := startAgent(t, creds)

	res, err := c.IssueInvoice(context.Background(), sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, "SBX-2024-1", res.DocumentID)
}

func TestClient_SessionCookie(t *testing.T) {
	ctx := context.Background()
	srv, c := startAgent(t, apiKey(t))

	_, err := c.IssueInvoice(ctx, sampleInvoice())
	require.NoError(t, err)
	first := c.SessionCookie()
	assert.Contains(t, first, sandbox.SessionCookie+"=")

	_, err = c.IssueInvoice(ctx, sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, first, c.SessionCookie())
	assert.Equal(t, 1, srv.Sessions())
}
