package agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/rezonia/szamlazz-go/internal/envelope"
	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/reconcile"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

// EncodeMultipart packs the request document as the single file part the
// agent expects. It returns the body and its content type.
func EncodeMultipart(req *envelope.Request) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, req.Envelope.FileField, wire.RequestFileName))
	h.Set("Content-Type", wire.RequestContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Body); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// post sends req and reads the whole reply. The caller holds c.mu.
func (c *Client) post(ctx context.Context, req *envelope.Request) (*reconcile.Response, error) {
	body, contentType, err := EncodeMultipart(req)
	if err != nil {
		return nil, model.NewTransportError(0, "", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, model.NewTransportError(0, "", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	for _, ck := range c.cookies {
		httpReq.AddCookie(ck)
	}

	resp, err := c.doer.Do(httpReq)
	if err != nil {
		return nil, model.NewTransportError(0, "", err)
	}
	defer resp.Body.Close()

	c.storeCookies(resp.Cookies())

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewTransportError(resp.StatusCode, resp.Status, err)
	}
	return &reconcile.Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// storeCookies keeps the latest value of every session cookie by name
func (c *Client) storeCookies(fresh []*http.Cookie) {
	for _, ck := range fresh {
		replaced := false
		for i, old := range c.cookies {
			if old.Name == ck.Name {
				c.cookies[i] = &http.Cookie{Name: ck.Name, Value: ck.Value}
				replaced = true
				break
			}
		}
		if !replaced {
			c.cookies = append(c.cookies, &http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}
}

// SessionCookie returns the Cookie header value sent on the next call
func (c *Client) SessionCookie() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := &http.Request{Header: http.Header{}}
	for _, ck := range c.cookies {
		r.AddCookie(ck)
	}
	return r.Header.Get(wire.HeaderCookie)
}
