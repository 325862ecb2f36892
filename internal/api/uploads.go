package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"github.com/propdesk/propdesk/internal/domain"
)

const (
	uploadsPath = "/uploads"
	nocPath     = "/noc"
)

// maxDocumentSize caps FetchDocument downloads. Replaced in tests.
var maxDocumentSize int64 = 32 << 20

// Upload sends a file as multipart field "file" and returns its URL.
func (c *Client) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	var out struct {
		URL string `json:"url"`
	}
	req := request{
		method:      http.MethodPost,
		path:        uploadsPath,
		body:        buf.Bytes(),
		contentType: w.FormDataContentType(),
	}
	if err := c.doJSON(ctx, req, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", fmt.Errorf("upload %s: response has no url", name)
	}
	return out.URL, nil
}

// FetchDocument downloads a document. Relative URLs resolve against the
// API base URL.
func (c *Client) FetchDocument(ctx context.Context, rawURL string) ([]byte, string, error) {
	data, header, err := c.do(ctx, request{method: http.MethodGet, path: rawURL, maxBody: maxDocumentSize})
	if errors.Is(err, ErrTooLarge) {
		return nil, "", fmt.Errorf("document %s exceeds %d bytes: %w", rawURL, maxDocumentSize, ErrTooLarge)
	}
	if err != nil {
		return nil, "", err
	}
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// CreateNOC asks the API to generate a NOC document.
func (c *Client) CreateNOC(ctx context.Context, req domain.NOCRequest) (domain.NOCRecord, error) {
	if err := req.Validate(); err != nil {
		return domain.NOCRecord{}, err
	}
	var out domain.NOCRecord
	if err := c.sendJSON(ctx, http.MethodPost, nocPath, req, &out); err != nil {
		return domain.NOCRecord{}, err
	}
	return out, nil
}
