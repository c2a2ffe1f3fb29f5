package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxDocumentBytes = 8 << 20

// Document is the wire shape of the catalog source.
type Document struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

// Loader fetches the catalog document over HTTP.
type Loader struct {
	url    string
	client *http.Client
}

// NewLoader returns a Loader for url. A nil client uses http.DefaultClient.
func NewLoader(url string, client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{url: url, client: client}
}

// Load fetches and decodes the catalog. On any failure it returns Fallback() together with the
// error so the caller can notify the user while still serving an (empty) storefront.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	doc, err := l.fetch(ctx)
	if err != nil {
		return Fallback(), err
	}
	return New(doc.Products, doc.Categories), nil
}

func (l *Loader) fetch(ctx context.Context) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return Document{}, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("catalog: fetch %s: %w", l.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDocumentBytes))
		return Document{}, fmt.Errorf("catalog: HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var doc Document
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentBytes)).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("catalog: decode document: %w", err)
	}
	return doc, nil
}
