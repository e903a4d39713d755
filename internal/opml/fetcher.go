package opml

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// Fetcher opens the resource behind a URL. Implementations own transport
// concerns such as timeouts and encodings.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, u *url.URL) (io.ReadCloser, error)

func (f FetcherFunc) Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	return f(ctx, u)
}

func parseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, malformedURL(raw, nil)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, malformedURL(raw, err)
	}
	if u.Scheme == "" {
		return nil, malformedURL(raw, fmt.Errorf("missing scheme"))
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return nil, malformedURL(raw, fmt.Errorf("missing host"))
	}
	return u, nil
}

// readDocument parses r into an element tree. DTDs and external entities are
// never resolved; undeclared entities pass through as text.
func readDocument(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
		Entity:        xml.HTMLEntity,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, parsingError("format of data is incorrect", err)
	}
	return doc, nil
}

// ExtensionMatches reports whether a file name looks like an OPML document.
func ExtensionMatches(name string) bool {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(name))) {
	case ".opml", ".xml":
		return true
	default:
		return false
	}
}
