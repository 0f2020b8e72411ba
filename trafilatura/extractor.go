// Package trafilatura isolates the main content of HTML pages. Navigation,
// footers, sidebars and other boilerplate would otherwise pollute the chunks
// handed to the embedder.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"github.com/sitechat/sitechat"
)

// Ensure Extractor implements sitechat.Extractor at compile time.
var _ sitechat.Extractor = (*Extractor)(nil)

// Extractor extracts the main content and title of an HTML page using
// go-trafilatura with its readability fallback enabled.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and the main content as clean HTML.
// ContentHTML is empty when no main content could be identified; the caller
// decides whether to fall back to converting the whole document.
func (e *Extractor) Extract(rawHTML string) (*sitechat.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sitechat.Errorf(sitechat.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil {
		return nil, err
	}

	ex := &sitechat.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		ex.ContentHTML = buf.String()
	}
	return ex, nil
}
