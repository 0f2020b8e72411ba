// Package htmltomarkdown converts HTML page content to Markdown, the plain
// text form that gets chunked and embedded.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/sitechat/sitechat"
)

// Ensure Converter implements sitechat.Converter at compile time.
var _ sitechat.Converter = (*Converter)(nil)

// Converter turns HTML into CommonMark-flavored Markdown. Tables are kept as
// Markdown tables so structured page content (pricing grids, opening hours)
// survives conversion.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter with the base, commonmark and table
// plugins enabled.
func NewConverter() *Converter {
	return &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert transforms HTML bytes into Markdown.
func (c *Converter) Convert(data []byte) (string, error) {
	html := string(data)
	if strings.TrimSpace(html) == "" {
		return "", sitechat.Errorf(sitechat.EINVALID, "empty HTML input")
	}
	return c.conv.ConvertString(html)
}
