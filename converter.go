package sitechat

// Converter converts raw document bytes to plain text.
// Implementations exist per document kind (HTML, PDF).
type Converter interface {
	// Convert transforms document bytes into plain text.
	Convert(data []byte) (string, error)
}

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML with boilerplate
	// (nav, footer, sidebar, ads) removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}
