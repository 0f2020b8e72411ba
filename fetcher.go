package sitechat

import "context"

// FetchResult holds the outcome of fetching and converting one page URL.
type FetchResult struct {
	URL         string
	ContentType string
	Title       string

	// Content is the converted plain text. Empty content with an empty Err
	// means the URL was intentionally skipped (disallowed extension or
	// content type), not that fetching failed.
	Content string

	// Err records a non-fatal per-page failure after retries were exhausted.
	Err string
}

// PageFetcher retrieves page bodies for a collection of URLs and converts
// them to plain text.
type PageFetcher interface {
	// FetchPages fetches each URL and returns a result per URL, keyed by URL.
	// Per-page failures are recorded in FetchResult.Err and never abort the
	// batch; the error return is reserved for context cancellation.
	FetchPages(ctx context.Context, urls []string) (map[string]*FetchResult, error)
}
