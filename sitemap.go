package sitechat

import (
	"context"
	"regexp"
)

// SitemapService resolves a root XML sitemap into the set of page URLs it
// reaches, recursively following <sitemap> index entries.
type SitemapService interface {
	// ResolveURLs fetches the sitemap at sitemapURL, recursively expands any
	// nested sitemap indexes, and returns the deduplicated set of leaf page
	// URLs. The filter, if non-nil, is applied to leaf page URLs only;
	// nested sitemap URLs are never filtered. Order of the result is
	// unspecified.
	ResolveURLs(ctx context.Context, sitemapURL string, filter *URLFilter) ([]string, error)
}

// URLFilter specifies patterns for including/excluding page URLs.
type URLFilter struct {
	// Exclude patterns - URLs matching any pattern are dropped.
	// Exclude takes precedence over Include.
	Exclude []*regexp.Regexp

	// Include patterns - if non-empty, only URLs matching at least one
	// pattern are kept.
	Include []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// A nil filter passes everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	if len(f.Include) > 0 {
		for _, re := range f.Include {
			if re.MatchString(url) {
				return true
			}
		}
		return false
	}

	return true
}
