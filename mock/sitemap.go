// Package mock provides mock implementations of sitechat interfaces
// for testing.
package mock

import (
	"context"

	"github.com/sitechat/sitechat"
)

var _ sitechat.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of sitechat.SitemapService.
type SitemapService struct {
	ResolveURLsFn func(ctx context.Context, sitemapURL string, filter *sitechat.URLFilter) ([]string, error)
}

func (s *SitemapService) ResolveURLs(ctx context.Context, sitemapURL string, filter *sitechat.URLFilter) ([]string, error) {
	return s.ResolveURLsFn(ctx, sitemapURL, filter)
}
