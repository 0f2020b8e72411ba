// Package slog provides logging decorators for sitechat services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitechat/sitechat"
)

// Ensure LoggingSitemapService implements sitechat.SitemapService.
var _ sitechat.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with operation logging.
type LoggingSitemapService struct {
	next   sitechat.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next sitechat.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// ResolveURLs delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) ResolveURLs(ctx context.Context, sitemapURL string, filter *sitechat.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap resolution",
			"url", sitemapURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ResolveURLs(ctx, sitemapURL, filter)
}
