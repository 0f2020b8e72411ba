// Package crawl orchestrates the indexing pipeline: sitemap resolution,
// page fetching, chunking, and vector storage.
package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitechat/sitechat"
)

// Crawl statuses.
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// Reasons attached to skipped and failed crawls.
const (
	ReasonAlreadyExists   = "already_exists"
	ReasonInvalidConfig   = "invalid_config"
	ReasonNoPagesFound    = "no_pages_found"
	ReasonFetchFailed     = "fetch_failed"
	ReasonNoChunksCreated = "no_chunks_created"
	ReasonStorageFailed   = "storage_failed"
)

// SiteResult is the outcome of crawling a single website.
type SiteResult struct {
	Website       string
	Namespace     string
	Status        string
	Reason        string
	PagesCrawled  int
	PagesFailed   int
	ChunksIndexed int
	Err           error
}

// Crawler runs the crawl pipeline for configured websites.
type Crawler struct {
	Sitemaps sitechat.SitemapService
	Fetcher  sitechat.PageFetcher
	Store    sitechat.VectorStore
	Chunker  *sitechat.Chunker
	Logger   *slog.Logger
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// CrawlAll crawls every configured website in order. One website's failure
// never aborts the others; each gets its own result. Crawling stops early
// only when ctx is canceled.
func (c *Crawler) CrawlAll(ctx context.Context, cfg *sitechat.Config, recrawl bool) []*SiteResult {
	results := make([]*SiteResult, 0, len(cfg.Websites))
	for i := range cfg.Websites {
		if ctx.Err() != nil {
			break
		}
		results = append(results, c.CrawlSite(ctx, &cfg.Websites[i], recrawl))
	}
	return results
}

// CrawlSite crawls one website into its namespace. With recrawl set, an
// existing namespace is deleted and rebuilt; otherwise it is skipped.
func (c *Crawler) CrawlSite(ctx context.Context, site *sitechat.WebsiteConfig, recrawl bool) *SiteResult {
	res := &SiteResult{Website: site.Name, Namespace: site.Namespace()}
	logger := c.logger().With("website", site.Name, "namespace", res.Namespace)

	namespaces, err := c.Store.ListNamespaces(ctx)
	if err != nil {
		return res.fail(ReasonStorageFailed, err)
	}
	if contains(namespaces, res.Namespace) {
		if !recrawl {
			logger.Info("namespace already indexed, skipping")
			res.Status = StatusSkipped
			res.Reason = ReasonAlreadyExists
			return res
		}
		logger.Info("recrawling, deleting existing namespace")
		if err := c.Store.DeleteNamespace(ctx, res.Namespace); err != nil {
			return res.fail(ReasonStorageFailed, err)
		}
	}

	filter, err := site.Filter()
	if err != nil {
		return res.fail(ReasonInvalidConfig, err)
	}

	urls, err := c.Sitemaps.ResolveURLs(ctx, site.Sitemap, filter)
	if err != nil {
		return res.fail(ReasonFetchFailed, err)
	}
	if len(urls) == 0 {
		logger.Warn("sitemap yielded no page urls")
		return res.fail(ReasonNoPagesFound, nil)
	}
	logger.Info("resolved page urls", "count", len(urls))

	pages, err := c.Fetcher.FetchPages(ctx, urls)
	if err != nil {
		return res.fail(ReasonFetchFailed, err)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	var chunks []*sitechat.Chunk
	for _, url := range urls {
		page := pages[url]
		if page == nil {
			continue
		}
		if page.Err != "" {
			res.PagesFailed++
			continue
		}
		if page.Content == "" {
			continue
		}

		res.PagesCrawled++
		for _, chunk := range c.Chunker.ChunkText(page.Content, map[string]string{
			"source":          page.URL,
			"title":           page.Title,
			"website_name":    site.Name,
			"crawl_timestamp": timestamp,
		}) {
			chunks = append(chunks, &chunk)
		}
	}

	if res.PagesCrawled == 0 {
		logger.Warn("no pages produced content", "failed", res.PagesFailed)
		return res.fail(ReasonFetchFailed, nil)
	}
	if len(chunks) == 0 {
		return res.fail(ReasonNoChunksCreated, nil)
	}

	if err := c.Store.AddChunks(ctx, res.Namespace, chunks); err != nil {
		return res.fail(ReasonStorageFailed, err)
	}

	res.Status = StatusSuccess
	res.ChunksIndexed = len(chunks)
	logger.Info("crawl complete", "pages", res.PagesCrawled, "failed", res.PagesFailed, "chunks", res.ChunksIndexed)
	return res
}

func (r *SiteResult) fail(reason string, err error) *SiteResult {
	r.Status = StatusError
	r.Reason = reason
	r.Err = err
	return r
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
