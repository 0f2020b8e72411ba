// Package http provides HTTP-based implementations of sitechat.SitemapService
// and sitechat.PageFetcher.
package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"
	"golang.org/x/time/rate"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/bloom"
)

// DefaultSitemapRequestsPerSecond caps how fast nested sitemaps are fetched
// from a single host.
const DefaultSitemapRequestsPerSecond = 5

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; sitechat/1.0; +https://github.com/sitechat/sitechat)"
	sitemapAccept    = "application/xml,text/xml;q=0.9,*/*;q=0.8"

	// Sizing hints for the discovery dedup sets.
	expectedPageURLs = 100000
	expectedSitemaps = 1000
	seenFPRate       = 0.001
)

// Ensure SitemapService implements sitechat.SitemapService.
var _ sitechat.SitemapService = (*SitemapService)(nil)

// SitemapService resolves page URLs from an XML sitemap, following nested
// sitemap indexes breadth-first. Individual sitemaps that fail to fetch or
// parse are skipped so one broken nested sitemap never sinks the whole crawl.
type SitemapService struct {
	client      *http.Client
	limiter     *rate.Limiter
	retryDelays []time.Duration
	userAgent   string
	logger      *slog.Logger
}

// SitemapOption configures a SitemapService.
type SitemapOption func(*SitemapService)

// WithSitemapClient sets the HTTP client used to fetch sitemaps.
func WithSitemapClient(client *http.Client) SitemapOption {
	return func(s *SitemapService) {
		s.client = client
	}
}

// WithSitemapRequestsPerSecond sets the politeness limit for sitemap fetches.
func WithSitemapRequestsPerSecond(rps float64) SitemapOption {
	return func(s *SitemapService) {
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithSitemapRetryDelays sets the delays between fetch attempts for a single
// sitemap. The number of attempts is len(delays)+1.
func WithSitemapRetryDelays(delays []time.Duration) SitemapOption {
	return func(s *SitemapService) {
		s.retryDelays = delays
	}
}

// WithSitemapLogger sets the logger for skipped-sitemap diagnostics.
func WithSitemapLogger(logger *slog.Logger) SitemapOption {
	return func(s *SitemapService) {
		s.logger = logger
	}
}

// NewSitemapService creates a SitemapService.
func NewSitemapService(opts ...SitemapOption) *SitemapService {
	s := &SitemapService{
		client:      http.DefaultClient,
		limiter:     rate.NewLimiter(rate.Limit(DefaultSitemapRequestsPerSecond), 1),
		retryDelays: []time.Duration{1 * time.Second, 2 * time.Second},
		userAgent:   defaultUserAgent,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveURLs fetches sitemapURL and every nested sitemap it references and
// returns the deduplicated page URLs that pass filter. Filters apply to page
// URLs only, never to nested sitemap URLs. The returned error is reserved for
// context cancellation; unreachable or malformed sitemaps are skipped.
func (s *SitemapService) ResolveURLs(ctx context.Context, sitemapURL string, filter *sitechat.URLFilter) ([]string, error) {
	pending := []string{sitemapURL}
	queued := map[string]struct{}{sitemapURL: {}}
	processed := bloom.NewSeenSet(expectedSitemaps, seenFPRate)
	pages := bloom.NewSeenSet(expectedPageURLs, seenFPRate)

	var result []string
	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]
		delete(queued, current)

		if !processed.Add(current) {
			continue
		}

		body, err := s.fetchSitemap(ctx, current)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("skipping unreachable sitemap", "url", current, "error", err)
			continue
		}

		pageURLs, nested, err := parseSitemap(body)
		if err != nil {
			s.logger.Warn("skipping malformed sitemap", "url", current, "error", err)
			continue
		}

		for _, u := range pageURLs {
			if !filter.Match(u) {
				continue
			}
			if pages.Add(u) {
				result = append(result, u)
			}
		}
		for _, u := range nested {
			if processed.Contains(u) {
				continue
			}
			if _, ok := queued[u]; ok {
				continue
			}
			queued[u] = struct{}{}
			pending = append(pending, u)
		}
	}

	return result, nil
}

// fetchSitemap fetches a single sitemap with retries, honoring the politeness
// limiter before every attempt.
func (s *SitemapService) fetchSitemap(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= len(s.retryDelays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.retryDelays[attempt-1]):
			}
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := s.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (s *SitemapService) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", sitemapAccept)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return decompress(body, resp.Header.Get("Content-Encoding")), nil
}

// decompress gunzips body when the server marked it gzip-encoded or the bytes
// carry the gzip magic number (.xml.gz sitemaps served as octet-stream).
// Undecodable bodies are returned as-is and left to the XML parser.
func decompress(body []byte, contentEncoding string) []byte {
	gzipped := strings.Contains(strings.ToLower(contentEncoding), "gzip") ||
		(len(body) > 2 && body[0] == 0x1f && body[1] == 0x8b)
	if !gzipped {
		return body
	}

	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return body
	}
	defer zr.Close()

	plain, err := io.ReadAll(zr)
	if err != nil {
		return body
	}
	return plain
}

// parseSitemap returns the page URLs and nested sitemap URLs in a sitemap
// document. Documents that fail strict XML parsing get one more chance via a
// lenient scrape for bare <loc> elements.
func parseSitemap(data []byte) (pages, nested []string, err error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return scrapeLocs(data)
	}

	root := doc.Root()
	if root == nil {
		return scrapeLocs(data)
	}

	switch root.Tag {
	case "sitemapindex":
		for _, el := range root.SelectElements("sitemap") {
			if u := locText(el); u != "" {
				nested = append(nested, u)
			}
		}
	case "urlset":
		for _, el := range root.SelectElements("url") {
			if u := locText(el); u != "" {
				pages = append(pages, u)
			}
		}
	default:
		return scrapeLocs(data)
	}

	return pages, nested, nil
}

func locText(el *etree.Element) string {
	loc := el.SelectElement("loc")
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(loc.Text())
}

// scrapeLocs is the lenient fallback for sitemaps that are not well-formed
// XML. Every <loc> is treated as a page URL; nested indexes are not followed
// on this path.
func scrapeLocs(data []byte) (pages, nested []string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing sitemap: %w", err)
	}

	doc.Find("loc").Each(func(_ int, sel *goquery.Selection) {
		if u := strings.TrimSpace(sel.Text()); u != "" {
			pages = append(pages, u)
		}
	})
	if len(pages) == 0 {
		return nil, nil, fmt.Errorf("no <loc> elements found")
	}
	return pages, nil, nil
}
