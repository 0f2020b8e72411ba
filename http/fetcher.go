package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sitechat/sitechat"
)

// DefaultFetchTimeout bounds a single fetch attempt.
const DefaultFetchTimeout = 30 * time.Second

// DefaultRequestsPerSecond is the default sustained fetch rate per crawl.
const DefaultRequestsPerSecond = 5.0

const fetchAccept = "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8"

// skipExtensions lists URL path extensions that never yield indexable text.
// Matched case-insensitively against the path only, so query strings and
// fragments don't hide or fake an extension.
var skipExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {},
	".tiff": {}, ".webp": {}, ".svg": {}, ".ico": {},
	".mp3": {}, ".wav": {}, ".ogg": {}, ".m4a": {}, ".flac": {}, ".aac": {},
	".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".webm": {}, ".flv": {}, ".wmv": {},
	".doc": {}, ".docx": {}, ".ppt": {}, ".pptx": {}, ".xls": {}, ".xlsx": {},
	".zip": {}, ".rar": {}, ".tar": {}, ".gz": {}, ".7z": {},
	".csv": {}, ".json": {}, ".xml": {}, ".yaml": {}, ".yml": {},
	".js": {}, ".css": {}, ".ts": {}, ".jsx": {}, ".tsx": {},
	".ttf": {}, ".otf": {}, ".woff": {}, ".woff2": {}, ".eot": {},
	".exe": {}, ".dmg": {}, ".apk": {}, ".iso": {},
}

// skipContentTypes lists Content-Type substrings whose responses are
// discarded after fetching.
var skipContentTypes = []string{
	"image/", "audio/", "video/", "font/",
	"application/zip", "application/x-rar", "application/x-tar",
	"application/gzip", "application/x-gzip", "application/x-7z-compressed",
	"application/javascript", "text/css",
	"application/font-woff", "application/vnd.ms-fontobject",
	"application/octet-stream",
}

// Ensure PageFetcher implements sitechat.PageFetcher.
var _ sitechat.PageFetcher = (*PageFetcher)(nil)

// PageFetcher downloads pages concurrently and converts them to plain text.
// HTML goes through main-content extraction and markdown conversion; PDFs
// through text extraction. Per-page failures are recorded in the result map,
// never returned as errors.
type PageFetcher struct {
	client      *http.Client
	extractor   sitechat.Extractor
	html        sitechat.Converter
	pdf         sitechat.Converter
	rps         float64
	timeout     time.Duration
	retryDelays []time.Duration
	userAgent   string
	logger      *slog.Logger
}

// FetcherOption configures a PageFetcher.
type FetcherOption func(*PageFetcher)

// WithFetcherClient sets the HTTP client used for page fetches.
func WithFetcherClient(client *http.Client) FetcherOption {
	return func(f *PageFetcher) {
		f.client = client
	}
}

// WithRequestsPerSecond sets the sustained fetch rate. Concurrency is capped
// at twice this value.
func WithRequestsPerSecond(rps float64) FetcherOption {
	return func(f *PageFetcher) {
		f.rps = rps
	}
}

// WithFetchTimeout bounds a single fetch attempt.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *PageFetcher) {
		f.timeout = d
	}
}

// WithFetcherRetryDelays sets the delays between fetch attempts for a single
// page. The number of attempts is len(delays)+1.
func WithFetcherRetryDelays(delays []time.Duration) FetcherOption {
	return func(f *PageFetcher) {
		f.retryDelays = delays
	}
}

// WithFetcherLogger sets the logger for per-page diagnostics.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *PageFetcher) {
		f.logger = logger
	}
}

// NewPageFetcher creates a PageFetcher. The extractor isolates the main
// content of HTML pages before the html converter turns it into markdown;
// the pdf converter handles application/pdf responses.
func NewPageFetcher(extractor sitechat.Extractor, html, pdf sitechat.Converter, opts ...FetcherOption) *PageFetcher {
	f := &PageFetcher{
		client:      http.DefaultClient,
		extractor:   extractor,
		html:        html,
		pdf:         pdf,
		rps:         DefaultRequestsPerSecond,
		timeout:     DefaultFetchTimeout,
		retryDelays: []time.Duration{1 * time.Second, 2 * time.Second},
		userAgent:   defaultUserAgent,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ShouldSkip reports whether a URL is excluded from fetching based on its
// path extension. The query string and fragment are ignored, so
// "doc.pdf?v=2" is fetched while "logo.PNG" is skipped.
func ShouldSkip(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	_, skip := skipExtensions[ext]
	return skip
}

// FetchPages fetches all URLs concurrently and returns a result for every
// input URL. Skipped URLs get a result with empty Content and empty Err.
// The returned error is reserved for context cancellation.
func (f *PageFetcher) FetchPages(ctx context.Context, urls []string) (map[string]*sitechat.FetchResult, error) {
	results := make(map[string]*sitechat.FetchResult, len(urls))

	// Record skips before any worker starts so the workers are the only
	// goroutines writing to the map.
	fetchable := make([]string, 0, len(urls))
	for _, u := range urls {
		if ShouldSkip(u) {
			f.logger.Debug("skipping url by extension", "url", u)
			results[u] = &sitechat.FetchResult{URL: u}
			continue
		}
		fetchable = append(fetchable, u)
	}

	var mu sync.Mutex

	limit := int(f.rps * 2)
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, u := range fetchable {
		g.Go(func() error {
			res := f.fetchPage(gctx, u)
			mu.Lock()
			results[u] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// fetchPage fetches one URL with retries and converts the response body.
func (f *PageFetcher) fetchPage(ctx context.Context, pageURL string) *sitechat.FetchResult {
	var lastErr error
	for attempt := 0; attempt <= len(f.retryDelays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return &sitechat.FetchResult{URL: pageURL, Err: ctx.Err().Error()}
			case <-time.After(f.retryDelays[attempt-1]):
			}
		}

		res, err := f.fetchAttempt(ctx, pageURL)
		if err == nil {
			// Pace successful fetches so sustained throughput stays at
			// the configured rate even with doubled concurrency.
			f.pause(ctx)
			return res
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	f.logger.Warn("page fetch failed", "url", pageURL, "error", lastErr)
	return &sitechat.FetchResult{URL: pageURL, Err: lastErr.Error()}
}

func (f *PageFetcher) fetchAttempt(ctx context.Context, pageURL string) (*sitechat.FetchResult, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", fetchAccept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, pageURL)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	for _, skip := range skipContentTypes {
		if strings.Contains(contentType, skip) {
			f.logger.Debug("skipping url by content type", "url", pageURL, "content_type", contentType)
			return &sitechat.FetchResult{URL: pageURL, ContentType: contentType}, nil
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	res := &sitechat.FetchResult{URL: pageURL, ContentType: contentType}
	switch {
	case strings.Contains(contentType, "text/html"), strings.Contains(contentType, "application/xhtml"):
		res.Title, res.Content = f.convertHTML(pageURL, body)
	case strings.Contains(contentType, "application/pdf"):
		text, err := f.pdf.Convert(body)
		if err != nil {
			f.logger.Warn("pdf conversion failed", "url", pageURL, "error", err)
		} else {
			res.Content = text
		}
	default:
		f.logger.Debug("unsupported content type", "url", pageURL, "content_type", contentType)
	}

	return res, nil
}

// convertHTML turns an HTML page into markdown. Main-content extraction is
// best effort: when it fails or finds nothing, the whole document is
// converted, and when even that fails the sanitized raw text is kept.
func (f *PageFetcher) convertHTML(pageURL string, body []byte) (title, content string) {
	raw := strings.ToValidUTF8(string(body), "")

	if f.extractor != nil {
		ex, err := f.extractor.Extract(raw)
		if err == nil && ex.ContentHTML != "" {
			text, err := f.html.Convert([]byte(ex.ContentHTML))
			if err == nil && text != "" {
				return ex.Title, text
			}
		}
		if err != nil {
			f.logger.Debug("content extraction failed", "url", pageURL, "error", err)
		}
	}

	text, err := f.html.Convert(body)
	if err == nil && text != "" {
		return "", text
	}
	return "", raw
}

// pause sleeps for one request interval after a successful fetch.
func (f *PageFetcher) pause(ctx context.Context) {
	if f.rps <= 0 {
		return
	}
	interval := time.Duration(float64(time.Second) / f.rps)
	select {
	case <-ctx.Done():
	case <-time.After(interval):
	}
}
