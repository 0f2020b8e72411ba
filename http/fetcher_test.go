package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitechat/sitechat"
	sitechathttp "github.com/sitechat/sitechat/http"
	"github.com/sitechat/sitechat/mock"
)

// passthroughConverter returns the input bytes unchanged.
func passthroughConverter() *mock.Converter {
	return &mock.Converter{
		ConvertFn: func(data []byte) (string, error) {
			return string(data), nil
		},
	}
}

func newPageFetcher(extractor sitechat.Extractor, html, pdf sitechat.Converter) *sitechathttp.PageFetcher {
	return sitechathttp.NewPageFetcher(extractor, html, pdf,
		sitechathttp.WithRequestsPerSecond(10000),
		sitechathttp.WithFetcherRetryDelays(nil),
	)
}

func TestShouldSkip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want bool
	}{
		{"https://acme.test/page", false},
		{"https://acme.test/page.html", false},
		{"https://acme.test/doc.pdf", false},
		{"https://acme.test/doc.pdf?v=2", false},
		{"https://acme.test/logo.PNG", true},
		{"https://acme.test/img.png?size=large", true},
		{"https://acme.test/styles.css", true},
		{"https://acme.test/feed.xml", true},
		{"https://acme.test/archive.tar.gz", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sitechathttp.ShouldSkip(tt.url), "url %s", tt.url)
	}
}

func TestPageFetcher_FetchPages_HTMLThroughExtractor(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Pricing</title></head><body><nav>menu</nav><main><p>Plans start at $10.</p></main></body></html>`)
	}))
	defer srv.Close()

	extractor := &mock.Extractor{
		ExtractFn: func(html string) (*sitechat.ExtractResult, error) {
			return &sitechat.ExtractResult{
				Title:       "Pricing",
				ContentHTML: "<p>Plans start at $10.</p>",
			}, nil
		},
	}
	html := &mock.Converter{
		ConvertFn: func(data []byte) (string, error) {
			return "Plans start at $10.", nil
		},
	}

	f := newPageFetcher(extractor, html, passthroughConverter())
	results, err := f.FetchPages(context.Background(), []string{srv.URL + "/pricing"})

	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[srv.URL+"/pricing"]
	require.NotNil(t, res)
	assert.Empty(t, res.Err)
	assert.Equal(t, "Pricing", res.Title)
	assert.Equal(t, "Plans start at $10.", res.Content)
}

func TestPageFetcher_FetchPages_ExtractorFailureFallsBackToFullDocument(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body>raw body</body></html>`)
	}))
	defer srv.Close()

	extractor := &mock.Extractor{
		ExtractFn: func(html string) (*sitechat.ExtractResult, error) {
			return nil, fmt.Errorf("no main content")
		},
	}

	f := newPageFetcher(extractor, passthroughConverter(), passthroughConverter())
	results, err := f.FetchPages(context.Background(), []string{srv.URL})

	require.NoError(t, err)
	res := results[srv.URL]
	require.NotNil(t, res)
	assert.Empty(t, res.Err)
	assert.Contains(t, res.Content, "raw body")
	assert.Empty(t, res.Title)
}

func TestPageFetcher_FetchPages_PDF(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "%PDF-1.7 fake")
	}))
	defer srv.Close()

	pdf := &mock.Converter{
		ConvertFn: func(data []byte) (string, error) {
			assert.Contains(t, string(data), "%PDF")
			return "extracted pdf text", nil
		},
	}

	f := newPageFetcher(nil, passthroughConverter(), pdf)
	results, err := f.FetchPages(context.Background(), []string{srv.URL + "/manual.pdf?v=3"})

	require.NoError(t, err)
	res := results[srv.URL+"/manual.pdf?v=3"]
	require.NotNil(t, res)
	assert.Equal(t, "extracted pdf text", res.Content)
}

func TestPageFetcher_FetchPages_SkipsByExtensionWithoutRequest(t *testing.T) {
	t.Parallel()

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	f := newPageFetcher(nil, passthroughConverter(), passthroughConverter())
	results, err := f.FetchPages(context.Background(), []string{srv.URL + "/logo.png"})

	require.NoError(t, err)
	assert.Zero(t, requests)

	res := results[srv.URL+"/logo.png"]
	require.NotNil(t, res)
	assert.Empty(t, res.Content)
	assert.Empty(t, res.Err)
}

func TestPageFetcher_FetchPages_SkipsByContentType(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		fmt.Fprint(w, "binary")
	}))
	defer srv.Close()

	f := newPageFetcher(nil, passthroughConverter(), passthroughConverter())
	results, err := f.FetchPages(context.Background(), []string{srv.URL + "/photo"})

	require.NoError(t, err)
	res := results[srv.URL+"/photo"]
	require.NotNil(t, res)
	assert.Empty(t, res.Content)
	assert.Empty(t, res.Err)
	assert.Equal(t, "image/jpeg", res.ContentType)
}

func TestPageFetcher_FetchPages_RecordsFailureAfterRetries(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := sitechathttp.NewPageFetcher(nil, passthroughConverter(), passthroughConverter(),
		sitechathttp.WithRequestsPerSecond(10000),
		sitechathttp.WithFetcherRetryDelays([]time.Duration{time.Millisecond, time.Millisecond}),
	)
	results, err := f.FetchPages(context.Background(), []string{srv.URL})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	res := results[srv.URL]
	require.NotNil(t, res)
	assert.Contains(t, res.Err, "HTTP 503")
	assert.Empty(t, res.Content)
}

func TestPageFetcher_FetchPages_InterleavedSkipsAndFetches(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<p>page content</p>")
	}))
	defer srv.Close()

	var urls []string
	for i := 0; i < 200; i++ {
		urls = append(urls, fmt.Sprintf("%s/page-%d", srv.URL, i))
		urls = append(urls, fmt.Sprintf("%s/asset-%d.png", srv.URL, i))
	}

	f := newPageFetcher(nil, passthroughConverter(), passthroughConverter())
	results, err := f.FetchPages(context.Background(), urls)

	require.NoError(t, err)
	require.Len(t, results, len(urls))
	for i := 0; i < 200; i++ {
		page := results[fmt.Sprintf("%s/page-%d", srv.URL, i)]
		require.NotNil(t, page)
		assert.NotEmpty(t, page.Content)

		asset := results[fmt.Sprintf("%s/asset-%d.png", srv.URL, i)]
		require.NotNil(t, asset)
		assert.Empty(t, asset.Content)
		assert.Empty(t, asset.Err)
	}
}

func TestPageFetcher_FetchPages_MixedResults(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<p>fine</p>")
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := newPageFetcher(nil, passthroughConverter(), passthroughConverter())
	urls := []string{srv.URL + "/ok", srv.URL + "/broken", srv.URL + "/skip.zip"}
	results, err := f.FetchPages(context.Background(), urls)

	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NotEmpty(t, results[srv.URL+"/ok"].Content)
	assert.NotEmpty(t, results[srv.URL+"/broken"].Err)
	assert.Empty(t, results[srv.URL+"/skip.zip"].Content)
	assert.Empty(t, results[srv.URL+"/skip.zip"].Err)
}
