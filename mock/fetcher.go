package mock

import (
	"context"

	"github.com/sitechat/sitechat"
)

var _ sitechat.PageFetcher = (*PageFetcher)(nil)

// PageFetcher is a mock implementation of sitechat.PageFetcher.
type PageFetcher struct {
	FetchPagesFn func(ctx context.Context, urls []string) (map[string]*sitechat.FetchResult, error)
}

func (f *PageFetcher) FetchPages(ctx context.Context, urls []string) (map[string]*sitechat.FetchResult, error) {
	return f.FetchPagesFn(ctx, urls)
}
