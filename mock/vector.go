package mock

import (
	"context"

	"github.com/sitechat/sitechat"
)

var _ sitechat.VectorStore = (*VectorStore)(nil)

// VectorStore is a mock implementation of sitechat.VectorStore.
type VectorStore struct {
	AddChunksFn       func(ctx context.Context, namespace string, chunks []*sitechat.Chunk) error
	QueryFn           func(ctx context.Context, text, namespace string, topK int, filter map[string]string) ([]*sitechat.Match, error)
	DeleteNamespaceFn func(ctx context.Context, namespace string) error
	ListNamespacesFn  func(ctx context.Context) ([]string, error)
}

func (s *VectorStore) AddChunks(ctx context.Context, namespace string, chunks []*sitechat.Chunk) error {
	return s.AddChunksFn(ctx, namespace, chunks)
}

func (s *VectorStore) Query(ctx context.Context, text, namespace string, topK int, filter map[string]string) ([]*sitechat.Match, error) {
	return s.QueryFn(ctx, text, namespace, topK, filter)
}

func (s *VectorStore) DeleteNamespace(ctx context.Context, namespace string) error {
	return s.DeleteNamespaceFn(ctx, namespace)
}

func (s *VectorStore) ListNamespaces(ctx context.Context) ([]string, error) {
	return s.ListNamespacesFn(ctx)
}

var _ sitechat.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of sitechat.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedFn(ctx, texts)
}
