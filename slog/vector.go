package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitechat/sitechat"
)

// Ensure LoggingVectorStore implements sitechat.VectorStore.
var _ sitechat.VectorStore = (*LoggingVectorStore)(nil)

// LoggingVectorStore wraps a VectorStore with operation logging.
type LoggingVectorStore struct {
	next   sitechat.VectorStore
	logger *slog.Logger
}

// NewLoggingVectorStore creates a new LoggingVectorStore.
func NewLoggingVectorStore(next sitechat.VectorStore, logger *slog.Logger) *LoggingVectorStore {
	return &LoggingVectorStore{next: next, logger: logger}
}

// AddChunks delegates to the wrapped store and logs the operation.
func (s *LoggingVectorStore) AddChunks(ctx context.Context, namespace string, chunks []*sitechat.Chunk) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("vector add",
			"namespace", namespace,
			"chunks", len(chunks),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AddChunks(ctx, namespace, chunks)
}

// Query delegates to the wrapped store and logs the operation.
func (s *LoggingVectorStore) Query(ctx context.Context, text, namespace string, topK int, filter map[string]string) (matches []*sitechat.Match, err error) {
	defer func(begin time.Time) {
		s.logger.Info("vector query",
			"namespace", namespace,
			"top_k", topK,
			"matches", len(matches),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Query(ctx, text, namespace, topK, filter)
}

// DeleteNamespace delegates to the wrapped store and logs the operation.
func (s *LoggingVectorStore) DeleteNamespace(ctx context.Context, namespace string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("vector namespace delete",
			"namespace", namespace,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteNamespace(ctx, namespace)
}

// ListNamespaces delegates to the wrapped store and logs the operation.
func (s *LoggingVectorStore) ListNamespaces(ctx context.Context) (namespaces []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("vector namespace list",
			"count", len(namespaces),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListNamespaces(ctx)
}
