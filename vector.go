package sitechat

import "context"

// DefaultTopK is the number of matches retrieved per query when the caller
// does not specify one.
const DefaultTopK = 5

// Match is one similarity-search result.
type Match struct {
	Text     string
	Metadata map[string]string
	Score    float32
}

// VectorStore is a namespaced nearest-neighbor store for text chunks.
// Namespaces are created implicitly on first upsert and deleted explicitly.
// Implementations must be safe for concurrent use; per-namespace write
// isolation is the backing index's responsibility.
type VectorStore interface {
	// AddChunks embeds and upserts chunks into the namespace. Upserts run in
	// batches; failure of any batch aborts the whole operation (no
	// partial-success contract).
	AddChunks(ctx context.Context, namespace string, chunks []*Chunk) error

	// Query embeds the text and returns up to topK matches in the namespace,
	// ordered by descending similarity. The optional filter restricts
	// matches to chunks whose metadata contains every given key/value pair.
	Query(ctx context.Context, text string, namespace string, topK int, filter map[string]string) ([]*Match, error)

	// DeleteNamespace removes a namespace and all its chunks.
	DeleteNamespace(ctx context.Context, namespace string) error

	// ListNamespaces returns the namespaces currently present in the store.
	ListNamespaces(ctx context.Context) ([]string, error)
}

// Embedder converts text into fixed-dimension vectors.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	// All vectors share the same dimension.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
