package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/sitechat/sitechat"
)

// addBatchSize is the number of chunks embedded and inserted per transaction.
const addBatchSize = 100

// probeText is embedded once at startup to discover the embedding dimension.
const probeText = "dimension probe"

const dimensionKey = "embedding_dimension"

// Compile-time interface verification.
var _ sitechat.VectorStore = (*VectorStore)(nil)

// VectorStore implements sitechat.VectorStore on SQLite. Embeddings are
// stored as little-endian float32 blobs; similarity search scans the
// namespace and ranks by cosine similarity.
type VectorStore struct {
	db       *DB
	embedder sitechat.Embedder
	dim      int
}

// NewVectorStore creates a VectorStore and verifies that the embedder's
// dimension matches whatever the database was built with. A dimension
// mismatch means the index was created by a different embedding model and
// must be rebuilt, so it is reported as an error rather than repaired.
func NewVectorStore(ctx context.Context, db *DB, embedder sitechat.Embedder) (*VectorStore, error) {
	vecs, err := embedder.Embed(ctx, []string{probeText})
	if err != nil {
		return nil, fmt.Errorf("probing embedding dimension: %w", err)
	}
	if len(vecs) != 1 || len(vecs[0]) == 0 {
		return nil, sitechat.Errorf(sitechat.EINTERNAL, "embedder returned empty probe embedding")
	}
	dim := len(vecs[0])

	var stored string
	err = db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", dimensionKey).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		if _, err := db.ExecContext(ctx, "INSERT INTO meta (key, value) VALUES (?, ?)",
			dimensionKey, strconv.Itoa(dim)); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		storedDim, err := strconv.Atoi(stored)
		if err != nil || storedDim != dim {
			return nil, sitechat.Errorf(sitechat.EINTERNAL,
				"embedding dimension mismatch: index has %s, embedder produces %d", stored, dim)
		}
	}

	return &VectorStore{db: db, embedder: embedder, dim: dim}, nil
}

// chunkID derives a stable row ID so re-indexing a page overwrites its
// previous chunks instead of accumulating duplicates.
func chunkID(namespace string, chunk *sitechat.Chunk) string {
	key := namespace + "|" + chunk.Metadata["source"] + "|" + chunk.Metadata["chunk_index"]
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(key))
	return hex.EncodeToString(b)
}

// AddChunks embeds and stores chunks in batches. A failed batch aborts the
// whole operation; batches committed before the failure remain stored.
func (s *VectorStore) AddChunks(ctx context.Context, namespace string, chunks []*sitechat.Chunk) error {
	if namespace == "" {
		return sitechat.Errorf(sitechat.EINVALID, "namespace is required")
	}

	for start := 0; start < len(chunks); start += addBatchSize {
		end := start + addBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := s.addBatch(ctx, namespace, chunks[start:end]); err != nil {
			return fmt.Errorf("storing chunks %d-%d: %w", start, end-1, err)
		}
	}

	return nil
}

func (s *VectorStore) addBatch(ctx context.Context, namespace string, chunks []*sitechat.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vecs, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return err
	}
	if len(vecs) != len(chunks) {
		return sitechat.Errorf(sitechat.EINTERNAL,
			"embedder returned %d embeddings for %d chunks", len(vecs), len(chunks))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, c := range chunks {
		meta, err := json.Marshal(c.Metadata)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO chunks (id, namespace, text, metadata, embedding, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, chunkID(namespace, c), namespace, c.Text, string(meta), encodeVector(vecs[i]), now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Query embeds text and returns the topK most similar chunks in the
// namespace, optionally restricted to chunks whose metadata contains every
// key/value pair in filter.
func (s *VectorStore) Query(ctx context.Context, text, namespace string, topK int, filter map[string]string) ([]*sitechat.Match, error) {
	if topK <= 0 {
		topK = sitechat.DefaultTopK
	}

	vecs, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, sitechat.Errorf(sitechat.EINTERNAL, "embedder returned %d embeddings for query", len(vecs))
	}
	query := vecs[0]

	rows, err := s.db.QueryContext(ctx,
		"SELECT text, metadata, embedding FROM chunks WHERE namespace = ?", namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*sitechat.Match
	for rows.Next() {
		var (
			chunkText string
			metaJSON  string
			blob      []byte
		)
		if err := rows.Scan(&chunkText, &metaJSON, &blob); err != nil {
			return nil, err
		}

		var meta map[string]string
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			return nil, err
		}
		if !metadataMatches(meta, filter) {
			continue
		}

		matches = append(matches, &sitechat.Match{
			Text:     chunkText,
			Metadata: meta,
			Score:    cosineSimilarity(query, decodeVector(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	return matches, nil
}

// DeleteNamespace removes every chunk in the namespace. Deleting a
// namespace that doesn't exist is a no-op.
func (s *VectorStore) DeleteNamespace(ctx context.Context, namespace string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE namespace = ?", namespace)
	return err
}

// ListNamespaces returns the namespaces that currently hold chunks.
func (s *VectorStore) ListNamespaces(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT namespace FROM chunks ORDER BY namespace")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var namespaces []string
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			return nil, err
		}
		namespaces = append(namespaces, ns)
	}

	return namespaces, rows.Err()
}

func metadataMatches(meta, filter map[string]string) bool {
	for k, v := range filter {
		if meta[k] != v {
			return false
		}
	}
	return true
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(blob []byte) []float32 {
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
