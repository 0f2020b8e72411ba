package sitechat

import (
	"strconv"
	"strings"
)

// Default chunking parameters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// previewLength is the number of leading characters stored in the
// "preview" metadata key of each chunk.
const previewLength = 100

// Chunk is a bounded-length segment of extracted page text plus its
// source metadata. It is the unit of embedding and retrieval.
type Chunk struct {
	Text     string
	Metadata map[string]string
}

// Chunker splits text into overlapping segments using a recursive strategy:
// it splits on the coarsest separator first (paragraph break) and recursively
// subdivides oversized pieces with progressively finer separators, merging
// adjacent small pieces up to the target size while retaining a character
// overlap between consecutive chunks.
type Chunker struct {
	Size    int
	Overlap int

	separators []string
}

// NewChunker creates a Chunker with the given target size and overlap.
// Non-positive values fall back to the defaults.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap <= 0 {
		overlap = DefaultChunkOverlap
	}
	return &Chunker{
		Size:       size,
		Overlap:    overlap,
		separators: []string{"\n\n", "\n", " ", ""},
	}
}

// ChunkText splits text into chunks carrying the template metadata plus a
// dense 0-based chunk_index, the total chunk_count, and a short preview.
// Empty input yields an empty slice.
func (c *Chunker) ChunkText(text string, metadata map[string]string) []Chunk {
	if text == "" {
		return nil
	}

	pieces := c.Split(text)
	chunks := make([]Chunk, 0, len(pieces))
	for i, piece := range pieces {
		md := make(map[string]string, len(metadata)+3)
		for k, v := range metadata {
			md[k] = v
		}
		md["chunk_index"] = strconv.Itoa(i)
		md["chunk_count"] = strconv.Itoa(len(pieces))
		md["preview"] = preview(piece)
		chunks = append(chunks, Chunk{Text: piece, Metadata: md})
	}
	return chunks
}

// Split splits text into segments no larger than the target size (except for
// indivisible pieces) with overlap between consecutive segments. Splitting is
// deterministic: identical input and parameters yield identical boundaries.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}
	return c.split(text, c.separators)
}

func (c *Chunker) split(text string, separators []string) []string {
	// Pick the coarsest separator present in the text; the empty separator
	// (character split) is the last resort.
	sep := separators[len(separators)-1]
	var finer []string
	for i, s := range separators {
		if s == "" {
			sep = s
			break
		}
		if strings.Contains(text, s) {
			sep = s
			finer = separators[i+1:]
			break
		}
	}

	var splits []string
	if sep == "" {
		for _, r := range text {
			splits = append(splits, string(r))
		}
	} else {
		splits = strings.Split(text, sep)
	}

	var final []string
	var small []string
	for _, s := range splits {
		if len(s) < c.Size {
			small = append(small, s)
			continue
		}
		if len(small) > 0 {
			final = append(final, c.merge(small, sep)...)
			small = nil
		}
		if len(finer) == 0 {
			final = append(final, s)
		} else {
			final = append(final, c.split(s, finer)...)
		}
	}
	if len(small) > 0 {
		final = append(final, c.merge(small, sep)...)
	}
	return final
}

// merge joins adjacent small pieces into chunks up to the target size,
// carrying the trailing pieces over into the next chunk to form the overlap.
func (c *Chunker) merge(splits []string, sep string) []string {
	var docs []string
	var current []string
	total := 0

	sepLen := func(n int) int {
		if n > 0 {
			return len(sep)
		}
		return 0
	}

	for _, d := range splits {
		dl := len(d)
		if total+dl+sepLen(len(current)) > c.Size && len(current) > 0 {
			if doc := joinPieces(current, sep); doc != "" {
				docs = append(docs, doc)
			}
			// Drop pieces from the front until the carried-over tail fits the
			// overlap budget and leaves room for the next piece.
			for len(current) > 0 &&
				(total > c.Overlap || (total+dl+sepLen(len(current)) > c.Size && total > 0)) {
				total -= len(current[0])
				if len(current) > 1 {
					total -= len(sep)
				}
				current = current[1:]
			}
		}
		current = append(current, d)
		total += dl
		if len(current) > 1 {
			total += len(sep)
		}
	}
	if doc := joinPieces(current, sep); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

func joinPieces(pieces []string, sep string) string {
	return strings.TrimSpace(strings.Join(pieces, sep))
}

// preview returns the first previewLength characters of text with newlines
// collapsed to spaces.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return strings.ReplaceAll(string(runes), "\n", " ")
}
