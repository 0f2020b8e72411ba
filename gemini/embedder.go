// Package gemini implements sitechat.Embedder and sitechat.ChatModel using
// Google Gemini.
package gemini

import (
	"context"

	"google.golang.org/genai"

	"github.com/sitechat/sitechat"
)

// DefaultEmbeddingModel is the embedding model used unless overridden.
const DefaultEmbeddingModel = "gemini-embedding-001"

// Ensure Embedder implements sitechat.Embedder at compile time.
var _ sitechat.Embedder = (*Embedder)(nil)

// Embedder implements sitechat.Embedder using the Gemini embedding API.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates a new Embedder. An empty model selects
// DefaultEmbeddingModel.
func NewEmbedder(client *genai.Client, model string) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Embedder{client: client, model: model}
}

// Embed returns one embedding per input text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: t}}}
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		return nil, sitechat.Errorf(sitechat.EINTERNAL,
			"gemini returned %d embeddings for %d texts", countEmbeddings(resp), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, sitechat.Errorf(sitechat.EINTERNAL, "gemini returned empty embedding at index %d", i)
		}
		out[i] = emb.Values
	}

	return out, nil
}

func countEmbeddings(resp *genai.EmbedContentResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Embeddings)
}
