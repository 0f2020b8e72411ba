// Package agent implements the question-answering workflow: a tool-calling
// agent retrieves indexed website content, synthesizes an answer with cited
// sources, and passes it through brand review.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/sitechat/sitechat"
)

// ToolNamePrefix prefixes every retrieval tool name; the namespace follows.
const ToolNamePrefix = "retrieve_from_"

type tool struct {
	spec      sitechat.ToolSpec
	namespace string
}

// ToolSet exposes one retrieval tool per configured website, each bound to
// that website's namespace in the vector store.
type ToolSet struct {
	store sitechat.VectorStore
	tools map[string]*tool
	order []string
}

// NewToolSet builds retrieval tools for every website in cfg.
func NewToolSet(cfg *sitechat.Config, store sitechat.VectorStore) *ToolSet {
	ts := &ToolSet{
		store: store,
		tools: make(map[string]*tool, len(cfg.Websites)),
	}

	for i := range cfg.Websites {
		site := &cfg.Websites[i]
		ns := site.Namespace()
		name := ToolNamePrefix + ns

		desc := fmt.Sprintf("Search the indexed content of %s for information relevant to the query.", site.Name)
		if site.Description != "" {
			desc += " " + site.Description
		}

		ts.tools[name] = &tool{
			spec:      sitechat.ToolSpec{Name: name, Description: desc},
			namespace: ns,
		}
		ts.order = append(ts.order, name)
	}

	return ts
}

// Specs returns the tool specs in configuration order.
func (ts *ToolSet) Specs() []sitechat.ToolSpec {
	specs := make([]sitechat.ToolSpec, len(ts.order))
	for i, name := range ts.order {
		specs[i] = ts.tools[name].spec
	}
	return specs
}

// Execute runs a retrieval tool call. The result context labels every chunk
// with its source URL; sources are deduplicated in first-seen order.
func (ts *ToolSet) Execute(ctx context.Context, call *sitechat.ToolCall) (*sitechat.ToolResult, error) {
	t, ok := ts.tools[call.Name]
	if !ok {
		return nil, sitechat.Errorf(sitechat.EINVALID, "unknown tool %q", call.Name)
	}

	matches, err := ts.store.Query(ctx, call.Query, t.namespace, sitechat.DefaultTopK, nil)
	if err != nil {
		return nil, err
	}

	result := &sitechat.ToolResult{Name: call.Name}
	if len(matches) == 0 {
		result.Context = "No relevant content found."
		return result, nil
	}

	seen := make(map[string]struct{})
	var blocks []string
	for _, m := range matches {
		source := m.Metadata["source"]
		blocks = append(blocks, fmt.Sprintf("[Source: %s]\n%s", source, m.Text))
		if source == "" {
			continue
		}
		if _, ok := seen[source]; !ok {
			seen[source] = struct{}{}
			result.Sources = append(result.Sources, source)
		}
	}
	result.Context = strings.Join(blocks, "\n\n")

	return result, nil
}
