package sitechat

import "context"

// Message roles in an agent conversation.
const (
	RoleSystem = "system"
	RoleUser   = "user"
	RoleModel  = "model"
	RoleTool   = "tool"
)

// Message is one entry in the answer workflow's conversation history.
// Exactly one of Text, ToolCall, or ToolResult is meaningful per message.
type Message struct {
	Role       string
	Text       string
	ToolCall   *ToolCall
	ToolResult *ToolResult
}

// ToolCall is a model request to execute a retrieval tool.
type ToolCall struct {
	Name  string
	Query string
}

// ToolResult is the outcome of executing a retrieval tool: the assembled
// context string and the deduplicated source URLs it was built from.
type ToolResult struct {
	Name    string
	Context string
	Sources []string
}

// ToolSpec declares a retrieval tool to the model. Every tool takes a single
// free-text query parameter.
type ToolSpec struct {
	Name        string
	Description string
}

// Answer is the terminal output of the answer workflow and the response
// contract relayed by every front end.
type Answer struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

// ChatModel is the language-model capability consumed by the answer workflow.
type ChatModel interface {
	// Chat generates the next message for the conversation. When tools are
	// bound the model may choose at most one tool call per turn instead of
	// answering directly.
	Chat(ctx context.Context, msgs []Message, tools []ToolSpec) (*Message, error)

	// GenerateAnswer asks the model for a typed {response, sources} object.
	GenerateAnswer(ctx context.Context, prompt string) (*Answer, error)

	// Generate produces free text from a prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Reviewer checks a draft answer against brand guidelines. It may return the
// draft unchanged, a minimally edited version, or the Unanswerable sentinel
// when the draft cannot be made compliant.
type Reviewer interface {
	Review(ctx context.Context, draft string) (string, error)
}

// Unanswerable is the sentinel a Reviewer returns when a draft cannot be
// revised into compliance.
const Unanswerable = "<unanswerable>"

// AgentState is the mutable record threaded through the answer workflow.
// It is created once per query and discarded after the workflow terminates;
// concurrent queries each use a private instance.
type AgentState struct {
	Question    string
	Messages    []Message
	Context     string
	Answer      string
	FinalAnswer string

	// Sources is the source list attached to the answer.
	Sources []string

	// Retrieved is every source URL actually returned by tool execution;
	// reported sources are constrained to this set.
	Retrieved []string

	// Err records the first failure encountered in any node. It does not
	// prevent the workflow from reaching a terminal state.
	Err string
}
