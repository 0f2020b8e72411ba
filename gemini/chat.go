package gemini

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	"github.com/sitechat/sitechat"
)

// DefaultChatModel is the generation model used unless overridden.
const DefaultChatModel = "gemini-2.5-flash"

// Ensure ChatModel implements sitechat.ChatModel at compile time.
var _ sitechat.ChatModel = (*ChatModel)(nil)

// ChatModel implements sitechat.ChatModel using the Gemini API. Tool calls
// are exposed through Gemini function calling; structured answers use JSON
// response schemas.
type ChatModel struct {
	client *genai.Client
	model  string
}

// NewChatModel creates a new ChatModel. An empty model selects
// DefaultChatModel.
func NewChatModel(client *genai.Client, model string) *ChatModel {
	if model == "" {
		model = DefaultChatModel
	}
	return &ChatModel{client: client, model: model}
}

// Chat sends a conversation to Gemini. When the model requests a tool call,
// the returned message carries a ToolCall instead of text.
func (m *ChatModel) Chat(ctx context.Context, msgs []sitechat.Message, tools []sitechat.ToolSpec) (*sitechat.Message, error) {
	system, contents := BuildContents(msgs)

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if len(tools) > 0 {
		config.Tools = BuildTools(tools)
	}

	result, err := m.client.Models.GenerateContent(ctx, m.model, contents, config)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, sitechat.Errorf(sitechat.EINTERNAL, "gemini returned nil result")
	}

	if calls := result.FunctionCalls(); len(calls) > 0 {
		call := calls[0]
		query, _ := call.Args["query"].(string)
		return &sitechat.Message{
			Role:     sitechat.RoleModel,
			ToolCall: &sitechat.ToolCall{Name: call.Name, Query: query},
		}, nil
	}

	return &sitechat.Message{Role: sitechat.RoleModel, Text: result.Text()}, nil
}

// GenerateAnswer asks Gemini for a structured answer with cited sources,
// enforced through a JSON response schema.
func (m *ChatModel) GenerateAnswer(ctx context.Context, prompt string) (*sitechat.Answer, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"response": {
					Type:        genai.TypeString,
					Description: "The answer to the user's question.",
				},
				"sources": {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeString},
					Description: "URLs of the pages the answer is based on.",
				},
			},
			Required: []string{"response", "sources"},
		},
	}

	result, err := m.client.Models.GenerateContent(ctx, m.model,
		[]*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}}},
		config,
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, sitechat.Errorf(sitechat.EINTERNAL, "gemini returned nil result")
	}

	var answer sitechat.Answer
	if err := json.Unmarshal([]byte(result.Text()), &answer); err != nil {
		return nil, sitechat.Errorf(sitechat.EINTERNAL, "parsing structured answer: %v", err)
	}

	return &answer, nil
}

// Generate sends a single prompt and returns the plain text response.
func (m *ChatModel) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := m.client.Models.GenerateContent(ctx, m.model,
		[]*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", sitechat.Errorf(sitechat.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildContents translates conversation messages into Gemini contents.
// System messages are pulled out and joined into the system instruction.
func BuildContents(msgs []sitechat.Message) (system string, contents []*genai.Content) {
	var systemParts []string
	for _, msg := range msgs {
		switch msg.Role {
		case sitechat.RoleSystem:
			systemParts = append(systemParts, msg.Text)

		case sitechat.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: msg.Text}},
			})

		case sitechat.RoleModel:
			var parts []*genai.Part
			if msg.ToolCall != nil {
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					Name: msg.ToolCall.Name,
					Args: map[string]any{"query": msg.ToolCall.Query},
				}})
			} else {
				parts = append(parts, &genai.Part{Text: msg.Text})
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})

		case sitechat.RoleTool:
			if msg.ToolResult == nil {
				continue
			}
			contents = append(contents, &genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{FunctionResponse: &genai.FunctionResponse{
					Name: msg.ToolResult.Name,
					Response: map[string]any{
						"context": msg.ToolResult.Context,
						"sources": msg.ToolResult.Sources,
					},
				}}},
			})
		}
	}

	return strings.Join(systemParts, "\n\n"), contents
}

// BuildTools translates tool specs into Gemini function declarations. Every
// tool takes a single required "query" string argument.
func BuildTools(tools []sitechat.ToolSpec) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		decls[i] = &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "The search query to run against the website's content.",
					},
				},
				Required: []string{"query"},
			},
		}
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}
