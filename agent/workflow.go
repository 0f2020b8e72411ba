package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sitechat/sitechat"
)

// DefaultAnswer replaces drafts the reviewer rejects as unanswerable.
const DefaultAnswer = "I'm sorry, I can't help with that question based on the information available to me."

// apologyAnswer is the terminal fallback when the workflow itself fails.
const apologyAnswer = "I apologize, but I ran into a problem while processing your question. Please try again."

const systemPrompt = `You are a helpful assistant that answers questions about specific websites.
Use the retrieval tools to look up relevant content before answering.
Base your answers only on retrieved content; if nothing relevant is found, say you don't know.`

// Workflow answers questions using retrieval-augmented generation. Each
// query gives the model one turn with the retrieval tools bound, synthesizes
// a structured answer with cited sources from the retrieved context, and
// reviews the result for brand compliance.
type Workflow struct {
	Model    sitechat.ChatModel
	Tools    *ToolSet
	Reviewer sitechat.Reviewer
	Logger   *slog.Logger
}

func (w *Workflow) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Answer runs the full workflow for one question. Failures inside the
// workflow degrade to an apology answer; the returned error is reserved for
// context cancellation.
func (w *Workflow) Answer(ctx context.Context, question string) (*sitechat.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, sitechat.Errorf(sitechat.EINVALID, "question is required")
	}

	logger := w.logger().With("query_id", uuid.NewString())
	logger.Info("answering question", "question", question)

	state := &sitechat.AgentState{
		Question: question,
		Messages: []sitechat.Message{
			{Role: sitechat.RoleSystem, Text: systemPrompt},
			{Role: sitechat.RoleUser, Text: question},
		},
	}

	w.runAgent(ctx, state, logger)
	if state.Err == "" {
		w.synthesize(ctx, state, logger)
	}
	w.review(ctx, state, logger)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if state.Err != "" && state.FinalAnswer == "" {
		logger.Error("workflow failed", "error", state.Err)
		return &sitechat.Answer{Response: apologyAnswer, Sources: []string{}}, nil
	}

	if state.Sources == nil {
		state.Sources = []string{}
	}
	logger.Info("question answered", "sources", len(state.Sources))
	return &sitechat.Answer{Response: state.FinalAnswer, Sources: state.Sources}, nil
}

// runAgent gives the model one turn with the retrieval tools bound. A tool
// call is executed and its result recorded for synthesis; a plain text reply
// answers the question directly.
func (w *Workflow) runAgent(ctx context.Context, state *sitechat.AgentState, logger *slog.Logger) {
	reply, err := w.Model.Chat(ctx, state.Messages, w.Tools.Specs())
	if err != nil {
		state.Err = fmt.Sprintf("chat: %v", err)
		return
	}

	if reply.ToolCall == nil {
		state.Answer = reply.Text
		return
	}

	logger.Info("executing tool", "tool", reply.ToolCall.Name, "query", reply.ToolCall.Query)
	result, err := w.Tools.Execute(ctx, reply.ToolCall)
	if err != nil {
		state.Err = fmt.Sprintf("tool %s: %v", reply.ToolCall.Name, err)
		return
	}

	state.Context = result.Context
	state.Retrieved = result.Sources
	state.Messages = append(state.Messages,
		sitechat.Message{Role: sitechat.RoleModel, ToolCall: reply.ToolCall},
		sitechat.Message{Role: sitechat.RoleTool, ToolResult: result},
	)
}

// synthesize produces the draft answer and its source list. Retrieved
// context is condensed into a structured {response, sources} object; if
// structured generation fails, a plain generation from the same prompt
// keeps the tool-collected sources. A direct answer without retrieval
// carries no sources.
func (w *Workflow) synthesize(ctx context.Context, state *sitechat.AgentState, logger *slog.Logger) {
	if state.Context == "" {
		state.Sources = []string{}
		return
	}

	prompt := BuildSynthesisPrompt(state.Question, state.Context)
	answer, err := w.Model.GenerateAnswer(ctx, prompt)
	if err != nil {
		logger.Warn("structured synthesis failed, falling back to plain generation", "error", err)
		text, err := w.Model.Generate(ctx, prompt)
		if err != nil {
			state.Err = fmt.Sprintf("synthesis: %v", err)
			return
		}
		state.Answer = text
		state.Sources = state.Retrieved
		return
	}

	state.Answer = answer.Response
	// Only report sources that retrieval actually returned; the model must
	// not introduce URLs of its own.
	state.Sources = intersectSources(answer.Sources, state.Retrieved)
}

// review passes the draft through the brand reviewer. A reviewer failure
// keeps the unreviewed draft; an unanswerable verdict or a missing draft
// yields the default answer with no sources.
func (w *Workflow) review(ctx context.Context, state *sitechat.AgentState, logger *slog.Logger) {
	if state.Err != "" {
		return
	}
	if strings.TrimSpace(state.Answer) == "" {
		state.FinalAnswer = DefaultAnswer
		state.Sources = []string{}
		return
	}

	reviewed, err := w.Reviewer.Review(ctx, state.Answer)
	if err != nil {
		logger.Warn("brand review failed, returning unreviewed answer", "error", err)
		state.FinalAnswer = state.Answer
		return
	}

	if reviewed == sitechat.Unanswerable {
		logger.Info("reviewer rejected draft as unanswerable")
		state.FinalAnswer = DefaultAnswer
		state.Sources = []string{}
		return
	}

	state.FinalAnswer = reviewed
}

// BuildSynthesisPrompt builds the structured-answer prompt from the question
// and the retrieved context.
func BuildSynthesisPrompt(question, context string) string {
	var sb strings.Builder
	sb.WriteString("Answer the question using only the retrieved website content below.\n\n")
	sb.WriteString("Retrieved content:\n")
	sb.WriteString(context)
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nList as sources only the URLs of content you actually used, copied verbatim from the [Source: ...] labels. Never invent or modify URLs.")
	return sb.String()
}

func intersectSources(reported, retrieved []string) []string {
	allowed := make(map[string]struct{}, len(retrieved))
	for _, s := range retrieved {
		allowed[s] = struct{}{}
	}

	out := []string{}
	seen := make(map[string]struct{})
	for _, s := range reported {
		if _, ok := allowed[s]; !ok {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
