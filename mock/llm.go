package mock

import (
	"context"

	"github.com/sitechat/sitechat"
)

var _ sitechat.ChatModel = (*ChatModel)(nil)

// ChatModel is a mock implementation of sitechat.ChatModel.
type ChatModel struct {
	ChatFn           func(ctx context.Context, msgs []sitechat.Message, tools []sitechat.ToolSpec) (*sitechat.Message, error)
	GenerateAnswerFn func(ctx context.Context, prompt string) (*sitechat.Answer, error)
	GenerateFn       func(ctx context.Context, prompt string) (string, error)
}

func (m *ChatModel) Chat(ctx context.Context, msgs []sitechat.Message, tools []sitechat.ToolSpec) (*sitechat.Message, error) {
	return m.ChatFn(ctx, msgs, tools)
}

func (m *ChatModel) GenerateAnswer(ctx context.Context, prompt string) (*sitechat.Answer, error) {
	return m.GenerateAnswerFn(ctx, prompt)
}

func (m *ChatModel) Generate(ctx context.Context, prompt string) (string, error) {
	return m.GenerateFn(ctx, prompt)
}

var _ sitechat.Reviewer = (*Reviewer)(nil)

// Reviewer is a mock implementation of sitechat.Reviewer.
type Reviewer struct {
	ReviewFn func(ctx context.Context, draft string) (string, error)
}

func (r *Reviewer) Review(ctx context.Context, draft string) (string, error) {
	return r.ReviewFn(ctx, draft)
}
