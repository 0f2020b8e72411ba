package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/agent"
	main "github.com/sitechat/sitechat/cmd/sitechat"
	"github.com/sitechat/sitechat/mock"
)

// answerWorkflow wires a Workflow whose model answers directly with text.
func answerWorkflow(text string) *agent.Workflow {
	cfg := &sitechat.Config{Websites: []sitechat.WebsiteConfig{
		{Name: "Acme", Sitemap: "https://acme.test/sitemap.xml"},
	}}
	model := &mock.ChatModel{
		ChatFn: func(ctx context.Context, msgs []sitechat.Message, tools []sitechat.ToolSpec) (*sitechat.Message, error) {
			return &sitechat.Message{Role: sitechat.RoleModel, Text: text}, nil
		},
	}
	reviewer := &mock.Reviewer{
		ReviewFn: func(ctx context.Context, draft string) (string, error) {
			return draft, nil
		},
	}
	return &agent.Workflow{
		Model:    model,
		Tools:    agent.NewToolSet(cfg, &mock.VectorStore{}),
		Reviewer: reviewer,
	}
}

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:      context.Background(),
		Stdout:   stdout,
		Stderr:   &bytes.Buffer{},
		Workflow: answerWorkflow("We are open weekdays 9am-5pm."),
	}

	cmd := &main.AskCmd{Question: "What are your hours?"}
	err := cmd.Run(deps)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "We are open weekdays 9am-5pm.")
	assert.NotContains(t, stdout.String(), "Sources:")
}

func TestAskCmd_Run_EmptyQuestion(t *testing.T) {
	t.Parallel()

	stderr := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:      context.Background(),
		Stdout:   &bytes.Buffer{},
		Stderr:   stderr,
		Workflow: answerWorkflow("unused"),
	}

	cmd := &main.AskCmd{Question: "  "}
	err := cmd.Run(deps)

	assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
	assert.Contains(t, stderr.String(), "error:")
}
