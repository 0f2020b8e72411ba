package agent_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/agent"
	"github.com/sitechat/sitechat/mock"
)

func TestBrandReviewer_Review(t *testing.T) {
	t.Parallel()

	var gotPrompt string
	model := &mock.ChatModel{
		GenerateFn: func(ctx context.Context, prompt string) (string, error) {
			gotPrompt = prompt
			return "  Reviewed answer.  \n", nil
		},
	}

	r, err := agent.NewBrandReviewer(model, "")
	require.NoError(t, err)

	reviewed, err := r.Review(context.Background(), "Draft answer.")
	require.NoError(t, err)

	assert.Equal(t, "Reviewed answer.", reviewed)
	assert.Contains(t, gotPrompt, "Draft answer.")
	assert.Contains(t, gotPrompt, "professional and friendly tone")
	assert.Contains(t, gotPrompt, sitechat.Unanswerable)
}

func TestNewBrandReviewer_GuidelinesFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "guidelines.txt")
	require.NoError(t, os.WriteFile(path, []byte("Always mention our warranty.\n"), 0o644))

	var gotPrompt string
	model := &mock.ChatModel{
		GenerateFn: func(ctx context.Context, prompt string) (string, error) {
			gotPrompt = prompt
			return "ok", nil
		},
	}

	r, err := agent.NewBrandReviewer(model, path)
	require.NoError(t, err)

	_, err = r.Review(context.Background(), "draft")
	require.NoError(t, err)
	assert.Contains(t, gotPrompt, "Always mention our warranty.")
}

func TestNewBrandReviewer_MissingGuidelinesFile(t *testing.T) {
	t.Parallel()

	_, err := agent.NewBrandReviewer(&mock.ChatModel{}, filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
