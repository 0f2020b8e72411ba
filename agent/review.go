package agent

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sitechat/sitechat"
)

// DefaultGuidelines is used when no guidelines file is configured.
const DefaultGuidelines = `- Maintain a professional and friendly tone.
- Be concise and direct; avoid filler phrases.
- Never speculate beyond the provided information.
- Do not mention internal systems, tooling, or competitors.
- Do not use profanity or informal slang.`

// Ensure BrandReviewer implements sitechat.Reviewer at compile time.
var _ sitechat.Reviewer = (*BrandReviewer)(nil)

// BrandReviewer rewrites draft answers to comply with brand guidelines.
// When a draft cannot be made compliant the model returns the
// sitechat.Unanswerable sentinel, which callers replace with a default
// answer.
type BrandReviewer struct {
	model      sitechat.ChatModel
	guidelines string
}

// NewBrandReviewer creates a BrandReviewer. With a non-empty guidelinesPath
// the guidelines are read from that file; otherwise DefaultGuidelines apply.
func NewBrandReviewer(model sitechat.ChatModel, guidelinesPath string) (*BrandReviewer, error) {
	guidelines := DefaultGuidelines
	if guidelinesPath != "" {
		data, err := os.ReadFile(guidelinesPath)
		if err != nil {
			return nil, fmt.Errorf("reading brand guidelines: %w", err)
		}
		guidelines = strings.TrimSpace(string(data))
	}
	return &BrandReviewer{model: model, guidelines: guidelines}, nil
}

// Review returns the draft rewritten to comply with the guidelines, or the
// sitechat.Unanswerable sentinel when compliance is impossible.
func (r *BrandReviewer) Review(ctx context.Context, draft string) (string, error) {
	reviewed, err := r.model.Generate(ctx, BuildReviewPrompt(r.guidelines, draft))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reviewed), nil
}

// BuildReviewPrompt builds the brand review prompt for a draft answer.
func BuildReviewPrompt(guidelines, draft string) string {
	var sb strings.Builder
	sb.WriteString("You are a brand compliance reviewer. Review the draft answer below against the brand guidelines and rewrite it as needed so it complies.\n\n")
	sb.WriteString("Brand guidelines:\n")
	sb.WriteString(guidelines)
	sb.WriteString("\n\nDraft answer:\n")
	sb.WriteString(draft)
	sb.WriteString("\n\nReturn only the final answer text. Preserve the factual content and any URLs exactly as written. ")
	fmt.Fprintf(&sb, "If the draft cannot be made compliant with the guidelines, return exactly %s and nothing else.", sitechat.Unanswerable)
	return sb.String()
}
