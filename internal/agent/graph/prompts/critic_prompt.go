package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/critic_prompt.txt
var criticSystemPrompt string

// RenderCriticSystem renders the audit system prompt via Eino prompt component.
// This triggers Prompt callbacks and returns the final system prompt string.
func RenderCriticSystem(ctx context.Context) (string, error) {
	// Safely render known tokens only so the delimiter literals in the
	// template never collide with template syntax.
	content := strings.NewReplacer(
		"{TD}", "<||>",
		"{RD}", "##",
		"{CD}", "<|COMPLETE|>",
	).Replace(criticSystemPrompt)

	// Wrap via Eino prompt component using a messages placeholder to emit callbacks
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("critic prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("critic prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}
