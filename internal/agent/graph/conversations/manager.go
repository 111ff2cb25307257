package conversations

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopmate-poc/server/internal/agent/model"

	"github.com/cloudwego/eino/schema"
)

// MessagesManager mediates between graph nodes and the conversation store,
// owning the history window applied to model context.
type MessagesManager struct {
	conversationRepo model.ConversationRepository
	historyMaxTurns  int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		historyMaxTurns:  config.History.MaxTurns,
	}
}

// SaveUserMessage validates and persists the incoming customer query.
func (cm *MessagesManager) SaveUserMessage(ctx context.Context, conversationID string, query string) error {
	if strings.TrimSpace(conversationID) == "" {
		return fmt.Errorf("conversation id is empty")
	}
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is empty")
	}
	return cm.conversationRepo.AddMessage(ctx, conversationID, schema.UserMessage(query))
}

// BuildResponseContext assembles the model input: system prompt followed by a
// bounded window of recent conversation turns.
func (cm *MessagesManager) BuildResponseContext(ctx context.Context, conversationID string, systemPrompt string) ([]*schema.Message, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
	}
	messages = append(messages, trimTail(history.Messages, cm.historyMaxTurns)...)

	return messages, nil
}

// SaveResponse persists a final assistant answer.
func (cm *MessagesManager) SaveResponse(ctx context.Context, conversationID string, content string) error {
	assistantMsg := schema.AssistantMessage(content, nil)
	return cm.conversationRepo.AddMessage(ctx, conversationID, assistantMsg)
}

// ====================== Helper function ======================

// trimTail returns a copy of the most recent maxTurns messages. Non-positive
// maxTurns disables the window.
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
