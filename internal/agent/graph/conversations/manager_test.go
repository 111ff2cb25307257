package conversations

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmate-poc/server/internal/agent/model"
)

// memoryRepo is an in-memory ConversationRepository for tests.
type memoryRepo struct {
	messages map[string][]*schema.Message
	addErr   error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{messages: map[string][]*schema.Message{}}
}

func (m *memoryRepo) AddMessage(ctx context.Context, conversationID string, message *schema.Message) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.messages[conversationID] = append(m.messages[conversationID], message)
	return nil
}

func (m *memoryRepo) LoadHistory(ctx context.Context, conversationID string) (*model.ConversationHistory, error) {
	return &model.ConversationHistory{
		ConversationID: conversationID,
		Messages:       m.messages[conversationID],
	}, nil
}

func (m *memoryRepo) ClearHistory(ctx context.Context, conversationID string) error {
	delete(m.messages, conversationID)
	return nil
}

func (m *memoryRepo) GetMessageCount(ctx context.Context, conversationID string) (int, error) {
	return len(m.messages[conversationID]), nil
}

var _ model.ConversationRepository = (*memoryRepo)(nil)

func managerWith(repo model.ConversationRepository, maxTurns int) *MessagesManager {
	cfg := model.ConversationConfig{}
	cfg.History.MaxTurns = maxTurns
	return NewMessagesManager(repo, cfg)
}

func TestSaveUserMessage(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	mm := managerWith(repo, 10)

	require.NoError(t, mm.SaveUserMessage(ctx, "conv-1", "any sneakers in stock?"))
	require.Len(t, repo.messages["conv-1"], 1)
	assert.Equal(t, schema.User, repo.messages["conv-1"][0].Role)

	assert.Error(t, mm.SaveUserMessage(ctx, "", "query"))
	assert.Error(t, mm.SaveUserMessage(ctx, "conv-1", "   "))
}

func TestBuildResponseContext(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	mm := managerWith(repo, 4)

	for i := 0; i < 6; i++ {
		require.NoError(t, repo.AddMessage(ctx, "conv-1", schema.UserMessage(fmt.Sprintf("q%d", i))))
	}

	msgs, err := mm.BuildResponseContext(ctx, "conv-1", "system prompt")
	require.NoError(t, err)
	// system prompt + last 4 turns
	require.Len(t, msgs, 5)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, "system prompt", msgs[0].Content)
	assert.Equal(t, "q2", msgs[1].Content)
	assert.Equal(t, "q5", msgs[4].Content)
}

func TestBuildResponseContextUnlimitedWindow(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	mm := managerWith(repo, 0)

	for i := 0; i < 6; i++ {
		require.NoError(t, repo.AddMessage(ctx, "conv-1", schema.UserMessage(fmt.Sprintf("q%d", i))))
	}

	msgs, err := mm.BuildResponseContext(ctx, "conv-1", "system prompt")
	require.NoError(t, err)
	assert.Len(t, msgs, 7)
}

func TestSaveResponse(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	mm := managerWith(repo, 10)

	require.NoError(t, mm.SaveResponse(ctx, "conv-1", "here is your answer"))
	require.Len(t, repo.messages["conv-1"], 1)
	assert.Equal(t, schema.Assistant, repo.messages["conv-1"][0].Role)
	assert.Equal(t, "here is your answer", repo.messages["conv-1"][0].Content)
}

func TestTrimTailCopies(t *testing.T) {
	src := []*schema.Message{schema.UserMessage("a"), schema.UserMessage("b")}

	out := trimTail(src, 10)
	require.Len(t, out, 2)
	out[0] = schema.UserMessage("mutated")
	assert.Equal(t, "a", src[0].Content)

	out = trimTail(src, 1)
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].Content)
}
