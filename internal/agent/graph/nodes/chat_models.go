package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/shopmate-poc/server/internal/agent/model"
	logx "github.com/shopmate-poc/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation.
// CriticConfig is optional; without it only the response model is built.
type ChatModelConfig struct {
	APIKey       string
	BaseURL      string
	RespConfig   *model.ResponseModelConfig
	CriticConfig *model.CriticModelConfig
}

// ChatModels holds the response model and, in self-critique mode, the critic.
type ChatModels struct {
	Response          *gemini.ChatModel
	Critic            *gemini.ChatModel
	ResponseModelName string
	CriticModelName   string
}

// NewChatModels creates the chat models with the given configuration.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	if config.RespConfig == nil {
		return nil, fmt.Errorf("response model config is nil")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModelResponse, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.RespConfig.Model,
		Temperature: &config.RespConfig.Temperature,
		MaxTokens:   &config.RespConfig.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: true,
			ThinkingBudget:  genai.Ptr(int32(2000)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Response model")
		return nil, fmt.Errorf("error creating Response model: %w", err)
	}

	cms := &ChatModels{
		Response:          chatModelResponse,
		ResponseModelName: config.RespConfig.Model,
	}

	if config.CriticConfig != nil {
		chatModelCritic, err := gemini.NewChatModel(ctx, &gemini.Config{
			Client:      client,
			Model:       config.CriticConfig.Model,
			Temperature: &config.CriticConfig.Temperature,
			MaxTokens:   &config.CriticConfig.MaxTokens,
		})
		if err != nil {
			logx.Error().Err(err).Msg("Error creating Critic model")
			return nil, fmt.Errorf("error creating Critic model: %w", err)
		}
		cms.Critic = chatModelCritic
		cms.CriticModelName = config.CriticConfig.Model
	}

	return cms, nil
}

// BindToolsToResponseModel binds the shopping tools to the response chat model.
func (cm *ChatModels) BindToolsToResponseModel(ctx context.Context, tools []*schema.ToolInfo) error {
	if err := cm.Response.BindTools(tools); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}

	logx.Debug().Msg("Successfully bound tools to response model")
	return nil
}

// NewResponseChatModelNode creates a wrapper for the Response chat model to be used as a node
func NewResponseChatModelNode(chatModel *gemini.ChatModel) *gemini.ChatModel {
	return chatModel
}

// NewCriticChatModelNode creates a wrapper for the Critic chat model to be used as a node
func NewCriticChatModelNode(chatModel *gemini.ChatModel) *gemini.ChatModel {
	return chatModel
}
