package model

// ================ Config ================
type ConversationConfig struct {
	TTL     string `envconfig:"CONVERSATION_TTL" default:"15m"`
	History struct {
		MaxTurns int `envconfig:"CONVERSATION_HISTORY_MAX_TURNS" default:"10"`
	}
	Tools struct {
		MaxCalls int `envconfig:"CONVERSATION_TOOL_MAX_CALLS" default:"5"`
	}
	Critique struct {
		MaxRevisions int `envconfig:"CONVERSATION_CRITIQUE_MAX_REVISIONS" default:"2"`
	}
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"1000"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.5"`
}

// CriticModelConfig configures the secondary model that audits draft answers
// in self-critique mode. Low temperature keeps the audit deterministic.
type CriticModelConfig struct {
	Model       string  `envconfig:"CRITIC_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CRITIC_MAX_TOKENS" default:"1000"`
	Temperature float32 `envconfig:"CRITIC_TEMPERATURE" default:"0.1"`
}

type ResponsePromptConfig struct {
	BusinessType  string `envconfig:"PROMPT_BUSINESS_TYPE" default:"online fashion retail"`
	AssistantName string `envconfig:"PROMPT_ASSISTANT_NAME" default:"ShopMate"`
}
