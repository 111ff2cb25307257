package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/shopmate-poc/server/internal/agent/graph"
	"github.com/shopmate-poc/server/internal/agent/model"
	"github.com/shopmate-poc/server/internal/agent/repo"
	"github.com/shopmate-poc/server/internal/core"
	logx "github.com/shopmate-poc/server/pkg/logger"
	pkgredis "github.com/shopmate-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the self-critique variant,
// sourced from environment variables (loaded from .env for local runs).
// It extends the plain ReAct setup with a second, cheaper critic model that
// audits every draft answer against tool observations before it is returned.
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Response     model.ResponseModelConfig
	Critic       model.CriticModelConfig
	Prompt       model.ResponsePromptConfig
	Conversation model.ConversationConfig
}

func main() {
	fmt.Println("ShopMate ReAct agent with self-critique audit loop")
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}

	cfg := graph.Config{
		APIKey:           envCfg.APIKey,
		BaseURL:          envCfg.BaseURL,
		ResponseModel:    envCfg.Response,
		CriticModel:      envCfg.Critic,
		ResponsePrompt:   envCfg.Prompt,
		Conversation:     envCfg.Conversation,
		ConversationRepo: repo.NewRedisConversationRepository(rdb, ttl),
		SelfCritique:     true,
	}

	runner, err := graph.BuildResponseGraph(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "Stock, price cap and discount code check",
			query:       "I want to buy a floral skirt under $40, but I'm not sure if it's in stock in size S. Can you check? Also, can I use the discount code 'SAVE10' on it?",
		},
		{
			description: "Price cap with delivery deadline",
			query:       "I need a pair of white sneakers in size 8 for under $70 that can arrive by this Friday.",
		},
		{
			description: "Cross-store price comparison",
			query:       "I like the Casual Denim Jacket. How does its price compare across the different stores?",
		},
		{
			description: "Return policy lookup by store",
			query:       "I'd like to buy a red cocktail dress in size M from SiteB. What is their return policy?",
		},
		{
			description: "Multi-tool: stock, discounts, prices, shipping, returns",
			query:       "For the Summer Floral Dress: is it in stock, are there any discount codes, how do prices compare across stores, how much is shipping to zip code 12345, and what's the return policy?",
		},
	}

	conversationID := "selfcritic-demo-001"

	for i, test := range testQueries {
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("Query: %q\n", test.query)
		fmt.Println("Processing...")

		response, err := runner.Invoke(ctx, model.QueryInput{
			ConversationID: conversationID,
			Query:          test.query,
		})
		if err != nil {
			log.Fatalf("Failed to invoke graph for test %d: %v", i+1, err)
		}

		fmt.Printf("Response %d: %s\n", i+1, response)
		fmt.Println("─────────────────────────────────────────────")

		// slight delay between tests for readability
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Println("All self-critique scenarios completed")
}
