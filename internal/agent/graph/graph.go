package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	logx "github.com/shopmate-poc/server/pkg/logger"

	"github.com/shopmate-poc/server/internal/agent/graph/conversations"
	"github.com/shopmate-poc/server/internal/agent/graph/nodes"
	"github.com/shopmate-poc/server/internal/agent/graph/observers"
	"github.com/shopmate-poc/server/internal/agent/graph/tools"
	"github.com/shopmate-poc/server/internal/agent/model"
)

// Runner is a thin wrapper to execute the compiled graph with the public QueryInput.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
}

// Config holds everything needed to compose the full response graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs ChatModels
// and MessagesManager. SelfCritique enables the critic audit loop; CriticModel
// is ignored when it is false.
type Config struct {
	APIKey           string
	BaseURL          string
	ResponseModel    model.ResponseModelConfig
	CriticModel      model.CriticModelConfig
	ResponsePrompt   model.ResponsePromptConfig
	Conversation     model.ConversationConfig
	ConversationRepo model.ConversationRepository
	SelfCritique     bool
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModels           *nodes.ChatModels
	MessagesManager      *conversations.MessagesManager
	ResponsePromptConfig *model.ResponsePromptConfig
	ToolMaxCalls         int
	MaxRevisions         int
	SelfCritique         bool
}

// GraphBuilder handles the construction of the agent conversation graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	out, err := r.runnable.Invoke(ctx, model.QueryInput{
		ConversationID: in.ConversationID,
		Query:          in.Query,
	}, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	// Best-effort print Extra (e.g., usage_cost, critique) if present
	if len(out.Extra) > 0 {
		if b, err := json.MarshalIndent(out.Extra, "", "  "); err == nil {
			fmt.Printf("Extra: %s\n", string(b))
		}
	}
	return out.Content, nil
}

// BuildResponseGraph composes ChatModels, MessagesManager, builds the graph, and returns a Runner.
func BuildResponseGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}

	cmCfg := nodes.ChatModelConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		RespConfig: &cfg.ResponseModel,
	}
	if cfg.SelfCritique {
		cmCfg.CriticConfig = &cfg.CriticModel
	}

	cms, err := nodes.NewChatModels(ctx, cmCfg)
	if err != nil {
		return nil, err
	}

	// Create messages manager
	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation)

	// Build runnable graph
	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:           cms,
		MessagesManager:      mm,
		ResponsePromptConfig: &cfg.ResponsePrompt,
		ToolMaxCalls:         cfg.Conversation.Tools.MaxCalls,
		MaxRevisions:         cfg.Conversation.Critique.MaxRevisions,
		SelfCritique:         cfg.SelfCritique,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Bool("self_critique", cfg.SelfCritique).Msg("Response graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled agent graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Basic config validation
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Response == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.SelfCritique && config.ChatModels.Critic == nil {
		return nil, fmt.Errorf("critic model required in self-critique mode")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.ResponsePromptConfig == nil {
		return nil, fmt.Errorf("response prompt config is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	if err := builder.setupTools(ctx); err != nil {
		return nil, err
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// setupTools configures shopping tools and binds them to the response model
func (b *GraphBuilder) setupTools(ctx context.Context) error {
	shoppingTools := tools.GetQueryTools()
	toolInfos, err := tools.GetToolInfos(ctx, shoppingTools)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to get tool infos")
		return fmt.Errorf("failed to get tool infos: %w", err)
	}

	if err := b.config.ChatModels.BindToolsToResponseModel(ctx, toolInfos); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools to response model")
		return fmt.Errorf("failed to bind tools to response model: %w", err)
	}

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools:               shoppingTools,
		ExecuteSequentially: true,
		UnknownToolsHandler: func(ctx context.Context, name, input string) (string, error) {
			// Gracefully handle hallucinated or malformed tool calls (e.g., empty name)
			logx.Warn().
				Str("tool_name", name).
				Str("arguments", input).
				Msg("Unknown or invalid tool call; returning fallback result")
			// Return a compact, structured message the model can use to proceed
			return fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", name), nil
		},
		ToolArgumentsHandler: sanitizeToolArguments,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Failed to create tools node")
		return fmt.Errorf("failed to create tools node: %w", err)
	}

	b.graph.AddToolsNode(nodes.NodeToolExecutor, toolsNode,
		compose.WithStatePreHandler(nodes.NewToolExecutorPreHandler(b.config.ToolMaxCalls)),
	)

	return nil
}

// sanitizeToolArguments normalizes model-generated arguments before dispatch.
// Best-effort only; it never fails hard.
func sanitizeToolArguments(ctx context.Context, name, arguments string) (string, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(arguments), &m); err != nil {
		// keep original if not JSON
		return arguments, nil
	}

	coerceString := func(key string) {
		if v, ok := m[key]; ok {
			switch vv := v.(type) {
			case string:
				m[key] = strings.TrimSpace(vv)
			default:
				m[key] = strings.TrimSpace(fmt.Sprint(v))
			}
		}
	}

	switch name {
	case tools.ToolSearchProducts:
		for _, key := range []string{"name", "color", "size", "store", "price_range"} {
			coerceString(key)
		}
		// max_results: number (optional, default 10, max 20)
		if v, ok := m["max_results"]; ok {
			switch vv := v.(type) {
			case float64:
				// JSON numbers decode as float64
				m["max_results"] = clampInt(int(vv), 1, 20)
			case string:
				if n, err := strconv.Atoi(strings.TrimSpace(vv)); err == nil {
					m["max_results"] = clampInt(n, 1, 20)
				} else {
					delete(m, "max_results")
				}
			default:
				delete(m, "max_results")
			}
		}
		// in_stock: bool (optional)
		if v, ok := m["in_stock"]; ok {
			switch vv := v.(type) {
			case bool:
				// already the right shape
			case string:
				if parsed, err := strconv.ParseBool(strings.TrimSpace(vv)); err == nil {
					m["in_stock"] = parsed
				} else {
					delete(m, "in_stock")
				}
			default:
				_ = vv
				delete(m, "in_stock")
			}
		}
	case tools.ToolEstimateShipping:
		coerceString("product_name")
		coerceString("delivery_target")
		// zip_code occasionally arrives as a number
		coerceString("zip_code")
	case tools.ToolCheckDiscounts, tools.ToolComparePrices:
		coerceString("product_name")
	case tools.ToolCheckReturnPolicy:
		coerceString("store_name")
	}

	b, err := json.Marshal(m)
	if err != nil {
		// fallback to original
		return arguments, nil
	}
	return string(b), nil
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeInputConverter,
		nodes.NewInputConverterNode(b.config.MessagesManager, b.config.ResponsePromptConfig, b.config.SelfCritique),
		compose.WithStatePreHandler(nodes.NewInputConverterPreHandler()),
	)

	b.graph.AddChatModelNode(nodes.NodeResponseChatModel,
		nodes.NewResponseChatModelNode(b.config.ChatModels.Response),
		compose.WithStatePreHandler(nodes.NewResponseChatModelPreHandler(b.config.ToolMaxCalls)),
		compose.WithStatePostHandler(nodes.NewResponseChatModelPostHandler(
			b.config.MessagesManager,
			b.config.ChatModels.ResponseModelName,
			!b.config.SelfCritique,
		)),
	)

	if !b.config.SelfCritique {
		return
	}

	b.graph.AddLambdaNode(nodes.NodeCritiqueAssembler,
		nodes.NewCritiqueAssemblerNode(),
	)

	b.graph.AddChatModelNode(nodes.NodeCriticChatModel,
		nodes.NewCriticChatModelNode(b.config.ChatModels.Critic),
		compose.WithStatePostHandler(nodes.NewCriticChatModelPostHandler(b.config.ChatModels.CriticModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeCritiqueParser,
		nodes.NewCritiqueParserNode(),
		compose.WithStatePostHandler(nodes.NewCritiqueParserPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeRevisionAssembler,
		nodes.NewRevisionAssemblerNode(),
	)

	b.graph.AddLambdaNode(nodes.NodeFinalizer,
		nodes.NewFinalizerNode(b.config.MessagesManager),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeInputConverter},
		{nodes.NodeInputConverter, nodes.NodeResponseChatModel},
		{nodes.NodeToolExecutor, nodes.NodeResponseChatModel},
	}

	if b.config.SelfCritique {
		edges = append(edges,
			[2]string{nodes.NodeCritiqueAssembler, nodes.NodeCriticChatModel},
			[2]string{nodes.NodeCriticChatModel, nodes.NodeCritiqueParser},
			[2]string{nodes.NodeRevisionAssembler, nodes.NodeResponseChatModel},
			[2]string{nodes.NodeFinalizer, compose.END},
		)
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	responseTargets := map[string]bool{
		nodes.NodeToolExecutor: true,
		compose.END:            true,
	}
	if b.config.SelfCritique {
		responseTargets = map[string]bool{
			nodes.NodeToolExecutor:      true,
			nodes.NodeCritiqueAssembler: true,
			nodes.NodeFinalizer:         true,
		}
	}

	responseBranch := compose.NewGraphBranch(
		nodes.NewResponseRouteCondition(b.config.SelfCritique),
		responseTargets,
	)
	if err := b.graph.AddBranch(nodes.NodeResponseChatModel, responseBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding response branch")
		return fmt.Errorf("error adding response branch: %w", err)
	}

	if !b.config.SelfCritique {
		return nil
	}

	critiqueBranch := compose.NewGraphBranch(
		nodes.NewCritiqueRouteCondition(b.config.MaxRevisions),
		map[string]bool{
			nodes.NodeRevisionAssembler: true,
			nodes.NodeFinalizer:         true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeCritiqueParser, critiqueBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding critique branch")
		return fmt.Errorf("error adding critique branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Limit total run steps to avoid infinite loops in tool retries or the
	// revise cycle
	maxSteps := 10 + b.config.ToolMaxCalls*2
	if b.config.SelfCritique {
		maxSteps += b.config.MaxRevisions * 4
	}
	if maxSteps < 20 {
		maxSteps = 20
	}

	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}

// clampInt returns v limited to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
