package observers

import (
	"context"
	"fmt"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/tool"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// newToolHandler builds a typed ToolCallbackHandler to log tool invocations and observations.
func newToolHandler() *callbackHelper.ToolCallbackHandler {
	return &callbackHelper.ToolCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *tool.CallbackInput) context.Context {
			fmt.Printf("[Tool|%s|%s] start\n", info.Type, info.Name)
			if input != nil {
				args := strings.TrimSpace(input.ArgumentsInJSON)
				if args != "" {
					fmt.Printf("args: %s\n", args)
				}
			}
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *tool.CallbackOutput) context.Context {
			fmt.Printf("[Tool|%s|%s] end\n", info.Type, info.Name)
			if output != nil {
				result := strings.TrimSpace(output.Response)
				if result != "" {
					fmt.Printf("observation: %s\n", result)
				}
			}
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			fmt.Printf("[Tool|%s|%s] error: %v\n", info.Type, info.Name, err)
			return ctx
		},
	}
}
