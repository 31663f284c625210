package coach

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/dekomposit/agent/nodes"
)

func (a *Agent) compileHandleMessageGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("record_user_message",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RecordUserMessage(in, a.memory)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_user_message: %w", err)
	}

	if err := graph.AddLambdaNode("resolve_action",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			if a.router == nil {
				return nodex.ResolveAction(ctx, in, nil)
			}
			return nodex.ResolveAction(ctx, in, a.router)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_action: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.PathTool,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RunToolLoop(ctx, in, a.runner, a.SystemPrompt())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.PathTool, err)
	}

	if err := graph.AddLambdaNode(nodex.PathTranslate,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Translate(ctx, in, a.router, a.cfg.FormatPreset)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.PathTranslate, err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in, a.memory, a.rebuildPrompt)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	branch := compose.NewGraphBranch(nodex.SelectPath, map[string]bool{
		nodex.PathTool:      true,
		nodex.PathTranslate: true,
	})
	if err := graph.AddBranch("resolve_action", branch); err != nil {
		return nil, fmt.Errorf("add branch resolve_action: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "record_user_message"},
		{"record_user_message", "resolve_action"},
		{nodex.PathTool, "finalize_reply"},
		{nodex.PathTranslate, "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("coach.handle_message"))
	if err != nil {
		return nil, fmt.Errorf("compile coach graph: %w", err)
	}
	return runner, nil
}
