package coachnode

import (
	"context"

	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

type Looper interface {
	Run(ctx context.Context, text, systemPrompt string) (contractx.Result, error)
}

func RunToolLoop(ctx context.Context, in *GraphState, loop Looper, systemPrompt string) (*GraphState, error) {
	if err := requireState(in); err != nil {
		return nil, err
	}

	text := in.Decision.Text
	if text == "" {
		text = in.Text
	}

	result, err := loop.Run(ctx, text, systemPrompt)
	if err != nil {
		return nil, err
	}
	in.Result = result
	return in, nil
}
