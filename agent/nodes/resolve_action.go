package coachnode

import (
	"context"

	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

type Decider interface {
	Decide(ctx context.Context, text string) contractx.Decision
}

// ResolveAction picks the path for this turn. A nil decider sends every
// message through the tool loop.
func ResolveAction(ctx context.Context, in *GraphState, decider Decider) (*GraphState, error) {
	if err := requireState(in); err != nil {
		return nil, err
	}

	if decider == nil {
		in.Decision = contractx.Decision{Action: contractx.ActionRespond, Text: in.Text}
		in.Path = PathTool
		return in, nil
	}

	in.Decision = decider.Decide(ctx, in.Text)
	if in.Decision.Action == contractx.ActionTranslate {
		in.Path = PathTranslate
	} else {
		in.Path = PathTool
	}
	return in, nil
}

func SelectPath(_ context.Context, in *GraphState) (string, error) {
	if err := requireState(in); err != nil {
		return "", err
	}
	if in.Path == PathTranslate {
		return PathTranslate, nil
	}
	return PathTool, nil
}
