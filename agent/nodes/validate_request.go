package coachnode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

// Path names double as graph node keys.
const (
	PathTool      = "tool_path"
	PathTranslate = "translate_path"
)

type GraphInput struct {
	Text string
}

type GraphOutput struct {
	Result contractx.Result
}

type GraphState struct {
	Text     string
	Decision contractx.Decision
	Path     string
	Result   contractx.Result
}

func ValidateRequest(in GraphInput) (*GraphState, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, contractx.ErrInvalidMessage
	}
	return &GraphState{Text: text}, nil
}

func requireState(in *GraphState) error {
	if in == nil {
		return fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	return nil
}
