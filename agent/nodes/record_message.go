package coachnode

import (
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

// Recorder is the Memory surface the turn nodes write to.
type Recorder interface {
	AddMessage(role contractx.Role, content string)
	ObserveUserText(text string)
}

func RecordUserMessage(in *GraphState, recorder Recorder) (*GraphState, error) {
	if err := requireState(in); err != nil {
		return nil, err
	}
	recorder.AddMessage(contractx.RoleUser, in.Text)
	recorder.ObserveUserText(in.Text)
	return in, nil
}

// FinalizeReply stores a non-empty response in history and refreshes the prompt.
func FinalizeReply(in *GraphState, recorder Recorder, rebuild func()) (GraphOutput, error) {
	if err := requireState(in); err != nil {
		return GraphOutput{}, err
	}

	result := in.Result
	if result.ToolCalls == nil {
		result.ToolCalls = []contractx.ToolCallRecord{}
	}

	if result.Type == contractx.ResultResponse && result.Message != "" {
		recorder.AddMessage(contractx.RoleAssistant, result.Message)
		if rebuild != nil {
			rebuild()
		}
	}
	return GraphOutput{Result: result}, nil
}
