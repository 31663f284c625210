package coachnode

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

type fakeRecorder struct {
	messages []contractx.Message
	observed []string
}

func (f *fakeRecorder) AddMessage(role contractx.Role, content string) {
	f.messages = append(f.messages, contractx.Message{Role: role, Content: content})
}

func (f *fakeRecorder) ObserveUserText(text string) { f.observed = append(f.observed, text) }

type fixedDecider contractx.Decision

func (d fixedDecider) Decide(context.Context, string) contractx.Decision {
	return contractx.Decision(d)
}

type fakeRouter struct {
	translation *contractx.Translation
	err         error
}

func (f fakeRouter) Translate(context.Context, contractx.Decision) (*contractx.Translation, error) {
	return f.translation, f.err
}

type fakeLooper struct{ gotText string }

func (f *fakeLooper) Run(_ context.Context, text, _ string) (contractx.Result, error) {
	f.gotText = text
	return contractx.Result{Type: contractx.ResultResponse, Message: "done"}, nil
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	if _, err := ValidateRequest(GraphInput{Text: " \n "}); !errors.Is(err, contractx.ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
	state, err := ValidateRequest(GraphInput{Text: "  hi "})
	if err != nil || state.Text != "hi" {
		t.Fatalf("ValidateRequest() = %#v, %v", state, err)
	}
}

func TestResolveActionAndSelectPath(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	state, _ := ResolveAction(ctx, &GraphState{Text: "hi"}, nil)
	if path, _ := SelectPath(ctx, state); path != PathTool || state.Decision.Action != contractx.ActionRespond {
		t.Fatalf("nil decider should pick the tool path: %#v", state)
	}

	state, _ = ResolveAction(ctx, &GraphState{Text: "hi"}, fixedDecider{Action: contractx.ActionTranslate, Text: "hi"})
	if path, _ := SelectPath(ctx, state); path != PathTranslate {
		t.Fatalf("expected translate path, got %q", path)
	}

	if _, err := SelectPath(ctx, nil); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRunToolLoopPrefersDecisionText(t *testing.T) {
	t.Parallel()

	loop := &fakeLooper{}
	state := &GraphState{Text: "original", Decision: contractx.Decision{Text: "rewritten"}}
	if _, err := RunToolLoop(context.Background(), state, loop, "sys"); err != nil {
		t.Fatalf("RunToolLoop() error = %v", err)
	}
	if loop.gotText != "rewritten" || state.Result.Message != "done" {
		t.Fatalf("unexpected loop input %q / result %#v", loop.gotText, state.Result)
	}
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	state, err := Translate(ctx, &GraphState{}, fakeRouter{}, "")
	if err != nil || state.Result.Type != contractx.ResultError || state.Result.Message != "" {
		t.Fatalf("abandoned translation: %#v, %v", state, err)
	}

	state, err = Translate(ctx, &GraphState{}, fakeRouter{translation: &contractx.Translation{
		Translated: "Privet", FromLang: "en", ToLang: "ru",
	}}, "translation_plain")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	spec := state.Result.Format
	if spec == nil || spec.Preset != "translation_plain" || spec.Values["source"] != "EN" || spec.Values["target"] != "RU" {
		t.Fatalf("unexpected format spec: %#v", spec)
	}

	if _, err := Translate(ctx, &GraphState{}, fakeRouter{err: contractx.ErrModelInvoke}, ""); !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestRecordAndFinalize(t *testing.T) {
	t.Parallel()

	recorder := &fakeRecorder{}
	if _, err := RecordUserMessage(&GraphState{Text: "hola"}, recorder); err != nil {
		t.Fatalf("RecordUserMessage() error = %v", err)
	}

	rebuilt := 0
	out, err := FinalizeReply(&GraphState{Result: contractx.Result{Type: contractx.ResultResponse, Message: "hi"}}, recorder, func() { rebuilt++ })
	if err != nil {
		t.Fatalf("FinalizeReply() error = %v", err)
	}
	if out.Result.ToolCalls == nil || rebuilt != 1 || len(recorder.messages) != 2 || len(recorder.observed) != 1 {
		t.Fatalf("unexpected finalize state: %#v rebuilt=%d recorder=%#v", out, rebuilt, recorder)
	}

	if _, err := FinalizeReply(&GraphState{Result: contractx.Result{Type: contractx.ResultError, Message: "x"}}, recorder, func() { rebuilt++ }); err != nil {
		t.Fatalf("FinalizeReply() error = %v", err)
	}
	if rebuilt != 1 || len(recorder.messages) != 2 {
		t.Fatal("error results must not be recorded")
	}
}
