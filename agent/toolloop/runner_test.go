package toolloop

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
	toolx "github.com/tanpawarit/dekomposit/agent/tool"
)

type fakeClient struct {
	responses []*schema.Message
	err       error
	idx       int
	calls     [][]*schema.Message
	tools     [][]*schema.ToolInfo
}

func (f *fakeClient) RequestWithTools(ctx context.Context, messages []*schema.Message, tools []*schema.ToolInfo) (*schema.Message, error) {
	snapshot := append([]*schema.Message(nil), messages...)
	f.calls = append(f.calls, snapshot)
	f.tools = append(f.tools, tools)
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeClient) Request(ctx context.Context, messages []*schema.Message, format contractx.ResponseFormat) (*schema.Message, error) {
	return nil, errors.New("structured request not expected")
}

func toolCallMessage(content string, calls ...schema.ToolCall) *schema.Message {
	return &schema.Message{Role: schema.Assistant, Content: content, ToolCalls: calls}
}

func toolCall(id, name, args string) schema.ToolCall {
	return schema.ToolCall{ID: id, Function: schema.FunctionCall{Name: name, Arguments: args}}
}

func echoRegistry() *toolx.Registry {
	r := toolx.NewRegistry()
	r.Register(toolx.NewFunc("echo_tool", "Echo text.", map[string]*schema.ParameterInfo{
		"text": {Type: schema.String, Required: true},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		return map[string]any{"echo": args["text"]}, nil
	}))
	return r
}

func TestRunDirectResponse(t *testing.T) {
	t.Parallel()

	client := &fakeClient{responses: []*schema.Message{{Role: schema.Assistant, Content: "Hi there"}}}
	runner, err := New(client, echoRegistry())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := runner.Run(context.Background(), "hello", "system")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Type != contractx.ResultResponse || out.Message != "Hi there" {
		t.Fatalf("unexpected result: %#v", out)
	}
	if out.ToolCalls == nil || len(out.ToolCalls) != 0 {
		t.Fatalf("expected empty non-nil tool calls, got %#v", out.ToolCalls)
	}
	if len(client.calls) != 1 {
		t.Fatalf("expected one model call, got %d", len(client.calls))
	}
	seed := client.calls[0]
	if len(seed) != 2 || seed[0].Role != schema.System || seed[1].Role != schema.User || seed[1].Content != "hello" {
		t.Fatalf("unexpected seed messages: %#v", seed)
	}
}

func TestRunEchoesCallsAndResultsInOrder(t *testing.T) {
	t.Parallel()

	client := &fakeClient{responses: []*schema.Message{
		toolCallMessage("",
			toolCall("call_a", "echo_tool", `{"text":"one"}`),
			toolCall("", "echo_tool", `{"text":"two"}`),
		),
		{Role: schema.Assistant, Content: "done"},
	}}
	runner, _ := New(client, echoRegistry())

	out, err := runner.Run(context.Background(), "go", "system")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Message != "done" || len(out.ToolCalls) != 2 {
		t.Fatalf("unexpected result: %#v", out)
	}
	if out.ToolCalls[0].Result["echo"] != "one" || out.ToolCalls[1].Result["echo"] != "two" {
		t.Fatalf("unexpected records: %#v", out.ToolCalls)
	}

	second := client.calls[1]
	if len(second) != 5 {
		t.Fatalf("expected system, user, echo and two results, got %d messages", len(second))
	}
	echo := second[2]
	if echo.Role != schema.Assistant || echo.Content != "[TOOL CALL]" || len(echo.ToolCalls) != 2 {
		t.Fatalf("unexpected echo message: %#v", echo)
	}
	if echo.ToolCalls[1].ID != "echo_tool" || echo.ToolCalls[1].Type != "function" {
		t.Fatalf("expected name as id fallback, got %#v", echo.ToolCalls[1])
	}
	if second[3].Role != schema.Tool || second[3].ToolCallID != "call_a" || second[3].Content != `{"echo":"one"}` {
		t.Fatalf("unexpected first result message: %#v", second[3])
	}
	if second[4].ToolCallID != "echo_tool" || second[4].ToolName != "echo_tool" {
		t.Fatalf("unexpected second result message: %#v", second[4])
	}
}

func TestRunToolNotFoundContinues(t *testing.T) {
	t.Parallel()

	client := &fakeClient{responses: []*schema.Message{
		toolCallMessage("checking", toolCall("c1", "ghost", `{}`)),
		{Role: schema.Assistant, Content: "sorry"},
	}}
	runner, _ := New(client, echoRegistry())

	out, err := runner.Run(context.Background(), "x", "system")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Type != contractx.ResultResponse || out.Message != "sorry" {
		t.Fatalf("unexpected result: %#v", out)
	}
	if out.ToolCalls[0].Result["error"] != "Tool not found: ghost" {
		t.Fatalf("unexpected record: %#v", out.ToolCalls[0])
	}
	if client.calls[1][2].Content != "checking" {
		t.Fatalf("expected model content kept on echo, got %q", client.calls[1][2].Content)
	}
}

func TestRunBudgetExhausted(t *testing.T) {
	t.Parallel()

	const k = 3
	responses := make([]*schema.Message, 0, k)
	for i := 0; i < k; i++ {
		responses = append(responses, toolCallMessage("", toolCall("c", "echo_tool", `{"text":"again"}`)))
	}
	client := &fakeClient{responses: responses}
	runner, _ := New(client, echoRegistry(), WithMaxIterations(k))

	out, err := runner.Run(context.Background(), "loop", "system")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Type != contractx.ResultError || out.Message != "Maximum iterations reached" {
		t.Fatalf("unexpected result: %#v", out)
	}
	if len(out.ToolCalls) != k {
		t.Fatalf("expected %d records, got %d", k, len(out.ToolCalls))
	}
}

func TestRunNoToolsWhenNoneEnabled(t *testing.T) {
	t.Parallel()

	client := &fakeClient{responses: []*schema.Message{{Content: "ok"}}}
	runner, _ := New(client, toolx.NewRegistry())

	if _, err := runner.Run(context.Background(), "x", "s"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if client.tools[0] != nil {
		t.Fatalf("expected nil tools, got %#v", client.tools[0])
	}
}

func TestRunPromptRefreshSeesMemoryChanges(t *testing.T) {
	t.Parallel()

	prompt := "before"
	client := &fakeClient{responses: []*schema.Message{
		toolCallMessage("", toolCall("c", "echo_tool", `{"text":"x"}`)),
		{Content: "ok"},
	}}
	r := echoRegistry()
	r.Register(toolx.NewFunc("remember", "", nil, func(context.Context, map[string]any) (any, error) {
		prompt = "after"
		return map[string]any{"status": "success"}, nil
	}))
	client.responses[0] = toolCallMessage("", toolCall("c", "remember", `{}`))

	runner, _ := New(client, r, WithPromptRefresh(func() string { return prompt }))
	if _, err := runner.Run(context.Background(), "x", "ignored"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if client.calls[0][0].Content != "before" || client.calls[1][0].Content != "after" {
		t.Fatalf("unexpected system prompts: %q, %q", client.calls[0][0].Content, client.calls[1][0].Content)
	}
}

func TestRunPropagatesClientError(t *testing.T) {
	t.Parallel()

	runner, _ := New(&fakeClient{err: contractx.ErrModelInvoke}, echoRegistry())
	_, err := runner.Run(context.Background(), "x", "s")
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeClient{responses: []*schema.Message{{Content: "never"}}}
	runner, _ := New(client, echoRegistry())
	_, err := runner.Run(ctx, "x", "s")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Fatal("model should not be called after cancellation")
	}
}
