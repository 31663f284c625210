package coach

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
	promptx "github.com/tanpawarit/dekomposit/agent/prompt"
	toolx "github.com/tanpawarit/dekomposit/agent/tool"
)

type fakeClient struct {
	mu         sync.Mutex
	withTools  []*schema.Message
	structured []*schema.Message
	err        error
	panicMsg   string
	prompts    []string
	toolNames  [][]string
}

func (f *fakeClient) RequestWithTools(_ context.Context, messages []*schema.Message, tools []*schema.ToolInfo) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return nil, f.err
	}
	f.prompts = append(f.prompts, messages[0].Content)
	names := make([]string, 0, len(tools))
	for _, info := range tools {
		names = append(names, info.Name)
	}
	f.toolNames = append(f.toolNames, names)

	if len(f.withTools) == 0 {
		return nil, errors.New("no fake response left")
	}
	msg := f.withTools[0]
	f.withTools = f.withTools[1:]
	return msg, nil
}

func (f *fakeClient) Request(context.Context, []*schema.Message, contractx.ResponseFormat) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.structured) == 0 {
		return nil, errors.New("no structured response left")
	}
	msg := f.structured[0]
	f.structured = f.structured[1:]
	return msg, nil
}

func newAgent(t *testing.T, cfg Config, deps Deps) *Agent {
	t.Helper()
	agent, err := New(context.Background(), cfg, deps)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return agent
}

func TestHandleMessageHello(t *testing.T) {
	t.Parallel()

	client := &fakeClient{withTools: []*schema.Message{{Role: schema.Assistant, Content: "Hi there"}}}
	agent := newAgent(t, Config{}, Deps{Client: client})

	result, err := agent.HandleMessage(context.Background(), "hello")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if result.Type != contractx.ResultResponse || result.Message != "Hi there" || len(result.ToolCalls) != 0 {
		t.Fatalf("unexpected result: %#v", result)
	}

	history := agent.Memory().History()
	if len(history) != 2 || history[0].Role != contractx.RoleUser || history[1].Role != contractx.RoleAssistant {
		t.Fatalf("unexpected history: %#v", history)
	}
	if !strings.Contains(agent.SystemPrompt(), "- assistant: Hi there...") {
		t.Fatalf("prompt not rebuilt after reply:\n%s", agent.SystemPrompt())
	}
}

func TestHandleMessageEchoTool(t *testing.T) {
	t.Parallel()

	registry := toolx.NewRegistry()
	registry.Register(toolx.NewFunc("echo_tool", "Echo text back.", map[string]*schema.ParameterInfo{
		"text": {Type: schema.String, Required: true},
	}, func(_ context.Context, args map[string]any) (any, error) {
		return map[string]any{"echo": args["text"]}, nil
	}))

	client := &fakeClient{withTools: []*schema.Message{
		{Role: schema.Assistant, ToolCalls: []schema.ToolCall{{
			ID:       "call_1",
			Function: schema.FunctionCall{Name: "echo_tool", Arguments: `{"text":"ping"}`},
		}}},
		{Role: schema.Assistant, Content: "pong"},
	}}
	agent := newAgent(t, Config{}, Deps{Client: client, Tools: registry})

	result, err := agent.HandleMessage(context.Background(), "say ping")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	want := contractx.ToolCallRecord{
		ToolName:  "echo_tool",
		Arguments: map[string]any{"text": "ping"},
		Result:    map[string]any{"echo": "ping"},
	}
	if len(result.ToolCalls) != 1 || !reflect.DeepEqual(result.ToolCalls[0], want) {
		t.Fatalf("unexpected tool calls: %#v", result.ToolCalls)
	}
	if result.Message != "pong" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestDefaultToolsExposeEnabledOnly(t *testing.T) {
	t.Parallel()

	client := &fakeClient{withTools: []*schema.Message{{Content: "ok"}}}
	agent := newAgent(t, Config{}, Deps{Client: client})

	if _, err := agent.HandleMessage(context.Background(), "hi"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	got := client.toolNames[0]
	want := []string{toolx.ToolDetectLanguage, toolx.ToolMemory, toolx.ToolTranslate}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tools = %#v, want %#v", got, want)
	}
	if !agent.Registry().Has(toolx.ToolReverso) {
		t.Fatal("disabled tool should stay registered")
	}
}

func TestMemoryToolRefreshesPromptWithinTurn(t *testing.T) {
	t.Parallel()

	client := &fakeClient{withTools: []*schema.Message{
		{ToolCalls: []schema.ToolCall{{
			ID:       "m1",
			Function: schema.FunctionCall{Name: "memory", Arguments: `{"action":"add","note":"prefers Slovak examples"}`},
		}}},
		{Content: "Noted!"},
	}}
	agent := newAgent(t, Config{}, Deps{Client: client})

	if _, err := agent.HandleMessage(context.Background(), "remember I like Slovak"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if strings.Contains(client.prompts[0], "prefers Slovak examples") {
		t.Fatal("note should not be in the first prompt")
	}
	if !strings.Contains(client.prompts[1], "- prefers Slovak examples") {
		t.Fatalf("second iteration should see the note:\n%s", client.prompts[1])
	}
}

func TestChatConvertsFailures(t *testing.T) {
	t.Parallel()

	failing := newAgent(t, Config{}, Deps{Client: &fakeClient{err: contractx.ErrModelInvoke}})
	if got := failing.Chat(context.Background(), "hello"); got != "Sorry, I couldn't process that." {
		t.Fatalf("Chat() = %q", got)
	}
	if _, err := failing.HandleMessage(context.Background(), "hello"); err == nil {
		t.Fatal("HandleMessage() should surface client errors")
	}

	panicking := newAgent(t, Config{}, Deps{Client: &fakeClient{panicMsg: "boom"}})
	if got := panicking.Chat(context.Background(), "hello"); got != "Sorry, I couldn't process that." {
		t.Fatalf("Chat() = %q", got)
	}

	empty := newAgent(t, Config{}, Deps{Client: &fakeClient{}})
	if got := empty.Chat(context.Background(), "   "); got != "Sorry, I couldn't process that." {
		t.Fatalf("Chat() = %q", got)
	}
}

func TestBudgetExhaustionRendersMessage(t *testing.T) {
	t.Parallel()

	call := &schema.Message{ToolCalls: []schema.ToolCall{{ID: "c", Function: schema.FunctionCall{Name: "ghost", Arguments: "{}"}}}}
	client := &fakeClient{withTools: []*schema.Message{call, call}}
	agent := newAgent(t, Config{MaxIterations: 2}, Deps{Client: client})

	if got := agent.Chat(context.Background(), "loop"); got != "Maximum iterations reached" {
		t.Fatalf("Chat() = %q", got)
	}
	if n := agent.Memory().HistorySize(); n != 1 {
		t.Fatalf("error results must not be stored, history=%d", n)
	}
}

func TestDecisionModeTranslates(t *testing.T) {
	t.Parallel()

	client := &fakeClient{structured: []*schema.Message{
		{Content: `{"action":"translate","text":"Hello","source_lang":"en","target_lang":"ru"}`},
		{Content: `{"source":"Hello","translated":"Privet"}`},
	}}
	agent := newAgent(t, Config{RoutingMode: RoutingDecision}, Deps{Client: client})

	got := agent.Chat(context.Background(), "translate hello to russian")
	if got != "<translation>[EN → RU] Privet</translation>" {
		t.Fatalf("Chat() = %q", got)
	}
}

func TestDecisionModeRespondUsesToolLoop(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		structured: []*schema.Message{{Content: `{"action":"respond","text":"how do I say thanks?"}`}},
		withTools:  []*schema.Message{{Content: "Say 'dakujem'."}},
	}
	agent := newAgent(t, Config{RoutingMode: RoutingDecision}, Deps{Client: client})

	if got := agent.Chat(context.Background(), "how do I say thanks?"); got != "Say 'dakujem'." {
		t.Fatalf("Chat() = %q", got)
	}
}

func TestStreamSingleChunk(t *testing.T) {
	t.Parallel()

	agent := newAgent(t, Config{}, Deps{Client: &fakeClient{withTools: []*schema.Message{{Content: "Hi"}}}})

	var chunks []string
	for chunk := range agent.Stream(context.Background(), "hello") {
		chunks = append(chunks, chunk)
	}
	if len(chunks) != 1 || chunks[0] != "Hi" {
		t.Fatalf("unexpected chunks: %#v", chunks)
	}
}

func TestSetPersonalityChangesPrompt(t *testing.T) {
	t.Parallel()

	agent := newAgent(t, Config{}, Deps{Client: &fakeClient{}})
	agent.SetPersonality(promptx.FragmentPersona, "Always answer in rhymes.")
	if !strings.Contains(agent.SystemPrompt(), "Always answer in rhymes.") {
		t.Fatalf("override missing from prompt:\n%s", agent.SystemPrompt())
	}
}
