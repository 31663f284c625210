package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	llmx "github.com/tanpawarit/dekomposit/agent/llm"
)

// Tool is a named capability the model may call.
//
// Invoke may return any value; the executor normalises non-map results.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]*schema.ParameterInfo
	Enabled() bool
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// Base carries the descriptive fields shared by built-in tools.
type Base struct {
	ToolName string
	ToolDesc string
	Params   map[string]*schema.ParameterInfo
	Disabled bool
}

func (b Base) Name() string        { return b.ToolName }
func (b Base) Description() string { return b.ToolDesc }
func (b Base) Enabled() bool       { return !b.Disabled }

func (b Base) Parameters() map[string]*schema.ParameterInfo {
	if b.Params == nil {
		return map[string]*schema.ParameterInfo{}
	}
	return b.Params
}

// Func adapts a plain function into a Tool.
type Func struct {
	Base
	Fn func(ctx context.Context, args map[string]any) (any, error)
}

func NewFunc(
	name, desc string,
	params map[string]*schema.ParameterInfo,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *Func {
	return &Func{Base: Base{ToolName: name, ToolDesc: desc, Params: params}, Fn: fn}
}

func (f *Func) Invoke(ctx context.Context, args map[string]any) (any, error) {
	if f.Fn == nil {
		return nil, fmt.Errorf("tool %s has no implementation", f.ToolName)
	}
	return f.Fn(ctx, args)
}

// Info builds the model-facing description of a tool.
func Info(t Tool) *schema.ToolInfo {
	params := t.Parameters()
	return &schema.ToolInfo{
		Name:        t.Name(),
		Desc:        t.Description(),
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
		Extra:       map[string]any{llmx.ToolSchemaKey: llmx.ParamsSchema(params)},
	}
}

func stringArg(args map[string]any, key string) string {
	raw, ok := args[key]
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(raw))
}
