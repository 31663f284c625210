package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

// Executor runs model-issued tool calls against a registry. Failures are
// returned inside the record, never as Go errors.
type Executor struct {
	registry *Registry
	logger   zerolog.Logger
}

func NewExecutor(registry *Registry, logger *zerolog.Logger) *Executor {
	e := &Executor{registry: registry, logger: log.Logger}
	if logger != nil {
		e.logger = *logger
	}
	return e
}

func (e *Executor) Execute(ctx context.Context, call schema.ToolCall) contractx.ToolCallRecord {
	name := call.Function.Name
	args := ParseArguments(call.Function.Arguments)

	record := contractx.ToolCallRecord{ToolName: name, Arguments: args}

	t, ok := e.registry.Get(name)
	if !ok {
		e.logger.Warn().Str("tool", name).Msg("tool not found")
		record.Result = map[string]any{"error": "Tool not found: " + name}
		return record
	}

	raw, err := invoke(ctx, t, args)
	if err != nil {
		e.logger.Error().Err(err).Str("tool", name).Msg("tool execution failed")
		record.Result = map[string]any{
			"error":   "Tool execution failed",
			"details": err.Error(),
		}
		return record
	}

	record.Result = normalizeResult(raw)
	return record
}

func invoke(ctx context.Context, t Tool, args map[string]any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return t.Invoke(ctx, args)
}

// ParseArguments decodes a JSON object; anything else yields an empty map.
func ParseArguments(raw string) map[string]any {
	args := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return args
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || parsed == nil {
		return args
	}
	return parsed
}

func normalizeResult(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		if v == nil {
			return map[string]any{"result": nil}
		}
		return v
	case map[string]string:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = val
		}
		return out
	default:
		return map[string]any{"result": raw}
	}
}
