package toolloop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
	toolx "github.com/tanpawarit/dekomposit/agent/tool"
)

const (
	DefaultMaxIterations = 5

	toolCallPlaceholder = "[TOOL CALL]"
	budgetExhausted     = "Maximum iterations reached"
)

// Runner drives the model until it answers without tool calls or the
// iteration budget runs out.
type Runner struct {
	client        contractx.Client
	registry      *toolx.Registry
	executor      *toolx.Executor
	maxIterations int
	refresh       func() string
	logger        zerolog.Logger
}

type Option func(*Runner)

func WithMaxIterations(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxIterations = n
		}
	}
}

// WithPromptRefresh recomputes the system prompt before every model call.
func WithPromptRefresh(fn func() string) Option {
	return func(r *Runner) {
		r.refresh = fn
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func New(client contractx.Client, registry *toolx.Registry, opts ...Option) (*Runner, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client is nil", contractx.ErrValidation)
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: tool registry is nil", contractx.ErrValidation)
	}

	r := &Runner{
		client:        client,
		registry:      registry,
		maxIterations: DefaultMaxIterations,
		logger:        log.Logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.executor = toolx.NewExecutor(registry, &r.logger)
	return r, nil
}

// Run returns an error only when the client fails or ctx is done.
func (r *Runner) Run(ctx context.Context, text, systemPrompt string) (contractx.Result, error) {
	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(text),
	}
	history := make([]contractx.ToolCallRecord, 0)

	for iteration := 1; iteration <= r.maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return contractx.Result{}, err
		}
		if r.refresh != nil {
			messages[0] = schema.SystemMessage(r.refresh())
		}

		r.logger.Debug().Int("iteration", iteration).Int("max_iterations", r.maxIterations).Msg("tool loop iteration")

		var tools []*schema.ToolInfo
		if infos := r.registry.ToolInfos(); len(infos) > 0 {
			tools = infos
		}

		reply, err := r.client.RequestWithTools(ctx, messages, tools)
		if err != nil {
			return contractx.Result{}, err
		}
		if reply == nil {
			return contractx.Result{}, fmt.Errorf("%w: client returned no message", contractx.ErrSchemaViolation)
		}

		if len(reply.ToolCalls) == 0 {
			return contractx.Result{
				Type:      contractx.ResultResponse,
				Message:   reply.Content,
				ToolCalls: history,
			}, nil
		}

		r.logger.Info().Int("tool_calls", len(reply.ToolCalls)).Msg("llm requested tool calls")
		messages = append(messages, echoMessage(reply))

		for _, call := range reply.ToolCalls {
			record := r.executor.Execute(ctx, call)
			history = append(history, record)
			messages = append(messages, resultMessage(call, record))
		}
	}

	r.logger.Warn().Int("max_iterations", r.maxIterations).Msg("max iterations reached in tool loop")
	return contractx.Result{
		Type:      contractx.ResultError,
		Message:   budgetExhausted,
		ToolCalls: history,
	}, nil
}

func echoMessage(reply *schema.Message) *schema.Message {
	content := reply.Content
	if content == "" {
		content = toolCallPlaceholder
	}

	calls := make([]schema.ToolCall, 0, len(reply.ToolCalls))
	for _, call := range reply.ToolCalls {
		calls = append(calls, schema.ToolCall{
			ID:   callID(call),
			Type: "function",
			Function: schema.FunctionCall{
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			},
		})
	}
	return &schema.Message{Role: schema.Assistant, Content: content, ToolCalls: calls}
}

func resultMessage(call schema.ToolCall, record contractx.ToolCallRecord) *schema.Message {
	return &schema.Message{
		Role:       schema.Tool,
		Content:    encodeResult(record.Result),
		ToolCallID: callID(call),
		ToolName:   record.ToolName,
	}
}

func callID(call schema.ToolCall) string {
	if call.ID != "" {
		return call.ID
	}
	return call.Function.Name
}

func encodeResult(result map[string]any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
