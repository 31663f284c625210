package llm

import (
	"context"
	"encoding/json"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

var _ contractx.Client = (*ChatClient)(nil)

// ChatClient adapts an eino tool-calling chat model to contract.Client.
type ChatClient struct {
	model  einomodel.ToolCallingChatModel
	logger zerolog.Logger
}

type ChatClientOption func(*ChatClient)

func WithClientLogger(logger zerolog.Logger) ChatClientOption {
	return func(c *ChatClient) {
		c.logger = logger
	}
}

func NewChatClient(model einomodel.ToolCallingChatModel, opts ...ChatClientOption) (*ChatClient, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: chat model is nil", contractx.ErrValidation)
	}
	c := &ChatClient{model: model, logger: log.Logger}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *ChatClient) RequestWithTools(
	ctx context.Context,
	messages []*schema.Message,
	tools []*schema.ToolInfo,
) (*schema.Message, error) {
	var chat einomodel.BaseChatModel = c.model
	if len(tools) > 0 {
		bound, err := c.model.WithTools(tools)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
		}
		chat = bound
	}
	return c.generate(ctx, chat, messages)
}

func (c *ChatClient) Request(
	ctx context.Context,
	messages []*schema.Message,
	format contractx.ResponseFormat,
) (*schema.Message, error) {
	instruction, err := formatInstruction(format)
	if err != nil {
		return nil, err
	}

	withFormat := make([]*schema.Message, 0, len(messages)+1)
	withFormat = append(withFormat, messages...)
	withFormat = append(withFormat, schema.SystemMessage(instruction))
	return c.generate(ctx, c.model, withFormat)
}

func (c *ChatClient) generate(
	ctx context.Context,
	chat einomodel.BaseChatModel,
	messages []*schema.Message,
) (*schema.Message, error) {
	msg, err := chat.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: model returned no message", contractx.ErrSchemaViolation)
	}

	if meta := msg.ResponseMeta; meta != nil && meta.Usage != nil {
		c.logger.Debug().
			Int("prompt_tokens", meta.Usage.PromptTokens).
			Int("completion_tokens", meta.Usage.CompletionTokens).
			Str("finish_reason", meta.FinishReason).
			Int("tool_calls", len(msg.ToolCalls)).
			Msg("llm response")
	}
	return msg, nil
}

func formatInstruction(format contractx.ResponseFormat) (string, error) {
	raw, err := json.Marshal(ParamsSchema(format.Params))
	if err != nil {
		return "", fmt.Errorf("%w: encode response schema: %v", contractx.ErrValidation, err)
	}

	instruction := fmt.Sprintf(
		"Respond with a single JSON object named %q matching this JSON schema, with no extra text:\n%s",
		format.Name, raw,
	)
	if format.Description != "" {
		instruction += "\n" + format.Description
	}
	return instruction, nil
}
