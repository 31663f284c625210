package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
	openrouterx "github.com/tanpawarit/dekomposit/pkg/openrouter"
)

var _ contractx.Client = (*OpenAIClient)(nil)

// OpenAIClient talks to chat completions directly and uses native
// json_schema response formats for structured requests.
type OpenAIClient struct {
	client      *openaisdk.Client
	model       string
	temperature float32
	maxTokens   int
	logger      zerolog.Logger
}

func NewOpenAIClient(cfg openrouterx.Config, logger *zerolog.Logger) (*OpenAIClient, error) {
	client := openrouterx.NewClient(cfg)
	if client == nil {
		return nil, fmt.Errorf("%w: openai api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("%w: openai model is required", contractx.ErrValidation)
	}

	c := &OpenAIClient{
		client:      client,
		model:       strings.TrimSpace(cfg.Model),
		temperature: cfg.Temperature,
		logger:      log.Logger,
	}
	if cfg.MaxCompletionToken != nil {
		c.maxTokens = *cfg.MaxCompletionToken
	}
	if logger != nil {
		c.logger = *logger
	}
	return c, nil
}

func (c *OpenAIClient) RequestWithTools(
	ctx context.Context,
	messages []*schema.Message,
	tools []*schema.ToolInfo,
) (*schema.Message, error) {
	params := c.baseParams(messages)
	for _, info := range tools {
		if info == nil {
			continue
		}
		params.Tools = append(params.Tools, toOpenAITool(info))
	}
	return c.complete(ctx, params)
}

func (c *OpenAIClient) Request(
	ctx context.Context,
	messages []*schema.Message,
	format contractx.ResponseFormat,
) (*schema.Message, error) {
	params := c.baseParams(messages)

	jsonSchema := shared.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   format.Name,
		Schema: ParamsSchema(format.Params),
	}
	if format.Description != "" {
		jsonSchema.Description = openaisdk.String(format.Description)
	}
	params.ResponseFormat = openaisdk.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{JSONSchema: jsonSchema},
	}
	return c.complete(ctx, params)
}

func (c *OpenAIClient) baseParams(messages []*schema.Message) openaisdk.ChatCompletionNewParams {
	params := openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(c.model),
		Messages:    toOpenAIMessages(messages),
		Temperature: openaisdk.Float(float64(c.temperature)),
	}
	if c.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(c.maxTokens))
	}
	return params
}

func (c *OpenAIClient) complete(ctx context.Context, params openaisdk.ChatCompletionNewParams) (*schema.Message, error) {
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: completion has no choices", contractx.ErrSchemaViolation)
	}

	choice := resp.Choices[0]
	out := &schema.Message{
		Role:    schema.Assistant,
		Content: choice.Message.Content,
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: string(choice.FinishReason),
			Usage: &schema.TokenUsage{
				PromptTokens:     int(resp.Usage.PromptTokens),
				CompletionTokens: int(resp.Usage.CompletionTokens),
				TotalTokens:      int(resp.Usage.TotalTokens),
			},
		},
	}
	for _, call := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, schema.ToolCall{
			ID:   call.ID,
			Type: "function",
			Function: schema.FunctionCall{
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			},
		})
	}

	c.logger.Debug().
		Str("completion_id", resp.ID).
		Int64("total_tokens", resp.Usage.TotalTokens).
		Int("tool_calls", len(out.ToolCalls)).
		Msg("openai completion")
	return out, nil
}

func toOpenAITool(info *schema.ToolInfo) openaisdk.ChatCompletionToolParam {
	fn := shared.FunctionDefinitionParam{
		Name:       info.Name,
		Parameters: shared.FunctionParameters(ToolSchema(info)),
	}
	if info.Desc != "" {
		fn.Description = openaisdk.String(info.Desc)
	}
	return openaisdk.ChatCompletionToolParam{Function: fn}
}

func toOpenAIMessages(messages []*schema.Message) []openaisdk.ChatCompletionMessageParamUnion {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			out = append(out, openaisdk.SystemMessage(msg.Content))
		case schema.User:
			out = append(out, openaisdk.UserMessage(msg.Content))
		case schema.Tool:
			out = append(out, openaisdk.ToolMessage(msg.Content, msg.ToolCallID))
		case schema.Assistant:
			if len(msg.ToolCalls) == 0 {
				out = append(out, openaisdk.AssistantMessage(msg.Content))
				continue
			}
			assistant := openaisdk.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				assistant.Content.OfString = openaisdk.String(msg.Content)
			}
			for _, call := range msg.ToolCalls {
				assistant.ToolCalls = append(assistant.ToolCalls, openaisdk.ChatCompletionMessageToolCallParam{
					ID: call.ID,
					Function: openaisdk.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Function.Name,
						Arguments: call.Function.Arguments,
					},
				})
			}
			out = append(out, openaisdk.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		}
	}
	return out
}
