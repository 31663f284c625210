package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

// Parse decodes the JSON object carried in the message content.
func Parse[T any](ctx context.Context, msg *schema.Message) (T, error) {
	var zero T
	if msg == nil {
		return zero, fmt.Errorf("%w: empty model message", contractx.ErrSchemaViolation)
	}

	cleaned := *msg
	cleaned.Content = stripCodeFence(msg.Content)
	if cleaned.Content == "" {
		return zero, fmt.Errorf("%w: empty model content", contractx.ErrSchemaViolation)
	}

	parser := schema.NewMessageJSONParser[T](&schema.MessageJSONParseConfig{
		ParseFrom: schema.MessageParseFromContent,
	})
	out, err := parser.Parse(ctx, &cleaned)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", contractx.ErrSchemaViolation, err)
	}
	return out, nil
}

// RequestAs performs a structured request and parses the reply into T.
func RequestAs[T any](
	ctx context.Context,
	client contractx.Client,
	messages []*schema.Message,
	format contractx.ResponseFormat,
) (T, error) {
	var zero T
	msg, err := client.Request(ctx, messages, format)
	if err != nil {
		return zero, err
	}
	return Parse[T](ctx, msg)
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
