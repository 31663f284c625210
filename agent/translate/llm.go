package translate

import (
	"context"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
	languagex "github.com/tanpawarit/dekomposit/agent/language"
	llmx "github.com/tanpawarit/dekomposit/agent/llm"
)

var _ contractx.Translator = (*LLMTranslator)(nil)

var translationFormat = contractx.ResponseFormat{
	Name:        "translation",
	Description: "Source text and its translation.",
	Params: map[string]*schema.ParameterInfo{
		"source":     {Type: schema.String, Desc: "Original text", Required: true},
		"translated": {Type: schema.String, Desc: "Translated text", Required: true},
	},
}

// LLMTranslator asks the model for a structured translation.
type LLMTranslator struct {
	client   contractx.Client
	template einoprompt.ChatTemplate
	logger   zerolog.Logger
}

func NewLLMTranslator(client contractx.Client, systemPrompt string, logger *zerolog.Logger) (*LLMTranslator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client is nil", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: translation prompt", contractx.ErrPromptMissing)
	}

	t := &LLMTranslator{
		client: client,
		template: einoprompt.FromMessages(
			schema.FString,
			schema.SystemMessage(systemPrompt),
			schema.UserMessage("{text}"),
		),
		logger: log.Logger,
	}
	if logger != nil {
		t.logger = *logger
	}
	return t, nil
}

func (t *LLMTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (*contractx.Translation, error) {
	source := languagex.Normalize(sourceLang)
	target := languagex.Normalize(targetLang)
	if target == "" {
		return nil, fmt.Errorf("%w: unsupported target language %q", contractx.ErrValidation, targetLang)
	}

	sourceName := "the detected language"
	if source != "" {
		sourceName = languagex.Name(source)
	}

	messages, err := t.template.Format(ctx, map[string]any{
		"source_lang": sourceName,
		"target_lang": languagex.Name(target),
		"text":        text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: translation template: %v", contractx.ErrPromptMissing, err)
	}

	out, err := llmx.RequestAs[contractx.Translation](ctx, t.client, messages, translationFormat)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Translated) == "" {
		return nil, fmt.Errorf("%w: empty translation", contractx.ErrSchemaViolation)
	}
	if out.Source == "" {
		out.Source = text
	}
	out.FromLang = source
	out.ToLang = target

	t.logger.Debug().Str("from", source).Str("to", target).Msg("translated with llm")
	return &out, nil
}
