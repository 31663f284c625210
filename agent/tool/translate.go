package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

const (
	ToolTranslate           = "translate"
	ToolAdaptiveTranslation = "adaptive_translation"
)

type TranslationTool struct {
	Base
	translator contractx.Translator
}

func NewTranslationTool(translator contractx.Translator) (*TranslationTool, error) {
	if translator == nil {
		return nil, fmt.Errorf("%w: translator is nil", contractx.ErrValidation)
	}
	return &TranslationTool{
		Base: Base{
			ToolName: ToolTranslate,
			ToolDesc: "Translate text between en, ru, uk and sk. Use when the user wants a translation.",
			Params:   translationParams(),
		},
		translator: translator,
	}, nil
}

// NewAdaptiveTranslationTool wraps a Cloud Translation Adaptive MT client.
func NewAdaptiveTranslationTool(translator contractx.Translator) (*TranslationTool, error) {
	if translator == nil {
		return nil, fmt.Errorf("%w: adaptive translation is not configured", contractx.ErrTranslationUnavailable)
	}
	return &TranslationTool{
		Base: Base{
			ToolName: ToolAdaptiveTranslation,
			ToolDesc: "Translate text using Cloud Translation Adaptive MT datasets",
			Params:   translationParams(),
		},
		translator: translator,
	}, nil
}

func translationParams() map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"text":        {Type: schema.String, Desc: "Text to translate", Required: true},
		"source_lang": {Type: schema.String, Desc: "Source language code", Enum: []string{"en", "ru", "uk", "sk"}},
		"target_lang": {Type: schema.String, Desc: "Target language code", Enum: []string{"en", "ru", "uk", "sk"}, Required: true},
	}
}

func (t *TranslationTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	text := stringArg(args, "text")
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", contractx.ErrValidation)
	}

	out, err := t.translator.Translate(ctx, text, stringArg(args, "source_lang"), stringArg(args, "target_lang"))
	if err != nil {
		return nil, err
	}
	if out == nil {
		return map[string]any{"status": "unavailable", "message": "No translation for this language pair"}, nil
	}
	return map[string]any{
		"source":     out.Source,
		"translated": out.Translated,
		"from_lang":  out.FromLang,
		"to_lang":    out.ToLang,
	}, nil
}
