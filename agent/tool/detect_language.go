package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

const ToolDetectLanguage = "detect_language"

type LanguageDetectionTool struct {
	Base
	detector contractx.LanguageDetector
}

func NewLanguageDetectionTool(detector contractx.LanguageDetector) (*LanguageDetectionTool, error) {
	if detector == nil {
		return nil, fmt.Errorf("%w: language detector is nil", contractx.ErrValidation)
	}
	return &LanguageDetectionTool{
		Base: Base{
			ToolName: ToolDetectLanguage,
			ToolDesc: "Detect language of text. Returns language code (en, ru, uk, sk) and confidence.",
			Params: map[string]*schema.ParameterInfo{
				"text": {Type: schema.String, Desc: "Text to detect language for", Required: true},
			},
		},
		detector: detector,
	}, nil
}

func (t *LanguageDetectionTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	text := stringArg(args, "text")
	if text == "" {
		return map[string]any{"language": "unknown", "confidence": "none", "error": "Empty text"}, nil
	}

	detection, err := t.detector.Detect(ctx, text)
	if err != nil {
		return map[string]any{"language": "unknown", "confidence": "none", "error": err.Error()}, nil
	}
	if detection.Language == "" {
		return map[string]any{"language": "unknown", "confidence": "none", "error": "No response"}, nil
	}
	return map[string]any{"language": detection.Language, "confidence": detection.Confidence}, nil
}
