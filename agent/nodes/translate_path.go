package coachnode

import (
	"context"
	"strings"

	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

type TranslationRouter interface {
	Translate(ctx context.Context, decision contractx.Decision) (*contractx.Translation, error)
}

// Translate fills a format-backed result. An abandoned translation yields an
// error result with no message so the renderer shows its fallback.
func Translate(ctx context.Context, in *GraphState, router TranslationRouter, preset string) (*GraphState, error) {
	if err := requireState(in); err != nil {
		return nil, err
	}

	translation, err := router.Translate(ctx, in.Decision)
	if err != nil {
		return nil, err
	}
	if translation == nil {
		in.Result = contractx.Result{Type: contractx.ResultError, ToolCalls: []contractx.ToolCallRecord{}}
		return in, nil
	}

	in.Result = contractx.Result{
		Type:      contractx.ResultResponse,
		Message:   translation.Translated,
		ToolCalls: []contractx.ToolCallRecord{},
		Format: &contractx.FormatSpec{
			Preset: preset,
			Values: map[string]string{
				"source":      strings.ToUpper(translation.FromLang),
				"target":      strings.ToUpper(translation.ToLang),
				"translation": translation.Translated,
			},
		},
	}
	return in, nil
}
