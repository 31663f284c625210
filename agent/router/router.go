package router

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

var decisionFormat = contractx.ResponseFormat{
	Name:        "routing_decision",
	Description: "How to handle the user's message.",
	Params: map[string]*schema.ParameterInfo{
		"action": {
			Type:     schema.String,
			Desc:     "translate or respond",
			Enum:     []string{string(contractx.ActionTranslate), string(contractx.ActionRespond)},
			Required: true,
		},
		"text":        {Type: schema.String, Desc: "Text to act on", Required: true},
		"source_lang": {Type: schema.String, Desc: "Source language code, if known"},
		"target_lang": {Type: schema.String, Desc: "Target language code, if requested"},
	},
}

type Config struct {
	Client        contractx.Client
	Detector      contractx.LanguageDetector
	Translator    contractx.Translator
	SystemPrompt  string
	DefaultTarget string
	Logger        *zerolog.Logger
}

// Router resolves exactly one action per message.
type Router struct {
	client        contractx.Client
	detector      contractx.LanguageDetector
	translator    contractx.Translator
	template      einoprompt.ChatTemplate
	defaultTarget string
	logger        zerolog.Logger
}

func New(cfg Config) (*Router, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("%w: routing client is nil", contractx.ErrValidation)
	}
	if cfg.Translator == nil {
		return nil, fmt.Errorf("%w: translator is nil", contractx.ErrValidation)
	}
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		return nil, fmt.Errorf("%w: routing prompt", contractx.ErrPromptMissing)
	}

	r := &Router{
		client:     cfg.Client,
		detector:   cfg.Detector,
		translator: cfg.Translator,
		template: einoprompt.FromMessages(
			schema.FString,
			schema.SystemMessage(cfg.SystemPrompt),
			schema.UserMessage("{text}"),
		),
		defaultTarget: languagex.Normalize(cfg.DefaultTarget),
		logger:        log.Logger,
	}
	if cfg.Logger != nil {
		r.logger = *cfg.Logger
	}
	return r, nil
}

// Decide never fails: an unusable decision becomes a translation of text.
func (r *Router) Decide(ctx context.Context, text string) contractx.Decision {
	fallback := contractx.Decision{Action: contractx.ActionTranslate, Text: text}

	messages, err := r.template.Format(ctx, map[string]any{"text": text})
	if err != nil {
		r.logger.Warn().Err(err).Msg("routing template failed, falling back to translate")
		return fallback
	}

	decision, err := llmx.RequestAs[contractx.Decision](ctx, r.client, messages, decisionFormat)
	if err != nil {
		r.logger.Warn().Err(err).Msg("routing decision failed, falling back to translate")
		return fallback
	}

	switch decision.Action {
	case contractx.ActionTranslate, contractx.ActionRespond:
	default:
		r.logger.Warn().Str("action", string(decision.Action)).Msg("unknown routing action, falling back to translate")
		return fallback
	}

	if strings.TrimSpace(decision.Text) == "" {
		decision.Text = text
	}
	decision.SourceLang = languagex.Normalize(decision.SourceLang)
	decision.TargetLang = languagex.Normalize(decision.TargetLang)

	r.logger.Debug().
		Str("action", string(decision.Action)).
		Str("source_lang", decision.SourceLang).
		Str("target_lang", decision.TargetLang).
		Msg("routing decision")
	return decision
}

// Translate runs the translation path. It returns nil without an error when
// the language pair cannot be resolved.
func (r *Router) Translate(ctx context.Context, decision contractx.Decision) (*contractx.Translation, error) {
	text := strings.TrimSpace(decision.Text)
	if text == "" {
		return nil, nil
	}

	source := languagex.Normalize(decision.SourceLang)
	if source == "" {
		source = r.detect(ctx, text)
	}
	if source == "" {
		r.logger.Info().Msg("source language unresolved, skipping translation")
		return nil, nil
	}

	target := languagex.Normalize(decision.TargetLang)
	if target == "" {
		target = languagex.DefaultTarget(source, r.defaultTarget)
	}
	if source == target {
		r.logger.Info().Str("lang", source).Msg("source and target match, skipping translation")
		return nil, nil
	}

	return r.translator.Translate(ctx, text, source, target)
}

func (r *Router) detect(ctx context.Context, text string) string {
	if code := languagex.DetectLocal(text); code != "" {
		return code
	}
	if r.detector == nil {
		return ""
	}
	detection, err := r.detector.Detect(ctx, text)
	if err != nil {
		r.logger.Warn().Err(err).Msg("language detection failed")
		return ""
	}
	return languagex.Normalize(detection.Language)
}
