package language

import (
	"context"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
	llmx "github.com/tanpawarit/dekomposit/agent/llm"
)

var _ contractx.LanguageDetector = (*Detector)(nil)

var detectionFormat = contractx.ResponseFormat{
	Name:        "language_detection",
	Description: "Detected language code and confidence.",
	Params: map[string]*schema.ParameterInfo{
		"language": {
			Type:     schema.String,
			Desc:     "Language code: en, ru, uk, sk, or other",
			Enum:     []string{English, Russian, Ukrainian, Slovak, "other"},
			Required: true,
		},
		"confidence": {
			Type:     schema.String,
			Desc:     "Confidence level: high, medium, low",
			Enum:     []string{"high", "medium", "low"},
			Required: true,
		},
	},
}

// Detector tries the local heuristic first and asks the model otherwise.
type Detector struct {
	client   contractx.Client
	template einoprompt.ChatTemplate
	logger   zerolog.Logger
	// skipLocal forces the model path, used by the detect_language tool.
	skipLocal bool
}

type DetectorOption func(*Detector)

func WithModelOnly() DetectorOption {
	return func(d *Detector) {
		d.skipLocal = true
	}
}

func WithDetectorLogger(logger zerolog.Logger) DetectorOption {
	return func(d *Detector) {
		d.logger = logger
	}
}

// NewDetector accepts a nil client, in which case only local detection runs.
func NewDetector(client contractx.Client, systemPrompt string, opts ...DetectorOption) *Detector {
	d := &Detector{
		client: client,
		template: einoprompt.FromMessages(
			schema.FString,
			schema.SystemMessage(systemPrompt),
			schema.UserMessage("{text}"),
		),
		logger: log.Logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

func (d *Detector) Detect(ctx context.Context, text string) (contractx.LanguageDetection, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return contractx.LanguageDetection{}, fmt.Errorf("%w: empty text", contractx.ErrValidation)
	}

	if !d.skipLocal {
		if code := DetectLocal(text); code != "" {
			return contractx.LanguageDetection{Language: code, Confidence: "medium"}, nil
		}
	}
	if d.client == nil {
		return contractx.LanguageDetection{}, nil
	}

	messages, err := d.template.Format(ctx, map[string]any{"text": text})
	if err != nil {
		return contractx.LanguageDetection{}, fmt.Errorf("%w: detection template: %v", contractx.ErrPromptMissing, err)
	}

	out, err := llmx.RequestAs[contractx.LanguageDetection](ctx, d.client, messages, detectionFormat)
	if err != nil {
		d.logger.Error().Err(err).Msg("language detection failed")
		return contractx.LanguageDetection{}, err
	}

	out.Language = Normalize(out.Language)
	d.logger.Debug().Str("lang", out.Language).Str("confidence", out.Confidence).Msg("detected language")
	return out, nil
}
