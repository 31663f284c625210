package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/dekomposit/agent/contract"
	openrouterx "github.com/tanpawarit/dekomposit/pkg/openrouter"
)

// Purpose selects per-call model overrides.
type Purpose string

const (
	PurposeChat        Purpose = "chat"
	PurposeRouting     Purpose = "routing"
	PurposeDetection   Purpose = "detection"
	PurposeTranslation Purpose = "translation"
)

const (
	BackendEino   = "eino"
	BackendOpenAI = "openai"
)

type Config struct {
	Backend            string        `envconfig:"BACKEND" split_words:"true" default:"eino"`
	Provider           string        `envconfig:"PROVIDER" split_words:"true" default:"openrouter"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.7"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	ChatModel              string  `envconfig:"CHAT_MODEL" split_words:"true"`
	RoutingModel           string  `envconfig:"ROUTING_MODEL" split_words:"true"`
	DetectionModel         string  `envconfig:"DETECTION_MODEL" split_words:"true"`
	TranslationModel       string  `envconfig:"TRANSLATION_MODEL" split_words:"true"`
	ChatTemperature        float32 `envconfig:"CHAT_TEMPERATURE" split_words:"true" default:"-1"`
	RoutingTemperature     float32 `envconfig:"ROUTING_TEMPERATURE" split_words:"true" default:"0"`
	DetectionTemperature   float32 `envconfig:"DETECTION_TEMPERATURE" split_words:"true" default:"0"`
	TranslationTemperature float32 `envconfig:"TRANSLATION_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case "", BackendEino, BackendOpenAI:
	default:
		return fmt.Errorf("%w: unknown llm backend %q", contractx.ErrValidation, c.Backend)
	}
	return nil
}

func (c Config) OpenRouterFor(purpose Purpose) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	override := func(model string, temperature float32) {
		if v := strings.TrimSpace(model); v != "" {
			modelName = v
		}
		if temperature >= 0 {
			temp = temperature
		}
	}

	switch purpose {
	case PurposeChat:
		override(c.ChatModel, c.ChatTemperature)
	case PurposeRouting:
		override(c.RoutingModel, c.RoutingTemperature)
	case PurposeDetection:
		override(c.DetectionModel, c.DetectionTemperature)
	case PurposeTranslation:
		override(c.TranslationModel, c.TranslationTemperature)
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		Provider:           strings.TrimSpace(c.Provider),
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
