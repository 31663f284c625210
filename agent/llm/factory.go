package llm

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

// NewClient builds the Client for one purpose using the configured backend.
func NewClient(ctx context.Context, cfg Config, purpose Purpose, logger zerolog.Logger) (contractx.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	routerCfg := cfg.OpenRouterFor(purpose)
	if strings.EqualFold(strings.TrimSpace(cfg.Backend), BackendOpenAI) {
		return NewOpenAIClient(routerCfg, &logger)
	}

	model, err := routerCfg.New(ctx)
	if err != nil {
		return nil, err
	}
	return NewChatClient(model, WithClientLogger(logger))
}
