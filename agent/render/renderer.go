package render

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

const DefaultErrorMessage = "Sorry, I couldn't process that."

// PresetRenderer is satisfied by format.Registry.
type PresetRenderer interface {
	Render(name string, values map[string]string) (string, error)
}

// Renderer turns a loop result into the text shown to the user.
type Renderer struct {
	formats      PresetRenderer
	errorMessage string
	logger       zerolog.Logger
}

type Option func(*Renderer)

func WithErrorMessage(message string) Option {
	return func(r *Renderer) {
		if message != "" {
			r.errorMessage = message
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

func New(formats PresetRenderer, opts ...Option) *Renderer {
	r := &Renderer{
		formats:      formats,
		errorMessage: DefaultErrorMessage,
		logger:       log.Logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Render(result contractx.Result) string {
	if spec := result.Format; spec != nil && spec.Values != nil && r.formats != nil {
		out, err := r.formats.Render(spec.Preset, spec.Values)
		if err == nil {
			return out
		}
		r.logger.Error().Err(err).Str("preset", spec.Preset).Msg("format render failed")
	}

	switch result.Type {
	case contractx.ResultError:
		if result.Message != "" {
			return result.Message
		}
		return r.errorMessage
	default:
		return result.Message
	}
}
