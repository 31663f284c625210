package format

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
	"gopkg.in/yaml.v3"
)

const DefaultActive = "translation_default"

//go:embed presets/default.json
var defaultPresets []byte

type presetFile struct {
	Active  string            `json:"active" yaml:"active"`
	Presets map[string]Preset `json:"presets" yaml:"presets"`
}

// Registry is a read-only set of presets with one active preset.
type Registry struct {
	presets map[string]Preset
	active  string
	logger  zerolog.Logger
}

type Option func(*options)

type options struct {
	path   string
	logger zerolog.Logger
}

// WithFile loads presets from a JSON or YAML file instead of the embedded defaults.
func WithFile(path string) Option {
	return func(o *options) {
		o.path = strings.TrimSpace(path)
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewRegistry fails when the active preset is not defined.
func NewRegistry(opts ...Option) (*Registry, error) {
	o := options{logger: log.Logger}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	raw, isYAML := defaultPresets, false
	if o.path != "" {
		data, err := os.ReadFile(o.path)
		if err != nil {
			return nil, fmt.Errorf("read format presets %s: %w", o.path, err)
		}
		ext := strings.ToLower(filepath.Ext(o.path))
		raw, isYAML = data, ext == ".yaml" || ext == ".yml"
	}

	var file presetFile
	var err error
	if isYAML {
		err = yaml.Unmarshal(raw, &file)
	} else {
		err = json.Unmarshal(raw, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode format presets: %v", contractx.ErrValidation, err)
	}

	r := &Registry{
		presets: make(map[string]Preset, len(file.Presets)),
		active:  strings.TrimSpace(file.Active),
		logger:  o.logger,
	}
	if r.active == "" {
		r.active = DefaultActive
	}

	for name, preset := range file.Presets {
		if preset.Name == "" {
			preset.Name = name
		}
		if err := preset.validate(); err != nil {
			r.logger.Error().Err(err).Str("preset", name).Msg("failed to load preset")
			continue
		}
		r.presets[name] = preset
	}

	if _, ok := r.presets[r.active]; !ok {
		return nil, fmt.Errorf("%w: active preset %q not found", contractx.ErrPresetMissing, r.active)
	}
	r.logger.Debug().Int("count", len(r.presets)).Str("active", r.active).Msg("loaded format presets")
	return r, nil
}

func (r *Registry) Active() Preset {
	return r.presets[r.active]
}

func (r *Registry) Get(name string) (Preset, bool) {
	p, ok := r.presets[name]
	return p, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render uses the named preset, or the active one when name is empty or unknown.
func (r *Registry) Render(name string, values map[string]string) (string, error) {
	preset := r.Active()
	if name != "" {
		if named, ok := r.presets[name]; ok {
			preset = named
		} else {
			r.logger.Warn().Str("preset", name).Str("active", r.active).Msg("preset not found, using active")
		}
	}
	return preset.Render(values)
}
