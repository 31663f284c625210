package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
	llmx "github.com/tanpawarit/dekomposit/agent/llm"
)

// MemoryBinder is implemented by tools that mutate agent memory.
type MemoryBinder interface {
	BindMemory(handle contractx.MemoryHandle)
}

type Registry struct {
	mu              sync.RWMutex
	tools           map[string]Tool
	aliases         map[string]string
	includeDisabled bool
	logger          zerolog.Logger
}

type RegistryOption func(*Registry)

// WithDisabledInSchema exposes disabled tools to the model as well.
func WithDisabledInSchema(include bool) RegistryOption {
	return func(r *Registry) {
		r.includeDisabled = include
	}
}

func WithRegistryLogger(logger zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		tools:   make(map[string]Tool),
		aliases: make(map[string]string),
		logger:  log.Logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Register stores t under its name, replacing any previous tool with that name.
func (r *Registry) Register(t Tool, aliases ...string) {
	if t == nil {
		return
	}
	name := t.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tools[name] = t
	for _, alias := range aliases {
		if alias != "" && alias != name {
			r.aliases[alias] = name
		}
	}
	r.logger.Debug().Str("tool", name).Strs("aliases", aliases).Msg("registered tool")
}

// RegisterFactory builds the tool once and registers it under alias.
func (r *Registry) RegisterFactory(alias string, factory func() (Tool, error)) error {
	t, err := factory()
	if err != nil {
		return fmt.Errorf("build tool %s: %w", alias, err)
	}
	r.Register(t, alias)
	return nil
}

func (r *Registry) resolve(name string) string {
	if canonical, ok := r.aliases[name]; ok {
		return canonical
	}
	return name
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[r.resolve(name)]
	return t, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Execute invokes a tool by name or alias.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", contractx.ErrToolNotFound, name)
	}
	return t.Invoke(ctx, args)
}

func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListEnabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name, t := range r.tools {
		if t.Enabled() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ToolInfos returns the tools exposed to the model, sorted by name.
func (r *Registry) ToolInfos() []*schema.ToolInfo {
	exposed := r.exposed()
	infos := make([]*schema.ToolInfo, 0, len(exposed))
	for _, t := range exposed {
		infos = append(infos, Info(t))
	}
	return infos
}

// Schemas returns the exposed tools in OpenAI function-calling form.
func (r *Registry) Schemas() []map[string]any {
	exposed := r.exposed()
	out := make([]map[string]any, 0, len(exposed))
	for _, t := range exposed {
		out = append(out, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name(),
				"description": t.Description(),
				"parameters":  llmx.ParamsSchema(t.Parameters()),
			},
		})
	}
	return out
}

func (r *Registry) exposed() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name, t := range r.tools {
		if t.Enabled() || r.includeDisabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]Tool, 0, len(names))
	for _, name := range names {
		out = append(out, r.tools[name])
	}
	return out
}

// BindMemory hands the memory handle to every tool that accepts one.
func (r *Registry) BindMemory(handle contractx.MemoryHandle) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tools {
		if binder, ok := t.(MemoryBinder); ok {
			binder.BindMemory(handle)
		}
	}
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tools = make(map[string]Tool)
	r.aliases = make(map[string]string)
}

// Discover builds every catalog entry and registers the ones that succeed.
func (r *Registry) Discover(deps Deps) int {
	discovered := 0
	for _, entry := range Catalog {
		t, err := entry.Build(deps)
		if err != nil {
			r.logger.Warn().Err(err).Str("tool", entry.Type).Msg("failed to build tool")
			continue
		}
		r.Register(t, strings.ToLower(entry.Type))
		discovered++
	}
	r.logger.Info().Int("count", discovered).Msg("discovered tools")
	return discovered
}
