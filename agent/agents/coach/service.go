package coach

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
	formatx "github.com/tanpawarit/dekomposit/agent/format"
	languagex "github.com/tanpawarit/dekomposit/agent/language"
	memoryx "github.com/tanpawarit/dekomposit/agent/memory"
	nodex "github.com/tanpawarit/dekomposit/agent/nodes"
	promptx "github.com/tanpawarit/dekomposit/agent/prompt"
	renderx "github.com/tanpawarit/dekomposit/agent/render"
	routerx "github.com/tanpawarit/dekomposit/agent/router"
	toolx "github.com/tanpawarit/dekomposit/agent/tool"
	toolloopx "github.com/tanpawarit/dekomposit/agent/toolloop"
	translatex "github.com/tanpawarit/dekomposit/agent/translate"
)

const (
	RoutingTools    = "tools"
	RoutingDecision = "decision"
)

type Config struct {
	MaxIterations        int    `envconfig:"MAX_ITERATIONS" split_words:"true" default:"5"`
	RoutingMode          string `envconfig:"ROUTING_MODE" split_words:"true" default:"tools"`
	IncludeDisabledTools bool   `envconfig:"INCLUDE_DISABLED_TOOLS" split_words:"true" default:"false"`
	FormatsFile          string `envconfig:"FORMATS_FILE" split_words:"true"`
	FormatPreset         string `envconfig:"FORMAT_PRESET" split_words:"true"`
	DefaultTarget        string `envconfig:"DEFAULT_TARGET" split_words:"true" default:"en"`
	Personality          string `envconfig:"PERSONALITY" split_words:"true"`
}

// Deps wires the agent's collaborators. Only Client is required.
type Deps struct {
	Client        contractx.Client
	RoutingClient contractx.Client
	Translator    contractx.Translator
	Adaptive      contractx.Translator
	Detector      contractx.LanguageDetector
	Formats       *formatx.Registry
	Tools         *toolx.Registry
	Prompts       *promptx.PromptSet
	Logger        *zerolog.Logger
}

// Agent owns one conversation: memory, tools and the per-turn graph.
// Turns are serialized.
type Agent struct {
	cfg      Config
	memory   *memoryx.Memory
	registry *toolx.Registry
	runner   *toolloopx.Runner
	router   *routerx.Router
	renderer *renderx.Renderer
	prompts  promptx.PromptSet
	logger   zerolog.Logger

	turnMu sync.Mutex

	promptMu   sync.RWMutex
	overrides  map[string]string
	basePrompt string

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
}

func New(ctx context.Context, cfg Config, deps Deps) (*Agent, error) {
	if deps.Client == nil {
		return nil, fmt.Errorf("%w: chat client is required", contractx.ErrValidation)
	}

	logger := log.Logger
	if deps.Logger != nil {
		logger = *deps.Logger
	}

	prompts := promptx.LoadPromptSet()
	if deps.Prompts != nil {
		prompts = *deps.Prompts
	}

	a := &Agent{
		cfg:       cfg,
		memory:    memoryx.New(),
		prompts:   prompts,
		logger:    logger,
		overrides: map[string]string{},
	}
	if v := strings.TrimSpace(cfg.Personality); v != "" {
		a.overrides[promptx.FragmentPersona] = v
	}

	formats := deps.Formats
	if formats == nil {
		var err error
		formats, err = formatx.NewRegistry(formatx.WithFile(cfg.FormatsFile), formatx.WithLogger(logger))
		if err != nil {
			return nil, err
		}
	}
	a.renderer = renderx.New(formats, renderx.WithLogger(logger))

	routingClient := deps.RoutingClient
	if routingClient == nil {
		routingClient = deps.Client
	}

	detector := deps.Detector
	if detector == nil {
		detector = languagex.NewDetector(routingClient, prompts.Detection, languagex.WithModelOnly(), languagex.WithDetectorLogger(logger))
	}

	translator := deps.Translator
	if translator == nil {
		llmTranslator, err := translatex.NewLLMTranslator(deps.Client, prompts.Translation, &logger)
		if err != nil {
			return nil, err
		}
		translator = llmTranslator
	}

	a.registry = deps.Tools
	if a.registry == nil {
		a.registry = toolx.NewRegistry(
			toolx.WithDisabledInSchema(cfg.IncludeDisabledTools),
			toolx.WithRegistryLogger(logger),
		)
		a.registry.Discover(toolx.Deps{Detector: detector, Translator: translator, Adaptive: deps.Adaptive})
	}
	a.registry.BindMemory(memoryx.NewHandle(a.memory, a.rebuildPrompt))

	runner, err := toolloopx.New(deps.Client, a.registry,
		toolloopx.WithMaxIterations(cfg.MaxIterations),
		toolloopx.WithPromptRefresh(a.SystemPrompt),
		toolloopx.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	a.runner = runner

	if strings.EqualFold(strings.TrimSpace(cfg.RoutingMode), RoutingDecision) {
		a.router, err = routerx.New(routerx.Config{
			Client:        routingClient,
			Detector:      detector,
			Translator:    translator,
			SystemPrompt:  prompts.Routing,
			DefaultTarget: cfg.DefaultTarget,
			Logger:        &logger,
		})
		if err != nil {
			return nil, err
		}
	}

	a.rebuildPrompt()

	graphRunner, err := a.compileHandleMessageGraph(ctx)
	if err != nil {
		return nil, err
	}
	a.graphRunner = graphRunner

	logger.Info().
		Strs("tools", a.registry.List()).
		Int("tool_schemas", len(a.registry.ToolInfos())).
		Str("routing_mode", a.routingMode()).
		Msg("agent initialized")
	return a, nil
}

// HandleMessage runs one turn and returns the raw result.
func (a *Agent) HandleMessage(ctx context.Context, text string) (contractx.Result, error) {
	a.turnMu.Lock()
	defer a.turnMu.Unlock()

	out, err := a.graphRunner.Invoke(ctx, nodex.GraphInput{Text: text})
	if err != nil {
		return contractx.Result{}, err
	}
	return out.Result, nil
}

// Chat returns rendered text and never fails.
func (a *Agent) Chat(ctx context.Context, text string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().Interface("panic", r).Msg("chat panicked")
			reply = renderx.DefaultErrorMessage
		}
	}()

	result, err := a.HandleMessage(ctx, text)
	if err != nil {
		a.logger.Error().Err(err).Msg("handle message failed")
		return renderx.DefaultErrorMessage
	}
	return a.renderer.Render(result)
}

// Stream delivers the rendered reply as a single chunk.
func (a *Agent) Stream(ctx context.Context, text string) <-chan string {
	out := make(chan string, 1)
	go func() {
		defer close(out)
		out <- a.Chat(ctx, text)
	}()
	return out
}

func (a *Agent) Render(result contractx.Result) string {
	return a.renderer.Render(result)
}

func (a *Agent) Memory() *memoryx.Memory { return a.memory }

func (a *Agent) Registry() *toolx.Registry { return a.registry }

func (a *Agent) SystemPrompt() string {
	a.promptMu.RLock()
	defer a.promptMu.RUnlock()
	return a.basePrompt
}

// SetPersonality overrides the placeholder text of one prompt fragment.
func (a *Agent) SetPersonality(fragment, text string) {
	a.promptMu.Lock()
	a.overrides[fragment] = text
	a.promptMu.Unlock()
	a.rebuildPrompt()
}

func (a *Agent) rebuildPrompt() {
	rendered := a.memory.ToMarkdown()

	a.promptMu.Lock()
	defer a.promptMu.Unlock()
	a.basePrompt = promptx.Compose(a.prompts.Fragments(), a.overrides, rendered)
}

func (a *Agent) routingMode() string {
	if a.router != nil {
		return RoutingDecision
	}
	return RoutingTools
}
