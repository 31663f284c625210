package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
	coachx "github.com/tanpawarit/dekomposit/agent/agents/coach"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
	languagex "github.com/tanpawarit/dekomposit/agent/language"
	llmx "github.com/tanpawarit/dekomposit/agent/llm"
	promptx "github.com/tanpawarit/dekomposit/agent/prompt"
	sessionx "github.com/tanpawarit/dekomposit/agent/session"
	transcriptx "github.com/tanpawarit/dekomposit/agent/transcript"
	translatex "github.com/tanpawarit/dekomposit/agent/translate"
	configx "github.com/tanpawarit/dekomposit/pkg/config"
	_ "github.com/tanpawarit/dekomposit/pkg/logger/autoload"
)

const helpText = `Commands:
  /enru [text]  set the language pair (any of en, ru, uk, sk)
  /mode         toggle normal and translation mode
  /swap         swap the language pair
  /help         show this help
  /exit         quit`

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	assistantStyle  = lipgloss.NewStyle().PaddingLeft(2)
	translatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).PaddingLeft(2)
	pairStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	infoStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true).PaddingLeft(2)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).PaddingLeft(2)
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	service, err := buildService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build chat service")
	}
	defer func() {
		if err := service.Close(); err != nil {
			log.Warn().Err(err).Msg("close transcript store")
		}
	}()

	if err := repl(ctx, sessionx.NewSession(service)); err != nil {
		log.Fatal().Err(err).Msg("repl stopped")
	}
}

func buildService(ctx context.Context) (*sessionx.Service, error) {
	logger := log.Logger

	llmCfg := configx.MustNew[llmx.Config]("LLM")
	if err := llmCfg.Validate(); err != nil {
		return nil, err
	}
	agentCfg := configx.MustNew[coachx.Config]("AGENT")
	adaptiveCfg := configx.MustNew[translatex.AdaptiveConfig]("ADAPTIVE_MT")
	transcriptCfg := configx.MustNew[transcriptx.Config]("TRANSCRIPT")

	clients := map[llmx.Purpose]contractx.Client{}
	for _, purpose := range []llmx.Purpose{llmx.PurposeChat, llmx.PurposeRouting, llmx.PurposeDetection, llmx.PurposeTranslation} {
		client, err := llmx.NewClient(ctx, *llmCfg, purpose, logger)
		if err != nil {
			return nil, fmt.Errorf("%s client: %w", purpose, err)
		}
		clients[purpose] = client
	}

	prompts := promptx.LoadPromptSet()
	translator, err := translatex.NewLLMTranslator(clients[llmx.PurposeTranslation], prompts.Translation, &logger)
	if err != nil {
		return nil, err
	}

	deps := coachx.Deps{
		Client:        clients[llmx.PurposeChat],
		RoutingClient: clients[llmx.PurposeRouting],
		Translator:    translator,
		Detector: languagex.NewDetector(clients[llmx.PurposeDetection], prompts.Detection,
			languagex.WithModelOnly(), languagex.WithDetectorLogger(logger)),
		Prompts: &prompts,
		Logger:  &logger,
	}

	if strings.TrimSpace(adaptiveCfg.ProjectID) != "" {
		adaptive, err := translatex.NewAdaptiveClient(ctx, *adaptiveCfg, translatex.WithAdaptiveLogger(logger))
		if err != nil {
			logger.Warn().Err(err).Msg("adaptive translation disabled")
		} else {
			deps.Adaptive = adaptive
		}
	}

	agent, err := coachx.New(ctx, *agentCfg, deps)
	if err != nil {
		return nil, err
	}

	store, err := transcriptx.Open(ctx, *transcriptCfg, &logger)
	if err != nil {
		return nil, err
	}
	return sessionx.NewService(agent, sessionx.WithStore(store), sessionx.WithLogger(logger))
}

func repl(ctx context.Context, session *sessionx.Session) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptFor(session),
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(rl.Stdout(), titleStyle.Render("dekomposit"), infoStyle.Render("type /help for commands"))

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		replies, command := session.Submit(ctx, line)
		switch command {
		case sessionx.CommandExit:
			return nil
		case sessionx.CommandHelp:
			fmt.Fprintln(rl.Stdout(), infoStyle.Render(helpText))
		}
		for _, reply := range replies {
			fmt.Fprintln(rl.Stdout(), styleReply(reply))
		}
		rl.SetPrompt(promptFor(session))

		if ctx.Err() != nil {
			return nil
		}
	}
}

func styleReply(reply sessionx.Reply) string {
	switch reply.Kind {
	case sessionx.KindTranslated:
		label := ""
		if reply.PairLabel != "" {
			label = pairStyle.Render("["+reply.PairLabel+"]") + " "
		}
		return label + translatedStyle.Render(reply.Text)
	case sessionx.KindError:
		return errorStyle.Render(reply.Text)
	case sessionx.KindInfo:
		return infoStyle.Render(reply.Text)
	default:
		return assistantStyle.Render(reply.Text)
	}
}

func promptFor(session *sessionx.Session) string {
	return pairStyle.Render(session.Status()) + " > "
}

func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dekomposit_history")
}
