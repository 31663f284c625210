package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/slongfield/pyfmt"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
	transcriptx "github.com/tanpawarit/dekomposit/agent/transcript"
)

const (
	DefaultErrorMessage = "Oops... I hit an error. Please try again."
	busyMessage         = "Oops... still processing the previous message."
)

const translationModeTemplate = `You are in strict translation mode.
Translate the user text from {source_lang} to {target_lang}.

Rules:
1) Reply only with the translated text.
2) Do not add explanations, comments, or transliteration.
3) Return exactly one XML-like wrapper and nothing else:
<translated>{{translation}}</translated>

User text:
{text}
`

// Agent is the coach surface the chat service drives.
type Agent interface {
	HandleMessage(ctx context.Context, text string) (contractx.Result, error)
	Render(result contractx.Result) string
}

type Reply struct {
	Text      string
	Kind      Kind
	PairLabel string
}

// BuildTranslationPrompt wraps text in the strict translation instruction.
func BuildTranslationPrompt(text string, pair Pair) (string, error) {
	return pyfmt.Fmt(translationModeTemplate, map[string]any{
		"source_lang": pair.Source,
		"target_lang": pair.Target,
		"text":        text,
	})
}

// Service turns one user message into a styled reply.
type Service struct {
	agent        Agent
	store        transcriptx.Store
	sessionID    uuid.UUID
	errorMessage string
	logger       zerolog.Logger
}

type Option func(*Service)

func WithStore(store transcriptx.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

func WithErrorMessage(message string) Option {
	return func(s *Service) {
		if message != "" {
			s.errorMessage = message
		}
	}
}

func WithSessionID(id uuid.UUID) Option {
	return func(s *Service) {
		s.sessionID = id
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(agent Agent, opts ...Option) (*Service, error) {
	if agent == nil {
		return nil, fmt.Errorf("%w: agent is nil", contractx.ErrValidation)
	}
	s := &Service{
		agent:        agent,
		store:        transcriptx.Nop{},
		sessionID:    uuid.New(),
		errorMessage: DefaultErrorMessage,
		logger:       log.Logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = s.logger.With().Str("session_id", s.sessionID.String()).Logger()
	return s, nil
}

func (s *Service) SessionID() uuid.UUID { return s.sessionID }

// Ask sends text to the agent, wrapping it in the translation prompt when
// mode asks for it. Failures become an error reply.
func (s *Service) Ask(ctx context.Context, text string, mode Mode, pair Pair) (reply Reply) {
	userText := strings.TrimSpace(text)
	if userText == "" {
		return Reply{Kind: KindPlain}
	}

	defaultKind := KindPlain
	prompt := userText
	if mode == ModeTranslation {
		defaultKind = KindTranslated
		wrapped, err := BuildTranslationPrompt(userText, pair)
		if err != nil {
			s.logger.Error().Err(err).Msg("translation prompt failed")
			return s.errorReply()
		}
		prompt = wrapped
	}

	var result contractx.Result
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("agent request panicked")
			reply = s.errorReply()
		}
		s.record(ctx, userText, mode, pair, result, reply)
	}()

	result, err := s.agent.HandleMessage(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Msg("agent request failed")
		return s.errorReply()
	}

	body, kind := ParseAssistantText(s.agent.Render(result), defaultKind)
	if body == "" {
		return s.errorReply()
	}

	reply = Reply{Text: body, Kind: kind}
	if kind == KindTranslated {
		reply.PairLabel = pair.Label()
	}
	return reply
}

func (s *Service) Close() error {
	return s.store.Close()
}

func (s *Service) errorReply() Reply {
	return Reply{Text: s.errorMessage, Kind: KindError}
}

func (s *Service) record(ctx context.Context, userText string, mode Mode, pair Pair, result contractx.Result, reply Reply) {
	turn := &transcriptx.Turn{
		ID:         uuid.New(),
		SessionID:  s.sessionID,
		Mode:       string(mode),
		PairLabel:  pair.Label(),
		UserText:   userText,
		ResultType: string(result.Type),
		Reply:      reply.Text,
		Kind:       string(reply.Kind),
		ToolCalls:  result.ToolCalls,
	}
	if err := s.store.Append(ctx, turn); err != nil {
		s.logger.Warn().Err(err).Msg("transcript append failed")
	}
}

// Session keeps the front-end state: mode, language pair and one request
// in flight at a time.
type Session struct {
	service *Service

	mu   sync.Mutex
	mode Mode
	pair Pair

	inFlight sync.Mutex
}

func NewSession(service *Service) *Session {
	return &Session{service: service, mode: ModeNormal, pair: DefaultPair()}
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) Pair() Pair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair
}

func (s *Session) ToggleMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeNormal {
		s.mode = ModeTranslation
	} else {
		s.mode = ModeNormal
	}
	return s.mode
}

func (s *Session) SwapPair() Pair {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = s.pair.Swapped()
	return s.pair
}

// Status renders the prompt line, e.g. "[en-ru] Normal".
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("[%s] %s", s.pair.Label(), s.mode.Title())
}

// Submit handles one raw input line and returns the replies to show.
// The returned Command is non-empty when the caller must act on it.
func (s *Session) Submit(ctx context.Context, raw string) ([]Reply, Command) {
	parsed := ParseInput(raw)
	if parsed.Err != "" {
		return []Reply{{Text: "Oops... " + parsed.Err, Kind: KindError}}, CommandNone
	}

	switch parsed.Command {
	case CommandToggleMode:
		mode := s.ToggleMode()
		return []Reply{{Text: mode.Title() + " mode.", Kind: KindInfo}}, CommandNone
	case CommandSwapPair:
		pair := s.SwapPair()
		return []Reply{{Text: "Language pair set to " + pair.Label() + ".", Kind: KindInfo}}, CommandNone
	case CommandHelp, CommandExit:
		return nil, parsed.Command
	}

	if parsed.Pair != nil {
		s.mu.Lock()
		s.pair = *parsed.Pair
		s.mu.Unlock()
	}
	if parsed.Text == "" {
		if parsed.Pair != nil {
			return []Reply{{Text: "Language pair set to " + parsed.Pair.Label() + ".", Kind: KindInfo}}, CommandNone
		}
		return nil, CommandNone
	}

	if !s.inFlight.TryLock() {
		return []Reply{{Text: busyMessage, Kind: KindError}}, CommandNone
	}
	defer s.inFlight.Unlock()

	return []Reply{s.service.Ask(ctx, parsed.Text, s.Mode(), s.Pair())}, CommandNone
}
