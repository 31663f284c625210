package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ResponseFormat describes the object a structured request must return.
type ResponseFormat struct {
	Name        string
	Description string
	Params      map[string]*schema.ParameterInfo
}

// Client is the LLM boundary. Implementations must not retain messages.
type Client interface {
	RequestWithTools(ctx context.Context, messages []*schema.Message, tools []*schema.ToolInfo) (*schema.Message, error)
	Request(ctx context.Context, messages []*schema.Message, format ResponseFormat) (*schema.Message, error)
}

type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (*Translation, error)
}

type LanguageDetector interface {
	Detect(ctx context.Context, text string) (LanguageDetection, error)
}

// MemoryHandle is the slice of Memory that tools may mutate.
type MemoryHandle interface {
	AddNote(note string)
	RemoveNote(note string) bool
	ClearNotes()
	Notes() []string
	AddTopic(topic string)
	AddMistake(kind string)
	SetTeachingStyle(style string)
	SetSpeakingStyle(style string)
	SetToneVibe(tone string)
	HistorySize() int
}
