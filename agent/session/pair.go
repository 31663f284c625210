package session

import (
	"strings"

	languagex "github.com/tanpawarit/dekomposit/agent/language"
)

type Mode string

const (
	ModeNormal      Mode = "normal"
	ModeTranslation Mode = "translation"
)

func (m Mode) Title() string {
	if m == ModeTranslation {
		return "Translation"
	}
	return "Normal"
}

// Kind tells the front end how to style a reply.
type Kind string

const (
	KindPlain      Kind = "plain"
	KindTranslated Kind = "translated"
	KindError      Kind = "error"
	KindInfo       Kind = "info"
)

type Pair struct {
	Source string
	Target string
}

func NewPair(source, target string) Pair {
	return Pair{
		Source: strings.ToLower(strings.TrimSpace(source)),
		Target: strings.ToLower(strings.TrimSpace(target)),
	}
}

func DefaultPair() Pair {
	return NewPair(languagex.English, languagex.Russian)
}

func (p Pair) Label() string { return p.Source + "-" + p.Target }

func (p Pair) Command() string { return "/" + p.Source + p.Target }

func (p Pair) Swapped() Pair { return Pair{Source: p.Target, Target: p.Source} }
