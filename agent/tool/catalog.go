package tool

import (
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

// Deps are the collaborators tool factories may need.
type Deps struct {
	Detector   contractx.LanguageDetector
	Translator contractx.Translator
	Adaptive   contractx.Translator
}

type CatalogEntry struct {
	Type  string
	Build func(Deps) (Tool, error)
}

// Catalog lists every built-in tool. Discover registers each one under its
// name plus the lowercased Type as an alias.
var Catalog = []CatalogEntry{
	{Type: "MemoryTool", Build: func(Deps) (Tool, error) { return NewMemoryTool(), nil }},
	{Type: "LanguageDetectionTool", Build: func(d Deps) (Tool, error) { return NewLanguageDetectionTool(d.Detector) }},
	{Type: "TranslationTool", Build: func(d Deps) (Tool, error) { return NewTranslationTool(d.Translator) }},
	{Type: "AdaptiveTranslationTool", Build: func(d Deps) (Tool, error) { return NewAdaptiveTranslationTool(d.Adaptive) }},
	{Type: "ReversoAPI", Build: func(Deps) (Tool, error) { return NewReversoTool(), nil }},
}
