package prompt

import (
	_ "embed"
	"strings"
)

const (
	FragmentPersona = "persona"
	FragmentMemory  = "memory"
)

var (
	//go:embed template/persona.txt
	personaRaw string

	//go:embed template/memory.txt
	memoryRaw string

	//go:embed template/routing.txt
	routingRaw string

	//go:embed template/detection.txt
	detectionRaw string

	//go:embed template/translation.txt
	translationRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Persona     string
	Memory      string
	Routing     string
	Detection   string
	Translation string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Persona:     strings.TrimSpace(personaRaw),
		Memory:      strings.TrimSpace(memoryRaw),
		Routing:     strings.TrimSpace(routingRaw),
		Detection:   strings.TrimSpace(detectionRaw),
		Translation: strings.TrimSpace(translationRaw),
	}
}

// Fragments returns the system-prompt fragments keyed by name.
func (p PromptSet) Fragments() map[string]string {
	return map[string]string{
		FragmentPersona: p.Persona,
		FragmentMemory:  p.Memory,
	}
}
