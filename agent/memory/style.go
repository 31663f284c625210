package memory

import (
	"strings"
	"unicode"
)

var (
	casualMarkers = []string{"lol", "haha", "hey", "yo ", "gonna", "wanna", "btw", "omg", ":)", "привет", "прив"}
	formalMarkers = []string{"please", "could you", "would you", "kindly", "thank you", "будьте добры", "пожалуйста"}
)

// ObserveUserText updates speaking style and tone from surface cues in text.
// It leaves the current values alone when nothing matches.
func (m *Memory) ObserveUserText(text string) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return
	}

	switch {
	case containsAny(lowered, formalMarkers):
		m.SetSpeakingStyle("formal")
	case containsAny(lowered, casualMarkers):
		m.SetSpeakingStyle("casual")
	}

	switch {
	case strings.Count(lowered, "!") >= 2 || hasEmoji(text):
		m.SetToneVibe("playful")
	case strings.Count(lowered, "?") >= 2:
		m.SetToneVibe("curious")
	}
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func hasEmoji(s string) bool {
	for _, r := range s {
		if r >= 0x1F300 && r <= 0x1FAFF {
			return true
		}
		if unicode.Is(unicode.So, r) {
			return true
		}
	}
	return false
}
