package language

import "strings"

const (
	ukrainianMarkers = "іїєґ"
	russianMarkers   = "ъыэё"
	slovakMarkers    = "áäčďéíĺľňóôŕšťúýž"
)

// DetectLocal guesses the language from script and letter markers.
// It returns "" when the text carries no usable letters.
func DetectLocal(text string) string {
	lowered := strings.ToLower(text)
	if lowered == "" {
		return ""
	}

	if strings.IndexFunc(lowered, isCyrillic) >= 0 {
		switch {
		case strings.ContainsAny(lowered, ukrainianMarkers):
			return Ukrainian
		case strings.ContainsAny(lowered, russianMarkers):
			return Russian
		default:
			return Ukrainian
		}
	}

	if strings.ContainsAny(lowered, slovakMarkers) {
		return Slovak
	}
	if strings.IndexFunc(lowered, func(r rune) bool { return r >= 'a' && r <= 'z' }) >= 0 {
		return English
	}
	return ""
}

func isCyrillic(r rune) bool {
	return r >= 0x0400 && r <= 0x04FF
}
