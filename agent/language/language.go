package language

import "strings"

const (
	English   = "en"
	Russian   = "ru"
	Ukrainian = "uk"
	Slovak    = "sk"
)

var names = map[string]string{
	English:   "English",
	Russian:   "Russian",
	Ukrainian: "Ukrainian",
	Slovak:    "Slovak",
}

// Supported lists the language codes in display order.
var Supported = []string{English, Russian, Ukrainian, Slovak}

// Normalize lowercases a code and returns "" for anything unsupported.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if _, ok := names[code]; ok {
		return code
	}
	return ""
}

func IsSupported(code string) bool {
	return Normalize(code) != ""
}

// Name returns the English name of a supported code, or the code itself.
func Name(code string) string {
	if name, ok := names[Normalize(code)]; ok {
		return name
	}
	return code
}

// DefaultTarget picks a target when the user did not name one.
func DefaultTarget(source, fallback string) string {
	fallback = Normalize(fallback)
	if fallback == "" {
		fallback = English
	}
	if Normalize(source) == fallback {
		if fallback == English {
			return Russian
		}
		return English
	}
	return fallback
}
