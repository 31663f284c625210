package session

import (
	"regexp"
	"strings"
)

var (
	wholeTagPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)^<translated>(.*)</translated>$`),
		regexp.MustCompile(`(?is)^<translation>(.*)</translation>$`),
	}
	innerTagPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<translated>(.*?)</translated>`),
		regexp.MustCompile(`(?is)<translation>(.*?)</translation>`),
	}
)

// ParseAssistantText unwraps a translation tag. A reply that is entirely one
// tag wins over a tag found inside other text.
func ParseAssistantText(text string, defaultKind Kind) (string, Kind) {
	stripped := strings.TrimSpace(text)
	if stripped == "" {
		return "", defaultKind
	}

	for _, patterns := range [][]*regexp.Regexp{wholeTagPatterns, innerTagPatterns} {
		for _, pattern := range patterns {
			if match := pattern.FindStringSubmatch(stripped); match != nil {
				return strings.TrimSpace(match[1]), KindTranslated
			}
		}
	}
	return stripped, defaultKind
}
