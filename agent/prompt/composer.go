package prompt

import "strings"

const (
	overridePlaceholder = "{custom_personality}"
	memoryPlaceholder   = "{memory_markdown}"
)

// fragmentOrder fixes the section order of the composed prompt.
var fragmentOrder = []string{FragmentPersona, FragmentMemory}

// Compose builds the system prompt from fragments, per-fragment overrides and
// the rendered memory. Missing or empty fragments are skipped.
func Compose(fragments, overrides map[string]string, memory string) string {
	sections := make([]string, 0, len(fragmentOrder))
	for _, name := range fragmentOrder {
		section := strings.TrimSpace(fragments[name])
		if section == "" {
			continue
		}
		section = strings.ReplaceAll(section, overridePlaceholder, overrides[name])
		if name == FragmentMemory {
			section = strings.ReplaceAll(section, memoryPlaceholder, memory)
		}
		if section = strings.TrimSpace(section); section != "" {
			sections = append(sections, section)
		}
	}
	return strings.Join(sections, "\n\n")
}
