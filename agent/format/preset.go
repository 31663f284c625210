package format

import (
	"fmt"

	"github.com/slongfield/pyfmt"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

// Preset pairs wrapping tags with a "{name}" placeholder template.
type Preset struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	OpenTag     string         `json:"open_tag" yaml:"open_tag"`
	CloseTag    string         `json:"close_tag" yaml:"close_tag"`
	Template    string         `json:"template" yaml:"template"`
	Metadata    map[string]any `json:"metadata" yaml:"metadata"`
}

func (p Preset) Render(values map[string]string) (string, error) {
	args := make(map[string]any, len(values))
	for k, v := range values {
		args[k] = v
	}

	content, err := pyfmt.Fmt(p.Template, args)
	if err != nil {
		return "", fmt.Errorf("%w: render preset %s: %v", contractx.ErrValidation, p.Name, err)
	}
	return p.OpenTag + content + p.CloseTag, nil
}

func (p Preset) validate() error {
	if p.Template == "" {
		return fmt.Errorf("%w: preset %s has no template", contractx.ErrValidation, p.Name)
	}
	return nil
}
