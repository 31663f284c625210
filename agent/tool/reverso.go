package tool

import (
	"context"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
)

const ToolReverso = "reverso_api"

// ReversoTool is registered disabled until the Reverso Context integration exists.
type ReversoTool struct {
	Base
}

func NewReversoTool() *ReversoTool {
	return &ReversoTool{Base: Base{
		ToolName: ToolReverso,
		ToolDesc: "Get translations and context examples from Reverso Context",
		Disabled: true,
		Params: map[string]*schema.ParameterInfo{
			"text":        {Type: schema.String, Desc: "Text to translate", Required: true},
			"source_lang": {Type: schema.String, Desc: "Source language code", Required: true},
			"target_lang": {Type: schema.String, Desc: "Target language code", Required: true},
		},
	}}
}

func (t *ReversoTool) Invoke(_ context.Context, args map[string]any) (any, error) {
	log.Info().
		Str("source_lang", stringArg(args, "source_lang")).
		Str("target_lang", stringArg(args, "target_lang")).
		Msg("reverso api call attempted")
	return map[string]any{
		"status":  "unavailable",
		"message": "reverso_api is disabled until the integration is implemented",
	}, nil
}
