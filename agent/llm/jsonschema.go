package llm

import (
	"sort"

	"github.com/cloudwego/eino/schema"
)

// ToolSchemaKey is the ToolInfo.Extra key holding the rendered parameter schema.
const ToolSchemaKey = "json_schema"

// ToolSchema returns the parameter schema attached under ToolSchemaKey,
// or an empty object schema.
func ToolSchema(info *schema.ToolInfo) map[string]any {
	if info != nil {
		if params, ok := info.Extra[ToolSchemaKey].(map[string]any); ok {
			return params
		}
	}
	return ParamsSchema(nil)
}

// ParamsSchema renders tool parameters as a JSON schema object.
func ParamsSchema(params map[string]*schema.ParameterInfo) map[string]any {
	properties := make(map[string]any, len(params))
	required := make([]string, 0, len(params))

	for name, info := range params {
		if info == nil {
			continue
		}
		properties[name] = paramSchema(info)
		if info.Required {
			required = append(required, name)
		}
	}
	sort.Strings(required)

	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func paramSchema(info *schema.ParameterInfo) map[string]any {
	out := map[string]any{}
	if info.Type != "" {
		out["type"] = string(info.Type)
	}
	if info.Desc != "" {
		out["description"] = info.Desc
	}
	if len(info.Enum) > 0 {
		enum := make([]string, len(info.Enum))
		copy(enum, info.Enum)
		out["enum"] = enum
	}
	if info.ElemInfo != nil {
		out["items"] = paramSchema(info.ElemInfo)
	}
	if len(info.SubParams) > 0 {
		nested := ParamsSchema(info.SubParams)
		out["properties"] = nested["properties"]
		out["required"] = nested["required"]
	}
	return out
}
