package tool

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

const ToolMemory = "memory"

// MemoryTool lets the model manage notes and learner profile details.
type MemoryTool struct {
	Base
	memory contractx.MemoryHandle
}

func NewMemoryTool() *MemoryTool {
	return &MemoryTool{Base: Base{
		ToolName: ToolMemory,
		ToolDesc: "Manage free-form memory notes about the user. Use add/get/remove/clear actions, " +
			"or record topics, mistakes and style preferences.",
		Params: map[string]*schema.ParameterInfo{
			"action": {
				Type:     schema.String,
				Desc:     "One of: add, get, remove, clear, add_topic, add_mistake, set_teaching_style, set_speaking_style, set_tone",
				Enum:     []string{"add", "get", "remove", "clear", "add_topic", "add_mistake", "set_teaching_style", "set_speaking_style", "set_tone"},
				Required: true,
			},
			"note":        {Type: schema.String, Desc: "Free-form note to store when action=add"},
			"remove_note": {Type: schema.String, Desc: "Existing note to remove when action=remove"},
			"value":       {Type: schema.String, Desc: "Topic, mistake type or style for the profile actions"},
		},
	}}
}

func (m *MemoryTool) BindMemory(handle contractx.MemoryHandle) {
	m.memory = handle
}

func (m *MemoryTool) Invoke(_ context.Context, args map[string]any) (any, error) {
	if m.memory == nil {
		return map[string]any{"status": "error", "message": "Agent memory not available"}, nil
	}

	action := strings.ToLower(stringArg(args, "action"))
	if action == "get" {
		return m.snapshot("", false), nil
	}

	value := stringArg(args, "value")
	switch action {
	case "add":
		note := stringArg(args, "note")
		if note == "" {
			return fail("Missing required 'note' for add action"), nil
		}
		m.memory.AddNote(note)
	case "remove":
		note := stringArg(args, "remove_note")
		if note == "" {
			return fail("Missing required 'remove_note' for remove action"), nil
		}
		if !m.memory.RemoveNote(note) {
			out := fail("Note not found")
			out["notes"] = m.memory.Notes()
			return out, nil
		}
	case "clear":
		m.memory.ClearNotes()
	case "add_topic", "add_mistake", "set_teaching_style", "set_speaking_style", "set_tone":
		if value == "" {
			return fail("Missing required 'value' for " + action + " action"), nil
		}
		m.applyProfile(action, value)
	default:
		return fail("Unsupported action: " + action), nil
	}

	return m.snapshot(action, true), nil
}

func (m *MemoryTool) applyProfile(action, value string) {
	switch action {
	case "add_topic":
		m.memory.AddTopic(value)
	case "add_mistake":
		m.memory.AddMistake(value)
	case "set_teaching_style":
		m.memory.SetTeachingStyle(value)
	case "set_speaking_style":
		m.memory.SetSpeakingStyle(value)
	case "set_tone":
		m.memory.SetToneVibe(value)
	}
}

func (m *MemoryTool) snapshot(action string, updated bool) map[string]any {
	out := map[string]any{
		"status":       "success",
		"notes":        m.memory.Notes(),
		"history_size": m.memory.HistorySize(),
	}
	if updated {
		out["message"] = "Memory updated: " + action
	}
	return out
}

func fail(message string) map[string]any {
	return map[string]any{"status": "error", "message": message}
}
