package tool

import (
	"context"
	"strings"
	"testing"
)

type fakeMemory struct {
	notes    []string
	topics   []string
	mistakes []string
	teaching string
	speaking string
	tone     string
}

func (f *fakeMemory) AddNote(note string) { f.notes = append(f.notes, note) }
func (f *fakeMemory) RemoveNote(note string) bool {
	for i, n := range f.notes {
		if strings.EqualFold(n, note) {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return true
		}
	}
	return false
}
func (f *fakeMemory) ClearNotes()                   { f.notes = nil }
func (f *fakeMemory) Notes() []string               { return append([]string(nil), f.notes...) }
func (f *fakeMemory) AddTopic(topic string)         { f.topics = append(f.topics, topic) }
func (f *fakeMemory) AddMistake(kind string)        { f.mistakes = append(f.mistakes, kind) }
func (f *fakeMemory) SetTeachingStyle(style string) { f.teaching = style }
func (f *fakeMemory) SetSpeakingStyle(style string) { f.speaking = style }
func (f *fakeMemory) SetToneVibe(tone string)       { f.tone = tone }
func (f *fakeMemory) HistorySize() int              { return 3 }

func TestMemoryToolWithoutMemory(t *testing.T) {
	t.Parallel()

	out, _ := NewMemoryTool().Invoke(context.Background(), map[string]any{"action": "get"})
	if out.(map[string]any)["status"] != "error" {
		t.Fatalf("expected error without memory, got %#v", out)
	}
}

func TestMemoryToolActions(t *testing.T) {
	t.Parallel()

	mem := &fakeMemory{}
	tool := NewMemoryTool()
	tool.BindMemory(mem)
	ctx := context.Background()

	out, _ := tool.Invoke(ctx, map[string]any{"action": "add", "note": "likes tea"})
	res := out.(map[string]any)
	if res["status"] != "success" || res["message"] != "Memory updated: add" {
		t.Fatalf("unexpected add result: %#v", res)
	}
	if len(mem.notes) != 1 || mem.notes[0] != "likes tea" {
		t.Fatalf("unexpected notes: %#v", mem.notes)
	}

	out, _ = tool.Invoke(ctx, map[string]any{"action": "get"})
	res = out.(map[string]any)
	if res["history_size"] != 3 {
		t.Fatalf("unexpected get result: %#v", res)
	}

	out, _ = tool.Invoke(ctx, map[string]any{"action": "remove", "remove_note": "nothing"})
	if out.(map[string]any)["message"] != "Note not found" {
		t.Fatalf("unexpected remove result: %#v", out)
	}

	out, _ = tool.Invoke(ctx, map[string]any{"action": "add"})
	if out.(map[string]any)["status"] != "error" {
		t.Fatalf("expected missing note error, got %#v", out)
	}

	_, _ = tool.Invoke(ctx, map[string]any{"action": "set_tone", "value": "playful"})
	if mem.tone != "playful" {
		t.Fatalf("unexpected tone: %q", mem.tone)
	}

	_, _ = tool.Invoke(ctx, map[string]any{"action": "clear"})
	if len(mem.notes) != 0 {
		t.Fatalf("expected cleared notes, got %#v", mem.notes)
	}

	out, _ = tool.Invoke(ctx, map[string]any{"action": "dance"})
	if out.(map[string]any)["message"] != "Unsupported action: dance" {
		t.Fatalf("unexpected result: %#v", out)
	}
}

func TestLanguageDetectionToolEmptyText(t *testing.T) {
	t.Parallel()

	tool, err := NewLanguageDetectionTool(fakeDetector{})
	if err != nil {
		t.Fatalf("NewLanguageDetectionTool() error = %v", err)
	}
	out, _ := tool.Invoke(context.Background(), map[string]any{"text": "  "})
	res := out.(map[string]any)
	if res["language"] != "unknown" || res["confidence"] != "none" || res["error"] != "Empty text" {
		t.Fatalf("unexpected result: %#v", res)
	}
}
