package memory

import contractx "github.com/tanpawarit/dekomposit/agent/contract"

var _ contractx.MemoryHandle = (*Handle)(nil)

// Handle exposes Memory to tools and reports every mutation through onChange.
type Handle struct {
	memory   *Memory
	onChange func()
}

func NewHandle(memory *Memory, onChange func()) *Handle {
	return &Handle{memory: memory, onChange: onChange}
}

func (h *Handle) changed() {
	if h.onChange != nil {
		h.onChange()
	}
}

func (h *Handle) AddNote(note string) {
	h.memory.AddNote(note)
	h.changed()
}

func (h *Handle) RemoveNote(note string) bool {
	removed := h.memory.RemoveNote(note)
	if removed {
		h.changed()
	}
	return removed
}

func (h *Handle) ClearNotes() {
	h.memory.ClearNotes()
	h.changed()
}

func (h *Handle) Notes() []string { return h.memory.Notes() }

func (h *Handle) AddTopic(topic string) {
	h.memory.AddTopic(topic)
	h.changed()
}

func (h *Handle) AddMistake(kind string) {
	h.memory.AddMistake(kind)
	h.changed()
}

func (h *Handle) SetTeachingStyle(style string) {
	h.memory.SetTeachingStyle(style)
	h.changed()
}

func (h *Handle) SetSpeakingStyle(style string) {
	h.memory.SetSpeakingStyle(style)
	h.changed()
}

func (h *Handle) SetToneVibe(tone string) {
	h.memory.SetToneVibe(tone)
	h.changed()
}

func (h *Handle) HistorySize() int { return h.memory.HistorySize() }
