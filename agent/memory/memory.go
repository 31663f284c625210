package memory

import (
	"fmt"
	"strings"
	"sync"

	contractx "github.com/tanpawarit/dekomposit/agent/contract"
)

const (
	MaxHistory       = 50
	RecentHistory    = 10
	MaxNotesRendered = 20
	MistakeThreshold = 5
	snippetRunes     = 100

	DefaultTeachingStyle = "balanced"
	DefaultSpeakingStyle = "neutral"
	DefaultToneVibe      = "friendly"
)

// Memory is the per-session learner state rendered into every system prompt.
// It is safe for concurrent use.
type Memory struct {
	mu sync.RWMutex

	notes         []string
	topics        []string
	gaps          []string
	mistakes      map[string]int
	teachingStyle string
	speakingStyle string
	toneVibe      string
	history       []contractx.Message
}

func New() *Memory {
	return &Memory{
		mistakes:      make(map[string]int),
		teachingStyle: DefaultTeachingStyle,
		speakingStyle: DefaultSpeakingStyle,
		toneVibe:      DefaultToneVibe,
	}
}

func (m *Memory) AddNote(note string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = appendUnique(m.notes, note)
}

func (m *Memory) RemoveNote(note string) bool {
	lowered := strings.ToLower(strings.TrimSpace(note))
	if lowered == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.notes {
		if strings.ToLower(existing) == lowered {
			m.notes = append(m.notes[:i], m.notes[i+1:]...)
			return true
		}
	}
	return false
}

func (m *Memory) ClearNotes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = nil
}

func (m *Memory) Notes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.notes...)
}

func (m *Memory) AddTopic(topic string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = appendUnique(m.topics, topic)
}

func (m *Memory) Topics() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.topics...)
}

// AddMistake counts a mistake type; at the threshold it becomes a learning gap once.
func (m *Memory) AddMistake(kind string) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(kind)
	m.mistakes[key]++
	if m.mistakes[key] == MistakeThreshold {
		m.gaps = appendUnique(m.gaps, kind)
	}
}

func (m *Memory) LearningGaps() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.gaps...)
}

func (m *Memory) SetTeachingStyle(style string) {
	m.setField(&m.teachingStyle, style)
}

func (m *Memory) SetSpeakingStyle(style string) {
	m.setField(&m.speakingStyle, style)
}

func (m *Memory) SetToneVibe(tone string) {
	m.setField(&m.toneVibe, tone)
}

func (m *Memory) setField(field *string, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	*field = value
}

// Styles returns teaching style, speaking style and tone.
func (m *Memory) Styles() (string, string, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.teachingStyle, m.speakingStyle, m.toneVibe
}

// AddMessage appends to history and keeps only the most recent MaxHistory entries.
func (m *Memory) AddMessage(role contractx.Role, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, contractx.Message{Role: role, Content: content})
	if over := len(m.history) - MaxHistory; over > 0 {
		m.history = append([]contractx.Message(nil), m.history[over:]...)
	}
}

func (m *Memory) History() []contractx.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]contractx.Message{}, m.history...)
}

func (m *Memory) HistorySize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.history)
}

func (m *Memory) ToMarkdown() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder
	b.WriteString("## Memory Notes\n")
	b.WriteString(m.renderNotes())
	b.WriteString("\n\n## Learning Gaps\n")
	b.WriteString(joinOr(m.gaps, "Still learning..."))
	b.WriteString("\n\n## Topics of Interest\n")
	b.WriteString(joinOr(m.topics, "Nothing specific yet"))
	b.WriteString("\n\n## Style\n")
	fmt.Fprintf(&b, "- Teaching style: %s\n", m.teachingStyle)
	fmt.Fprintf(&b, "- Speaking style: %s\n", m.speakingStyle)
	fmt.Fprintf(&b, "- Tone: %s", m.toneVibe)
	b.WriteString("\n\n## Recent Conversation\n")
	b.WriteString(m.renderHistory())
	b.WriteString("\n")
	return b.String()
}

func (m *Memory) ToText() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lines := []string{
		"Notes: " + joinOr(m.notes, "No memory notes yet"),
		"Learning gaps: " + joinOr(m.gaps, "Still learning..."),
		"Topics: " + joinOr(m.topics, "Nothing specific yet"),
		fmt.Sprintf("Style: teaching=%s, speaking=%s, tone=%s", m.teachingStyle, m.speakingStyle, m.toneVibe),
		"Recent conversation:",
		m.renderHistory(),
	}
	return strings.Join(lines, "\n")
}

func (m *Memory) renderNotes() string {
	if len(m.notes) == 0 {
		return "No memory notes yet"
	}
	notes := m.notes
	if len(notes) > MaxNotesRendered {
		notes = notes[len(notes)-MaxNotesRendered:]
	}
	lines := make([]string, 0, len(notes))
	for _, note := range notes {
		lines = append(lines, "- "+note)
	}
	return strings.Join(lines, "\n")
}

func (m *Memory) renderHistory() string {
	if len(m.history) == 0 {
		return "No history yet"
	}
	recent := m.history
	if len(recent) > RecentHistory {
		recent = recent[len(recent)-RecentHistory:]
	}
	lines := make([]string, 0, len(recent))
	for _, msg := range recent {
		lines = append(lines, fmt.Sprintf("- %s: %s...", msg.Role, truncate(msg.Content, snippetRunes)))
	}
	return strings.Join(lines, "\n")
}

func appendUnique(list []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return list
	}
	for _, existing := range list {
		if strings.EqualFold(existing, value) {
			return list
		}
	}
	return append(list, value)
}

func joinOr(list []string, fallback string) string {
	if len(list) == 0 {
		return fallback
	}
	return strings.Join(list, ", ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
