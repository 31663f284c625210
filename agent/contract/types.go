package contract

type ResultType string

const (
	ResultResponse ResultType = "response"
	ResultError    ResultType = "error"
)

type Action string

const (
	ActionTranslate Action = "translate"
	ActionRespond   Action = "respond"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolCallRecord is one executed tool call inside a single loop run.
type ToolCallRecord struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
	Result    map[string]any `json:"result"`
}

// FormatSpec asks the renderer to wrap a result with a named preset.
// An empty Preset selects the active one.
type FormatSpec struct {
	Preset string            `json:"preset,omitempty"`
	Values map[string]string `json:"values"`
}

type Result struct {
	Type      ResultType       `json:"type"`
	Message   string           `json:"message"`
	ToolCalls []ToolCallRecord `json:"tool_calls"`
	Format    *FormatSpec      `json:"format,omitempty"`
}

// Decision is the structured routing answer for one user message.
type Decision struct {
	Action     Action `json:"action"`
	Text       string `json:"text"`
	SourceLang string `json:"source_lang,omitempty"`
	TargetLang string `json:"target_lang,omitempty"`
}

type LanguageDetection struct {
	Language   string `json:"language"`
	Confidence string `json:"confidence"`
}

type Translation struct {
	Source     string `json:"source"`
	Translated string `json:"translated"`
	FromLang   string `json:"from_lang,omitempty"`
	ToLang     string `json:"to_lang,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
