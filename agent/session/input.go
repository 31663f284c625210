package session

import (
	"fmt"
	"strings"

	languagex "github.com/tanpawarit/dekomposit/agent/language"
)

type Command string

const (
	CommandNone       Command = ""
	CommandToggleMode Command = "mode"
	CommandSwapPair   Command = "swap"
	CommandHelp       Command = "help"
	CommandExit       Command = "exit"
)

var namedCommands = map[string]Command{
	string(CommandToggleMode): CommandToggleMode,
	string(CommandSwapPair):   CommandSwapPair,
	string(CommandHelp):       CommandHelp,
	string(CommandExit):       CommandExit,
	"quit":                    CommandExit,
}

// ParsedInput is one line of user input. At most one of Err, Command and a
// non-empty Text drives the next step; Pair may accompany Text.
type ParsedInput struct {
	Text    string
	Pair    *Pair
	Command Command
	Err     string
}

// ParseInput splits plain text from slash commands such as /enru.
func ParseInput(raw string) ParsedInput {
	stripped := strings.TrimSpace(raw)
	if stripped == "" {
		return ParsedInput{}
	}
	if !strings.HasPrefix(stripped, "/") {
		return ParsedInput{Text: stripped}
	}

	token, remainder, _ := strings.Cut(stripped, " ")
	command := strings.ToLower(token[1:])

	if named, ok := namedCommands[command]; ok {
		return ParsedInput{Command: named}
	}

	if len(command) == 4 && isAlpha(command) {
		source, target := command[:2], command[2:]
		if source == target {
			return ParsedInput{Err: "Source and target language cannot be the same."}
		}
		if !languagex.IsSupported(source) || !languagex.IsSupported(target) {
			return ParsedInput{Err: fmt.Sprintf(
				"Unsupported language pair '/%s'. Supported languages: %s.",
				command, strings.Join(languagex.Supported, ", "),
			)}
		}
		pair := NewPair(source, target)
		return ParsedInput{Text: strings.TrimSpace(remainder), Pair: &pair}
	}

	return ParsedInput{Err: fmt.Sprintf("Unknown command '%s'. Use /enru style commands.", token)}
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
