package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/assistant.txt
var assistantRaw string

// Assistant returns the trimmed system prompt for the dispatch assistant.
func Assistant() string {
	return strings.TrimSpace(assistantRaw)
}
