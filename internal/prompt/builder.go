// Package prompt renders a history window and a new user message into
// a single backend-ready prompt string.
package prompt

import (
	"strings"

	"github.com/stupiduntilnot/relaybot/internal/history"
)

// Build renders the prompt for one exchange. With no history the new
// input is returned verbatim so first-time users get no empty framing
// lines. Otherwise each turn becomes a two-line "User:/Bot:" block in
// chronological order, followed by the new input and an open "Bot:"
// line for the model to complete.
func Build(window []history.Turn, newInput string) string {
	if len(window) == 0 {
		return newInput
	}

	var b strings.Builder
	for _, t := range window {
		b.WriteString("User: ")
		b.WriteString(t.Input)
		b.WriteString("\nBot: ")
		b.WriteString(t.Output)
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(newInput)
	b.WriteString("\nBot:")
	return b.String()
}
