package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SplitSentences splits a slide prompt into its sentences, one per line.
// Text is NFC-normalized, CRLF line endings are accepted, and each entry is
// trimmed. Blank lines are kept so that sentence indexes stay aligned with
// the next_sentence events recorded against the prompt.
func SplitSentences(prompt string) []string {
	if strings.TrimSpace(prompt) == "" {
		return nil
	}
	normalized := norm.NFC.String(strings.ReplaceAll(prompt, "\r\n", "\n"))
	parts := strings.Split(normalized, "\n")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}
