package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the value at
// maxLen runes before it is forwarded upstream. maxLen <= 0 means no
// cap. Truncation is rune-aware so multibyte input is never split.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) <= maxLen {
		return trimmed
	}
	return string(runes[:maxLen])
}
