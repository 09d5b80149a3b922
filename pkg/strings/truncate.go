package strings

import (
	"strings"
	"unicode"
)

// DefaultDescriptionMaxLen is the description width used by the tables
// printed from the CLI.
const DefaultDescriptionMaxLen = 60

// MinTruncateLen is the smallest maxLen TruncateDescription honours; it
// leaves room for one character plus "...".
const MinTruncateLen = 4

// TruncateDescription collapses all whitespace runs into single spaces and
// cuts the result to maxLen runes, ending it with "..." when it was shortened.
func TruncateDescription(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// SnakeToCamel converts a snake_case key into lower camelCase:
// "per_page" becomes "perPage" and "sender_email_id" becomes "senderEmailId".
// Every segment after the first is capitalised and the rest of the segment
// lowercased; empty segments produced by doubled underscores are dropped.
func SnakeToCamel(key string) string {
	if !strings.Contains(key, "_") {
		return key
	}

	parts := strings.Split(key, "_")
	var b strings.Builder
	b.Grow(len(key))
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		runes := []rune(strings.ToLower(part))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}
