// Package prompt flattens structured conversations into the single text
// prompt the assistant CLI expects.
package prompt

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Message is one turn of a conversation. Role is free-form; "user" and
// "assistant" by convention.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Flatten renders a conversation as newline-joined "<Role>: <content>"
// lines, preceded by a "System: <system>" line when system is non-empty.
// Only the first rune of each role is upper-cased; the rest is kept as-is.
// The result has no trailing newline.
//
// Flatten is pure: identical input yields identical output.
func Flatten(messages []Message, system string) string {
	lines := make([]string, 0, len(messages)+1)
	if system != "" {
		lines = append(lines, "System: "+system)
	}
	for _, m := range messages {
		lines = append(lines, capitalize(m.Role)+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// capitalize upper-cases the first rune of s, leaving the rest untouched.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
