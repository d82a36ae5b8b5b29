package codegen

import (
	"strings"
	"unicode"
)

func toPascalCase(s string) string {
	if s == "" {
		return "Unknown"
	}
	words := splitWords(s)
	var result strings.Builder
	for _, word := range words {
		if len(word) > 0 {
			result.WriteString(strings.ToUpper(string(word[0])))
			if len(word) > 1 {
				result.WriteString(strings.ToLower(word[1:]))
			}
		}
	}
	name := result.String()
	if name == "" {
		return "Unknown"
	}
	return name
}

func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	for _, r := range s {
		if r == '_' || r == '-' || r == ' ' {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		} else {
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

// sanitizeName keeps the characters that are valid in a Go identifier and
// turns word separators into underscores.
func sanitizeName(s string) string {
	if s == "" {
		return "unnamed"
	}
	var result strings.Builder
	for i, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) || r == '_') {
			result.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '/' || r == '.' {
			result.WriteRune('_')
		}
	}
	name := result.String()
	if name == "" {
		return "unnamed"
	}
	// Ensure starts with letter
	if unicode.IsDigit(rune(name[0])) {
		name = "_" + name
	}
	return name
}
