package common

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// GoName converts an authored name into an exported Go identifier.
// Separators ('_', '-', ' ', '.') start a new capitalized word:
//   - "plants" -> "Plants"
//   - "growth_time" -> "GrowthTime"
//   - "Marigold" -> "Marigold"
//
// It reports false when the result is not a valid exported identifier.
func GoName(s string) (string, bool) {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})

	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(UpperFirst(w))
	}

	name := sb.String()
	if !token.IsIdentifier(name) || !token.IsExported(name) {
		return "", false
	}

	return name, true
}

// SnakeName converts an authored name into a lower snake_case file stem.
func SnakeName(s string) string {
	var sb strings.Builder

	prevLower := false
	for _, r := range s {
		switch {
		case r == '-' || r == ' ' || r == '.' || r == '_':
			if sb.Len() > 0 {
				sb.WriteByte('_')
			}

			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				sb.WriteByte('_')
			}

			sb.WriteRune(unicode.ToLower(r))

			prevLower = false
		default:
			sb.WriteRune(r)

			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}

	return strings.Trim(sb.String(), "_")
}

// UpperFirst upper-cases the first rune of s.
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

// LowerFirst lower-cases the first rune of s.
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}
