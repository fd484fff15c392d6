package common

import (
	"strings"
	"unicode"
)

// labelReplacements is applied in order before the final alphanumeric strip.
var labelReplacements = []struct{ old, new string }{
	{" ", ""},
	{"/", ""},
	{"&", "And"},
	{"-", ""},
	{"(", ""},
	{")", ""},
}

// Sanitize turns a free-text label from the metadata documents into a string
// of ASCII letters and digits only. "Top Load" -> "TopLoad",
// "Washer/Dryer & More" -> "WasherDryerAndMore". The result may be empty.
func Sanitize(label string) string {
	for _, r := range labelReplacements {
		label = strings.ReplaceAll(label, r.old, r.new)
	}
	var b strings.Builder
	b.Grow(len(label))
	for i := 0; i < len(label); i++ {
		c := label[i]
		if isUpper(c) || isLower(c) || isDigit(c) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Identifier builds a lowerCamel C identifier fragment from an arbitrary key.
// Keys that sanitize to nothing become "unnamed".
func Identifier(key string) string {
	s := Sanitize(ToPascalCase(key))
	if s == "" {
		return "unnamed"
	}
	s = strings.ToLower(s[:1]) + s[1:]
	return SanitizeLeadingDigit(s)
}

func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}

	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})

	var result strings.Builder
	for _, word := range words {
		if len(word) > 0 {
			result.WriteString(strings.ToUpper(string(word[0])))
			if len(word) > 1 {
				result.WriteString(word[1:])
			}
		}
	}

	return result.String()
}

// CString renders s as a double-quoted C string literal. Bytes outside
// printable ASCII are written as three-digit octal escapes.
func CString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '?':
			// avoid trigraphs
			b.WriteString(`\?`)
		case c >= 0x20 && c < 0x7f:
			b.WriteByte(c)
		default:
			b.WriteByte('\\')
			b.WriteByte('0' + c>>6)
			b.WriteByte('0' + (c>>3)&7)
			b.WriteByte('0' + c&7)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
func isLower(b byte) bool { return b >= 'a' && b <= 'z' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
