package encode

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var escapes = map[rune]string{
	'"':  `\"`,
	'\\': `\\`,
	'\b': `\b`,
	'\f': `\f`,
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
}

// Quote double quotes v with escapes valid in both JSON and YAML.
func Quote(v string) string {
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteByte('"')
	for _, r := range v {
		if e, ok := escapes[r]; ok {
			b.WriteString(e)
			continue
		}
		if unicode.IsControl(r) {
			fmt.Fprintf(&b, `\u%04x`, r)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// NeedsQuote reports whether v would read back as something other than the
// string v when written as a plain YAML scalar.
func NeedsQuote(v string) bool {
	if v == "" || strings.TrimSpace(v) != v {
		return true
	}
	switch strings.ToLower(v) {
	case "true", "false", "null", "~", "yes", "no", "on", "off", ".inf", "-.inf", "+.inf", ".nan":
		return true
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseInt(v, 0, 64); err == nil {
		return true
	}
	switch v[0] {
	case '*', '&', '%', '@', '`', '!', '|', '>', '\'', '"', '#', ',', '{', '}', '[', ']', '?', ':', '-':
		return true
	}
	if strings.Contains(v, ": ") || strings.Contains(v, " #") || strings.HasSuffix(v, ":") {
		return true
	}
	for _, r := range v {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
