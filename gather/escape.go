package gather

import "strings"

// Escaper converts between the encoding of text inside a source document
// and message content. Unescape is applied to captured text before it
// becomes a message; Escape is applied to resolved text on output. For any
// text the format can contain, Escape(Unescape(s)) == s.
//
// A nil function is the identity.
type Escaper struct {
	Escape   func(string) string
	Unescape func(string) string
}

func (e Escaper) escape(s string) string {
	if e.Escape == nil {
		return s
	}
	return e.Escape(s)
}

func (e Escaper) unescape(s string) string {
	if e.Unescape == nil {
		return s
	}
	return e.Unescape(s)
}

// Identity leaves text unchanged.
var Identity = Escaper{}

// RCString handles the body of a resource-script string literal: a doubled
// quote is one quote and \n is a newline. Other backslash sequences,
// including \\, stay in message content as written. On output a backslash
// at the end of the text or before a newline is doubled.
var RCString = Escaper{
	Escape:   func(s string) string { return escapeQuoted(s, `""`, rcEscapeFollows) },
	Unescape: func(s string) string { return unescapeQuoted(s, `""`) },
}

// JSONString handles the body of a JSON string literal: \" is a quote and
// \n is a newline. Other backslash sequences stay as written. On output a
// backslash that does not start a valid JSON escape is doubled.
var JSONString = Escaper{
	Escape:   func(s string) string { return escapeQuoted(s, `\"`, jsonEscapeFollows) },
	Unescape: func(s string) string { return unescapeQuoted(s, `\"`) },
}

// rcEscapeFollows reports whether a backslash followed by rest is kept as
// written in a resource-script literal.
func rcEscapeFollows(rest string) bool {
	return rest != "" && rest[0] != '\n'
}

// jsonEscapeFollows reports whether a backslash followed by rest is a JSON
// escape other than \\ and \".
func jsonEscapeFollows(rest string) bool {
	if rest == "" {
		return false
	}
	switch rest[0] {
	case '/', 'b', 'f', 'n', 'r', 't':
		return true
	case 'u':
		if len(rest) < 5 {
			return false
		}
		for _, c := range []byte(rest[1:5]) {
			if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
				return false
			}
		}
		return true
	}
	return false
}

func unescapeQuoted(s, quote string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		switch rest := s[i:]; {
		case strings.HasPrefix(rest, `\\`):
			sb.WriteString(`\\`)
			i += 2
		case strings.HasPrefix(rest, `\n`):
			sb.WriteByte('\n')
			i += 2
		case strings.HasPrefix(rest, quote):
			sb.WriteByte('"')
			i += len(quote)
		default:
			sb.WriteByte(s[i])
			i++
		}
	}
	return sb.String()
}

// escapeQuoted is the inverse of unescapeQuoted. A backslash for which
// follows reports false is written as \\.
func escapeQuoted(s, quote string, follows func(rest string) bool) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], `\\`):
			sb.WriteString(`\\`)
			i += 2
			continue
		case s[i] == '\\' && !follows(s[i+1:]):
			sb.WriteString(`\\`)
		case s[i] == '\n':
			sb.WriteString(`\n`)
		case s[i] == '"':
			sb.WriteString(quote)
		default:
			sb.WriteByte(s[i])
		}
		i++
	}
	return sb.String()
}
