// Package params implements the free-form iCalendar parameter tail codec.
//
// Calendar clients attach vendor extension parameters (X-NUM-GUESTS,
// SCHEDULE-STATUS, ...) to ATTENDEE and ORGANIZER lines. These are stored
// on the event record as a single ";"-joined NAME=VALUE string so they can
// be replayed verbatim on export.
package params

import (
	"strings"
)

// Pair is one NAME=VALUE parameter.
type Pair struct {
	Name  string
	Value string
}

// Parse splits a stored parameter tail into its pairs. Parameter names are
// normalized to upper case; quoted values are unquoted. Empty or nameless
// segments are dropped rather than reported as errors, since the tail is
// opaque vendor data.
func Parse(s string) []Pair {
	if s == "" {
		return nil
	}

	var pairs []Pair
	for _, segment := range splitUnquoted(s, ';') {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		name := segment
		value := ""
		if idx := strings.IndexByte(segment, '='); idx >= 0 {
			name = segment[:idx]
			value = unquote(segment[idx+1:])
		}

		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" {
			continue
		}

		pairs = append(pairs, Pair{Name: name, Value: value})
	}
	return pairs
}

// Format joins pairs back into the stored tail form. Values containing
// characters that are significant in iCalendar parameter lists are quoted;
// double quotes cannot appear inside a quoted value per RFC 5545 and are
// stripped.
func Format(pairs []Pair) string {
	if len(pairs) == 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strings.ToUpper(p.Name))
		b.WriteByte('=')
		b.WriteString(quote(p.Value))
	}
	return b.String()
}

// splitUnquoted splits s on sep, ignoring separators inside double quotes.
func splitUnquoted(s string, sep byte) []string {
	var parts []string
	start := 0
	quoted := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			quoted = !quoted
		case sep:
			if !quoted {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

func quote(v string) string {
	v = strings.ReplaceAll(v, `"`, "")
	if strings.ContainsAny(v, ";:,=") {
		return `"` + v + `"`
	}
	return v
}
