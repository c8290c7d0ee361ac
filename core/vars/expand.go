package vars

import "strings"

// Expand replaces ${NAME} and $NAME in text with the string form of the
// variables known to vars. References to unknown variables are left alone.
//
// Expansion is a single left to right pass: substituted values are never
// scanned again, so a value containing "$" is copied through verbatim.
func Expand(text string, vars Lookuper) string {
	if !strings.Contains(text, "$") {
		return text
	}

	names := vars.Names()
	var out strings.Builder
	out.Grow(len(text))

	for i := 0; i < len(text); {
		if text[i] != '$' {
			out.WriteByte(text[i])
			i++
			continue
		}

		rest := text[i+1:]
		if strings.HasPrefix(rest, "{") {
			if end := strings.IndexByte(rest, '}'); end > 0 {
				if val, ok := vars.Lookup(rest[1:end]); ok {
					out.WriteString(val.String())
					i += end + 2
					continue
				}
			}
		}

		if name := longestPrefix(rest, names); name != "" {
			val, _ := vars.Lookup(name)
			out.WriteString(val.String())
			i += len(name) + 1
			continue
		}

		out.WriteByte('$')
		i++
	}

	return out.String()
}

// longestPrefix returns the first name that prefixes s, names are expected
// longest first.
func longestPrefix(s string, names []string) string {
	for _, name := range names {
		if name != "" && strings.HasPrefix(s, name) {
			return name
		}
	}
	return ""
}
